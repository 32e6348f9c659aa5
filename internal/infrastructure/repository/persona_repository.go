package repository

import (
	"database/sql"
	"fmt"

	"github.com/Leonardo2020-col/qr-system-pay/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type personaRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPersonaRepository crea una nueva instancia del repositorio de personas
func NewPersonaRepository(db *sql.DB, logger *zap.Logger) domain.PersonaRepository {
	return &personaRepository{db: db, logger: logger}
}

const personaColumns = `
	id,
	nombre,
	dni,
	email,
	telefono,
	asociacion,
	empadronado,
	monto,
	foto_url,
	created_at
`

func scanPersona(row interface{ Scan(...any) error }) (*domain.Persona, error) {
	persona := &domain.Persona{}
	var email sql.NullString
	var fotoURL sql.NullString

	err := row.Scan(
		&persona.ID,
		&persona.Nombre,
		&persona.DNI,
		&email,
		&persona.Telefono,
		&persona.Asociacion,
		&persona.Empadronado,
		&persona.Monto,
		&fotoURL,
		&persona.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if email.Valid {
		persona.Email = email.String
	}
	if fotoURL.Valid {
		persona.FotoURL = &fotoURL.String
	}

	return persona, nil
}

// List devuelve todas las personas ordenadas por fecha de registro descendente
func (r *personaRepository) List() ([]domain.Persona, error) {
	query := `SELECT ` + personaColumns + ` FROM personas ORDER BY created_at DESC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("error al listar personas: %w", err)
	}
	defer rows.Close()

	var personas []domain.Persona
	for rows.Next() {
		persona, err := scanPersona(rows)
		if err != nil {
			return nil, fmt.Errorf("error al leer persona: %w", err)
		}
		personas = append(personas, *persona)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error al recorrer personas: %w", err)
	}

	return personas, nil
}

// Create inserta una nueva persona y asigna su ID
func (r *personaRepository) Create(persona *domain.Persona) error {
	query := `
		INSERT INTO personas (
			id,
			nombre,
			dni,
			email,
			telefono,
			asociacion,
			empadronado,
			monto,
			foto_url
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`

	if persona.ID == "" {
		persona.ID = uuid.New().String()
	}
	if persona.Asociacion == "" {
		persona.Asociacion = domain.AsociacionNinguna
	}

	err := r.db.QueryRow(
		query,
		persona.ID,
		persona.Nombre,
		persona.DNI,
		nullString(persona.Email),
		persona.Telefono,
		persona.Asociacion,
		persona.Empadronado,
		persona.Monto,
		nullStringPtr(persona.FotoURL),
	).Scan(&persona.CreatedAt)

	if err != nil {
		return fmt.Errorf("error al crear persona: %w", err)
	}

	r.logger.Info("persona creada", zap.String("id", persona.ID), zap.String("dni", persona.DNI))
	return nil
}

// GetByID obtiene una persona por su ID
func (r *personaRepository) GetByID(id string) (*domain.Persona, error) {
	query := `SELECT ` + personaColumns + ` FROM personas WHERE id = $1`

	persona, err := scanPersona(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrPersonaNoEncontrada
	}
	if err != nil {
		return nil, fmt.Errorf("error al obtener persona: %w", err)
	}

	return persona, nil
}

// Update actualiza los datos de una persona existente
func (r *personaRepository) Update(persona *domain.Persona) error {
	query := `
		UPDATE personas
		SET
			nombre = $1,
			dni = $2,
			email = $3,
			telefono = $4,
			asociacion = $5,
			empadronado = $6,
			monto = $7,
			foto_url = $8
		WHERE id = $9
	`

	result, err := r.db.Exec(
		query,
		persona.Nombre,
		persona.DNI,
		nullString(persona.Email),
		persona.Telefono,
		persona.Asociacion,
		persona.Empadronado,
		persona.Monto,
		nullStringPtr(persona.FotoURL),
		persona.ID,
	)
	if err != nil {
		return fmt.Errorf("error al actualizar persona: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error al verificar actualización: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrPersonaNoEncontrada
	}

	return nil
}

// Delete elimina una persona. Las filas de estatus dependientes se eliminan
// primero de forma explícita; la restricción ON DELETE CASCADE cubre el caso
// en que el almacén sea el único que garantice la limpieza referencial.
func (r *personaRepository) Delete(id string) error {
	if _, err := r.db.Exec(`DELETE FROM estatus_mensuales WHERE persona_id = $1`, id); err != nil {
		return fmt.Errorf("error al eliminar estatus de la persona: %w", err)
	}

	result, err := r.db.Exec(`DELETE FROM personas WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error al eliminar persona: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error al verificar eliminación: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrPersonaNoEncontrada
	}

	r.logger.Info("persona eliminada", zap.String("id", id))
	return nil
}

// FindByDNI busca una persona por su DNI. El DNI se trata como único pero el
// almacén no lo garantiza: si hay duplicados se devuelve la primera coincidencia.
func (r *personaRepository) FindByDNI(dni string) (*domain.Persona, error) {
	query := `SELECT ` + personaColumns + ` FROM personas WHERE dni = $1 ORDER BY created_at ASC LIMIT 1`

	persona, err := scanPersona(r.db.QueryRow(query, dni))
	if err == sql.ErrNoRows {
		return nil, nil // No existe, devolver nil sin error
	}
	if err != nil {
		return nil, fmt.Errorf("error al buscar persona por DNI: %w", err)
	}

	return persona, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullStringPtr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
