package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/Leonardo2020-col/qr-system-pay/internal/domain"
	"go.uber.org/zap"
)

type estatusRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewEstatusRepository crea una nueva instancia del repositorio de estatus mensuales
func NewEstatusRepository(db *sql.DB, logger *zap.Logger) domain.EstatusRepository {
	return &estatusRepository{db: db, logger: logger}
}

// Inicializar inserta las 12 filas del año en false. ON CONFLICT DO NOTHING
// hace la operación idempotente: dos inicializaciones concurrentes del mismo
// (persona, año) son esperadas e inofensivas.
func (r *estatusRepository) Inicializar(personaID string, anio int) error {
	var sb strings.Builder
	sb.WriteString(`INSERT INTO estatus_mensuales (persona_id, anio, mes, estatus) VALUES `)

	args := make([]any, 0, 2+12)
	args = append(args, personaID, anio)
	for mes := 1; mes <= 12; mes++ {
		if mes > 1 {
			sb.WriteString(", ")
		}
		sb.WriteString(fmt.Sprintf("($1, $2, $%d, FALSE)", mes+2))
		args = append(args, mes)
	}
	sb.WriteString(` ON CONFLICT (persona_id, anio, mes) DO NOTHING`)

	if _, err := r.db.Exec(sb.String(), args...); err != nil {
		return fmt.Errorf("error al inicializar estatus mensuales: %w", err)
	}

	r.logger.Debug("estatus mensuales inicializados",
		zap.String("persona_id", personaID), zap.Int("anio", anio))
	return nil
}

// GetYear devuelve las 12 filas de un año. No es una lectura pura: si el año
// nunca se consultó, lo materializa completo en false y devuelve las filas
// recién creadas.
func (r *estatusRepository) GetYear(personaID string, anio int) ([]domain.EstatusMensual, error) {
	filas, err := r.queryYear(personaID, anio)
	if err != nil {
		return nil, err
	}

	if len(filas) < 12 {
		if err := r.Inicializar(personaID, anio); err != nil {
			return nil, err
		}
		return r.queryYear(personaID, anio)
	}

	return filas, nil
}

func (r *estatusRepository) queryYear(personaID string, anio int) ([]domain.EstatusMensual, error) {
	query := `
		SELECT persona_id, anio, mes, estatus, observaciones
		FROM estatus_mensuales
		WHERE persona_id = $1 AND anio = $2
		ORDER BY mes ASC
	`

	rows, err := r.db.Query(query, personaID, anio)
	if err != nil {
		return nil, fmt.Errorf("error al obtener estatus del año: %w", err)
	}
	defer rows.Close()

	return scanEstatusRows(rows)
}

// GetMonth devuelve la fila de un mes. La ausencia no es un error: se crea la
// fila en false y se devuelve.
func (r *estatusRepository) GetMonth(personaID string, anio, mes int) (*domain.EstatusMensual, error) {
	query := `
		SELECT persona_id, anio, mes, estatus, observaciones
		FROM estatus_mensuales
		WHERE persona_id = $1 AND anio = $2 AND mes = $3
	`

	estatus := &domain.EstatusMensual{}
	err := r.db.QueryRow(query, personaID, anio, mes).Scan(
		&estatus.PersonaID,
		&estatus.Anio,
		&estatus.Mes,
		&estatus.Estatus,
		&estatus.Observaciones,
	)

	if err == sql.ErrNoRows {
		return r.SetMonth(personaID, anio, mes, false, "")
	}
	if err != nil {
		return nil, fmt.Errorf("error al obtener estatus del mes: %w", err)
	}

	return estatus, nil
}

// SetMonth actualiza o inserta la fila de un mes (upsert)
func (r *estatusRepository) SetMonth(personaID string, anio, mes int, valor bool, observaciones string) (*domain.EstatusMensual, error) {
	query := `
		INSERT INTO estatus_mensuales (persona_id, anio, mes, estatus, observaciones)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (persona_id, anio, mes)
		DO UPDATE SET estatus = EXCLUDED.estatus, observaciones = EXCLUDED.observaciones
		RETURNING persona_id, anio, mes, estatus, observaciones
	`

	estatus := &domain.EstatusMensual{}
	err := r.db.QueryRow(query, personaID, anio, mes, valor, observaciones).Scan(
		&estatus.PersonaID,
		&estatus.Anio,
		&estatus.Mes,
		&estatus.Estatus,
		&estatus.Observaciones,
	)
	if err != nil {
		return nil, fmt.Errorf("error al actualizar estatus: %w", err)
	}

	return estatus, nil
}

// Toggle invierte el estatus de un mes en una sola sentencia condicional, de
// modo que dos toggles concurrentes nunca pierden una inversión. Si la fila no
// existe se crea ya invertida (de false a true).
func (r *estatusRepository) Toggle(personaID string, anio, mes int) (bool, error) {
	query := `
		INSERT INTO estatus_mensuales (persona_id, anio, mes, estatus)
		VALUES ($1, $2, $3, TRUE)
		ON CONFLICT (persona_id, anio, mes)
		DO UPDATE SET estatus = NOT estatus_mensuales.estatus
		RETURNING estatus
	`

	var nuevoEstatus bool
	if err := r.db.QueryRow(query, personaID, anio, mes).Scan(&nuevoEstatus); err != nil {
		return false, fmt.Errorf("error al alternar estatus: %w", err)
	}

	return nuevoEstatus, nil
}

// GetAllForYear devuelve los estatus de todas las personas para un año en una
// sola consulta, para pintar la matriz sin caer en N+1.
func (r *estatusRepository) GetAllForYear(anio int) ([]domain.EstatusMensual, error) {
	query := `
		SELECT persona_id, anio, mes, estatus, observaciones
		FROM estatus_mensuales
		WHERE anio = $1
		ORDER BY persona_id ASC, mes ASC
	`

	rows, err := r.db.Query(query, anio)
	if err != nil {
		return nil, fmt.Errorf("error al obtener estatus del año: %w", err)
	}
	defer rows.Close()

	return scanEstatusRows(rows)
}

// DeleteByPersona elimina todas las filas de estatus de una persona
func (r *estatusRepository) DeleteByPersona(personaID string) error {
	if _, err := r.db.Exec(`DELETE FROM estatus_mensuales WHERE persona_id = $1`, personaID); err != nil {
		return fmt.Errorf("error al eliminar estatus de la persona: %w", err)
	}
	return nil
}

func scanEstatusRows(rows *sql.Rows) ([]domain.EstatusMensual, error) {
	var filas []domain.EstatusMensual
	for rows.Next() {
		var estatus domain.EstatusMensual
		err := rows.Scan(
			&estatus.PersonaID,
			&estatus.Anio,
			&estatus.Mes,
			&estatus.Estatus,
			&estatus.Observaciones,
		)
		if err != nil {
			return nil, fmt.Errorf("error al leer estatus: %w", err)
		}
		filas = append(filas, estatus)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error al recorrer estatus: %w", err)
	}

	return filas, nil
}
