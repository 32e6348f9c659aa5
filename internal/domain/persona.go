package domain

import "time"

// AsociacionNinguna es el valor por defecto cuando la persona no pertenece a ninguna asociación
const AsociacionNinguna = "Ninguna"

// Persona representa una persona registrada en el padrón
type Persona struct {
	ID          string    `json:"id"`
	Nombre      string    `json:"nombre"`
	DNI         string    `json:"dni"`
	Email       string    `json:"email"`
	Telefono    string    `json:"telefono"`
	Asociacion  string    `json:"asociacion"`
	Empadronado bool      `json:"empadronado"`
	Monto       float64   `json:"monto"`
	FotoURL     *string   `json:"foto_url,omitempty"` // Puntero para permitir NULL
	CreatedAt   time.Time `json:"created_at"`
}

// PersonaRepository define las operaciones con personas
type PersonaRepository interface {
	// List devuelve todas las personas ordenadas por fecha de registro descendente
	List() ([]Persona, error)
	// Create inserta una nueva persona y asigna su ID
	Create(persona *Persona) error
	// GetByID obtiene una persona por su ID
	GetByID(id string) (*Persona, error)
	// Update actualiza los datos de una persona existente
	Update(persona *Persona) error
	// Delete elimina una persona junto con sus estatus mensuales
	Delete(id string) error
	// FindByDNI busca una persona por su DNI; devuelve nil sin error si no existe
	FindByDNI(dni string) (*Persona, error)
}

// FotoStorage define el almacenamiento de fotos de personas
type FotoStorage interface {
	// Subir guarda la foto y devuelve su URL pública
	Subir(contenido []byte, contentType, dni string) (string, error)
	// Eliminar borra la foto referenciada por su URL
	Eliminar(fotoURL string) error
}
