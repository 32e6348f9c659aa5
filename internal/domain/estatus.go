package domain

// EstatusMensual representa el marcador de pago de una persona para un mes concreto
type EstatusMensual struct {
	PersonaID     string `json:"persona_id"`
	Anio          int    `json:"anio"`
	Mes           int    `json:"mes"`
	Estatus       bool   `json:"estatus"`
	Observaciones string `json:"observaciones"`
}

// EstatusRepository define las operaciones sobre la tabla de estatus mensuales.
// La tabla mantiene la invariante de 12 filas por (persona, año): la primera
// consulta de un año las materializa todas en false.
type EstatusRepository interface {
	// Inicializar inserta las 12 filas del año en false. Los conflictos de
	// clave duplicada se ignoran: dos inicializaciones concurrentes son
	// esperadas e inofensivas.
	Inicializar(personaID string, anio int) error
	// GetYear devuelve las 12 filas de un año, inicializándolas si no existen
	GetYear(personaID string, anio int) ([]EstatusMensual, error)
	// GetMonth devuelve la fila de un mes; si no existe la crea en false
	GetMonth(personaID string, anio, mes int) (*EstatusMensual, error)
	// SetMonth actualiza o inserta la fila de un mes (upsert)
	SetMonth(personaID string, anio, mes int, estatus bool, observaciones string) (*EstatusMensual, error)
	// Toggle invierte el estatus de un mes de forma atómica y devuelve el nuevo valor
	Toggle(personaID string, anio, mes int) (bool, error)
	// GetAllForYear devuelve los estatus de todas las personas para un año en una sola consulta
	GetAllForYear(anio int) ([]EstatusMensual, error)
	// DeleteByPersona elimina todas las filas de una persona
	DeleteByPersona(personaID string) error
}
