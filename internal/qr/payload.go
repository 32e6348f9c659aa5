package qr

import (
	"time"

	"github.com/Leonardo2020-col/qr-system-pay/internal/domain"
)

// Estados derivados del flag empadronado
const (
	EstadoEmpadronado   = "EMPADRONADO"
	EstadoNoEmpadronado = "NO EMPADRONADO"
)

// Payload es el snapshot plano de una persona que viaja dentro del código QR.
// Todas las claves están siempre presentes, aunque vacías, para que el
// decodificador pueda confiar en su existencia. La foto nunca se incluye:
// embeber la imagen en base64 desborda la densidad fiable de un QR y produce
// códigos corruptos o no escaneables.
type Payload struct {
	Nombre          string  `json:"nombre"`
	DNI             string  `json:"dni"`
	Email           string  `json:"email"`
	Telefono        string  `json:"telefono"`
	Monto           float64 `json:"monto"`
	Empadronado     bool    `json:"empadronado"`
	Estado          string  `json:"estado"`
	FechaGeneracion string  `json:"fechaGeneracion"`
}

// NewPayload construye el payload a partir de una persona y su flag de
// empadronamiento al momento de generación.
func NewPayload(persona *domain.Persona, empadronado bool) Payload {
	estado := EstadoNoEmpadronado
	if empadronado {
		estado = EstadoEmpadronado
	}

	return Payload{
		Nombre:          persona.Nombre,
		DNI:             persona.DNI,
		Email:           persona.Email,
		Telefono:        persona.Telefono,
		Monto:           persona.Monto,
		Empadronado:     empadronado,
		Estado:          estado,
		FechaGeneracion: time.Now().UTC().Format(time.RFC3339),
	}
}

// SinOpcionales devuelve una copia sin los campos opcionales, para reintentar
// la generación cuando el payload completo no cabe en el código.
func (p Payload) SinOpcionales() Payload {
	reducido := p
	reducido.Email = ""
	reducido.Monto = 0
	return reducido
}
