package application

import (
	"regexp"
	"strings"

	"github.com/Leonardo2020-col/qr-system-pay/internal/domain"
)

var (
	dniRegex      = regexp.MustCompile(`^\d{8}$`)
	telefonoRegex = regexp.MustCompile(`^\d{9}$`)
	emailRegex    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// Validator contiene funciones de validación de datos
type Validator struct{}

// ValidarNombre valida que el nombre tenga al menos 3 caracteres
func (v *Validator) ValidarNombre(nombre string) string {
	if len(strings.TrimSpace(nombre)) < 3 {
		return "el nombre debe tener al menos 3 caracteres"
	}
	return ""
}

// ValidarDNI valida el DNI peruano: exactamente 8 dígitos
func (v *Validator) ValidarDNI(dni string) string {
	if !dniRegex.MatchString(dni) {
		return "el DNI debe tener 8 dígitos"
	}
	return ""
}

// ValidarTelefono valida el teléfono peruano: exactamente 9 dígitos
func (v *Validator) ValidarTelefono(telefono string) string {
	if !telefonoRegex.MatchString(telefono) {
		return "el teléfono debe tener 9 dígitos"
	}
	return ""
}

// ValidarEmail valida el formato del email. Vacío es válido: el campo es opcional.
func (v *Validator) ValidarEmail(email string) string {
	if strings.TrimSpace(email) == "" {
		return ""
	}
	if !emailRegex.MatchString(email) {
		return "email inválido"
	}
	return ""
}

// ValidarMonto valida que el monto no sea negativo
func (v *Validator) ValidarMonto(monto float64) string {
	if monto < 0 {
		return "el monto no puede ser negativo"
	}
	return ""
}

// ValidarMes comprueba que el mes esté en el rango 1-12
func (v *Validator) ValidarMes(mes int) string {
	if mes < 1 || mes > 12 {
		return "el mes debe estar entre 1 y 12"
	}
	return ""
}

// ValidarPersona valida todos los campos de una persona. Se ejecuta antes de
// cualquier llamada al almacén: un error de validación nunca llega a la red.
func (v *Validator) ValidarPersona(persona *domain.Persona) error {
	errores := make(map[string]string)

	if msg := v.ValidarNombre(persona.Nombre); msg != "" {
		errores["nombre"] = msg
	}
	if msg := v.ValidarDNI(persona.DNI); msg != "" {
		errores["dni"] = msg
	}
	if msg := v.ValidarTelefono(persona.Telefono); msg != "" {
		errores["telefono"] = msg
	}
	if msg := v.ValidarEmail(persona.Email); msg != "" {
		errores["email"] = msg
	}
	if msg := v.ValidarMonto(persona.Monto); msg != "" {
		errores["monto"] = msg
	}

	if len(errores) > 0 {
		return &domain.ValidationError{Errores: errores}
	}
	return nil
}
