package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Errores sentinela del dominio
var (
	// ErrPersonaNoEncontrada indica que la persona buscada no existe
	ErrPersonaNoEncontrada = errors.New("persona no encontrada")
	// ErrPayloadInvalido indica que el texto escaneado no es un código QR del sistema
	ErrPayloadInvalido = errors.New("código QR inválido, intenta de nuevo")
)

// ValidationError agrupa errores de validación por campo. Se detecta antes de
// cualquier llamada al almacén: nunca llega a la red.
type ValidationError struct {
	Errores map[string]string
}

func (e *ValidationError) Error() string {
	campos := make([]string, 0, len(e.Errores))
	for campo := range e.Errores {
		campos = append(campos, campo)
	}
	sort.Strings(campos)

	var sb strings.Builder
	sb.WriteString("datos inválidos: ")
	for i, campo := range campos {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(fmt.Sprintf("%s: %s", campo, e.Errores[campo]))
	}
	return sb.String()
}

// StoreError envuelve un fallo del almacén de personas o del libro de estatus
type StoreError struct {
	Operacion string
	Causa     error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("error de almacén en %s: %v", e.Operacion, e.Causa)
}

func (e *StoreError) Unwrap() error { return e.Causa }

// SyncError envuelve un fallo de sincronización con la hoja de cálculo.
// La sincronización es un espejo de mejor esfuerzo: nunca revierte el estado local.
type SyncError struct {
	Causa error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("error al sincronizar: %v", e.Causa)
}

func (e *SyncError) Unwrap() error { return e.Causa }

// TipoErrorCaptura clasifica los fallos de acceso a la cámara
type TipoErrorCaptura int

const (
	CapturaPermisoDenegado TipoErrorCaptura = iota
	CapturaSinDispositivo
	CapturaDispositivoOcupado
)

// ErrorCaptura representa un fallo al adquirir el recurso de captura. Todos los
// subtipos son recuperables: el pipeline vuelve a Idle y se puede reintentar.
type ErrorCaptura struct {
	Tipo  TipoErrorCaptura
	Causa error
}

func (e *ErrorCaptura) Error() string {
	switch e.Tipo {
	case CapturaPermisoDenegado:
		return "permiso de cámara denegado"
	case CapturaSinDispositivo:
		return "no se encontró ninguna cámara"
	case CapturaDispositivoOcupado:
		return "la cámara está en uso por otra aplicación"
	default:
		return fmt.Sprintf("error de captura: %v", e.Causa)
	}
}

func (e *ErrorCaptura) Unwrap() error { return e.Causa }

// Recomendacion devuelve el texto de remediación para mostrar al usuario
func (e *ErrorCaptura) Recomendacion() string {
	switch e.Tipo {
	case CapturaPermisoDenegado:
		return "Habilita el permiso de cámara en la configuración del navegador y reintenta. También puedes subir una imagen del código."
	case CapturaSinDispositivo:
		return "Conecta una cámara o usa la opción de subir una imagen del código."
	case CapturaDispositivoOcupado:
		return "Cierra la aplicación que está usando la cámara y reintenta."
	default:
		return "Reintenta el escaneo o sube una imagen del código."
	}
}
