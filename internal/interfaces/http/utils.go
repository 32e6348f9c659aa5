package http

import (
	"encoding/base64"
	"errors"
	"strings"

	"github.com/Leonardo2020-col/qr-system-pay/internal/domain"
	"github.com/gofiber/fiber/v2"
)

// convertEmpadronadoToFrontend convierte el flag de BD a la etiqueta del frontend
func convertEmpadronadoToFrontend(empadronado bool) string {
	if empadronado {
		return "EMPADRONADO"
	}
	return "NO EMPADRONADO"
}

// responderError traduce los errores del dominio a respuestas HTTP
func responderError(c *fiber.Ctx, err error) error {
	var validacion *domain.ValidationError
	if errors.As(err, &validacion) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "datos inválidos",
			"errores": validacion.Errores,
		})
	}

	if errors.Is(err, domain.ErrPersonaNoEncontrada) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Persona no encontrada",
		})
	}

	if errors.Is(err, domain.ErrPayloadInvalido) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": domain.ErrPayloadInvalido.Error(),
		})
	}

	var captura *domain.ErrorCaptura
	if errors.As(err, &captura) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error":         captura.Error(),
			"recomendacion": captura.Recomendacion(),
		})
	}

	var sync *domain.SyncError
	if errors.As(err, &sync) {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": sync.Error(),
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": err.Error(),
	})
}

// decodificarDataURI extrae los bytes y el content type de un data URI
// (data:image/jpeg;base64,...). Si el valor no es un data URI devuelve nil.
func decodificarDataURI(valor string) ([]byte, string) {
	if !strings.HasPrefix(valor, "data:") {
		return nil, ""
	}

	coma := strings.Index(valor, ",")
	if coma < 0 {
		return nil, ""
	}

	cabecera := valor[len("data:"):coma]
	contentType := strings.TrimSuffix(strings.SplitN(cabecera, ";", 2)[0], ";")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	datos, err := base64.StdEncoding.DecodeString(valor[coma+1:])
	if err != nil {
		return nil, ""
	}
	return datos, contentType
}
