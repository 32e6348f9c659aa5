package http

import (
	"fmt"

	"github.com/Leonardo2020-col/qr-system-pay/internal/application"
	"github.com/Leonardo2020-col/qr-system-pay/internal/email"
	"github.com/Leonardo2020-col/qr-system-pay/internal/qr"
	"github.com/gofiber/fiber/v2"
)

type QRHandler struct {
	personas *application.PersonaService
	codec    *qr.Codec
	correo   *email.Client
}

// NewQRHandler crea una nueva instancia del handler de códigos QR.
// correo puede ser nil si el despliegue no configura SMTP.
func NewQRHandler(personas *application.PersonaService, codec *qr.Codec, correo *email.Client) *QRHandler {
	return &QRHandler{
		personas: personas,
		codec:    codec,
		correo:   correo,
	}
}

// GenerarQR genera el código QR de una persona y lo devuelve como PNG
// descargable
func (h *QRHandler) GenerarQR(c *fiber.Ctx) error {
	persona, err := h.personas.ObtenerPorID(c.Params("id"))
	if err != nil {
		return responderError(c, err)
	}

	png, err := h.codec.Encode(persona, persona.Empadronado)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("Error al generar el código QR: %v", err),
		})
	}

	c.Set(fiber.HeaderContentType, "image/png")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", qr.NombreArchivo(persona.Nombre)))
	return c.Send(png)
}

// EnviarQRPorEmail genera el código QR de una persona y lo envía adjunto a su
// correo registrado
func (h *QRHandler) EnviarQRPorEmail(c *fiber.Ctx) error {
	if h.correo == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "El envío de correos no está configurado",
		})
	}

	persona, err := h.personas.ObtenerPorID(c.Params("id"))
	if err != nil {
		return responderError(c, err)
	}

	if persona.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "La persona no tiene un correo registrado",
		})
	}

	png, err := h.codec.Encode(persona, persona.Empadronado)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("Error al generar el código QR: %v", err),
		})
	}

	if err := h.correo.SendQR(persona.Email, persona.Nombre, qr.NombreArchivo(persona.Nombre), png); err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": fmt.Sprintf("Error al enviar el correo: %v", err),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Código QR enviado exitosamente",
	})
}
