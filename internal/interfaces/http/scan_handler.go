package http

import (
	"io"

	"github.com/Leonardo2020-col/qr-system-pay/internal/application"
	"github.com/Leonardo2020-col/qr-system-pay/internal/scan"
	"github.com/gofiber/fiber/v2"
)

type ScanHandler struct {
	pipeline *scan.Pipeline
	limiter  *application.ScanLimiter
}

// NewScanHandler crea una nueva instancia del handler de escaneo
func NewScanHandler(pipeline *scan.Pipeline, limiter *application.ScanLimiter) *ScanHandler {
	return &ScanHandler{
		pipeline: pipeline,
		limiter:  limiter,
	}
}

// ScanRequest representa el cuerpo de un escaneo por texto ya decodificado
type ScanRequest struct {
	Texto string `json:"texto"`
}

// Escanear decodifica un código QR y resuelve la persona asociada. El código
// llega como imagen multipart ("imagen") o como texto ya decodificado en JSON.
func (h *ScanHandler) Escanear(c *fiber.Ctx) error {
	if err := h.limiter.Permitir(c.IP()); err != nil {
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	fileHeader, err := c.FormFile("imagen")
	if err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Error al abrir la imagen",
			})
		}
		defer file.Close()

		datos, err := io.ReadAll(file)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Error al leer la imagen",
			})
		}

		fuente, err := scan.NewImagenSource(datos)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "El archivo no es una imagen válida",
			})
		}

		resultado, err := h.pipeline.Escanear(c.Context(), fuente)
		if err != nil {
			return h.responderErrorEscaneo(c, err)
		}
		return c.JSON(fiber.Map{
			"data":   resultado,
			"estado": convertEmpadronadoToFrontend(resultado.Payload.Empadronado),
		})
	}

	var req ScanRequest
	if err := c.BodyParser(&req); err != nil || req.Texto == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Se requiere una imagen o el texto del código",
		})
	}

	resultado, err := h.pipeline.ProcesarTexto(req.Texto)
	if err != nil {
		return h.responderErrorEscaneo(c, err)
	}

	return c.JSON(fiber.Map{
		"data":   resultado,
		"estado": convertEmpadronadoToFrontend(resultado.Payload.Empadronado),
	})
}

// Reiniciar vuelve el escáner a reposo y descarta la sesión en curso
func (h *ScanHandler) Reiniciar(c *fiber.Ctx) error {
	h.pipeline.Reiniciar()

	return c.JSON(fiber.Map{
		"message": "Escáner reiniciado",
	})
}

func (h *ScanHandler) responderErrorEscaneo(c *fiber.Ctx, err error) error {
	switch err {
	case scan.ErrSinCodigo:
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": err.Error(),
		})
	case scan.ErrSesionObsoleta:
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return responderError(c, err)
}
