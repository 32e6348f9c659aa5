package http

import (
	"fmt"
	"time"

	"github.com/Leonardo2020-col/qr-system-pay/internal/application"
	"github.com/Leonardo2020-col/qr-system-pay/internal/sheets"
	"github.com/gofiber/fiber/v2"
)

type SyncHandler struct {
	personas *application.PersonaService
}

// NewSyncHandler crea una nueva instancia del handler de sincronización
func NewSyncHandler(personas *application.PersonaService) *SyncHandler {
	return &SyncHandler{
		personas: personas,
	}
}

// Sincronizar espeja el padrón completo en la hoja de cálculo configurada
func (h *SyncHandler) Sincronizar(c *fiber.Ctx) error {
	if err := h.personas.Sincronizar(); err != nil {
		return responderError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Padrón sincronizado exitosamente",
	})
}

// ExportarExcel genera un libro xlsx con el padrón completo y lo devuelve
// como descarga
func (h *SyncHandler) ExportarExcel(c *fiber.Ctx) error {
	personas, err := h.personas.Listar()
	if err != nil {
		return responderError(c, err)
	}

	libro, err := sheets.GenerarPadronExcel(personas)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("Error al generar el archivo: %v", err),
		})
	}

	nombre := fmt.Sprintf("padron-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", nombre))
	return c.Send(libro)
}
