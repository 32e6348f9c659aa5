package http

import (
	"strconv"
	"sync"
	"time"

	"github.com/Leonardo2020-col/qr-system-pay/internal/application"
	"github.com/gofiber/fiber/v2"
)

type EstatusHandler struct {
	service *application.EstatusService

	// Vistas de matriz por año: los toggles pasan por la vista para que la
	// copia local refleje el valor confirmado entre pintados.
	vistas map[int]*application.MatrizVista
	mu     sync.Mutex
}

// NewEstatusHandler crea una nueva instancia del handler de estatus mensual
func NewEstatusHandler(service *application.EstatusService) *EstatusHandler {
	return &EstatusHandler{
		service: service,
		vistas:  make(map[int]*application.MatrizVista),
	}
}

// vista devuelve la vista de matriz de un año, creándola en la primera consulta
func (h *EstatusHandler) vista(anio int) *application.MatrizVista {
	h.mu.Lock()
	defer h.mu.Unlock()

	v, ok := h.vistas[anio]
	if !ok {
		v = application.NewMatrizVista(h.service, anio)
		h.vistas[anio] = v
	}
	return v
}

// EstatusRequest representa el cuerpo de actualización de un mes
type EstatusRequest struct {
	Estatus       bool   `json:"estatus"`
	Observaciones string `json:"observaciones"`
}

// GetAnio devuelve los 12 meses de una persona para un año
func (h *EstatusHandler) GetAnio(c *fiber.Ctx) error {
	anio := anioDeQuery(c)

	meses, err := h.service.ObtenerAnio(c.Params("id"), anio)
	if err != nil {
		return responderError(c, err)
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"anio":  anio,
			"meses": meses,
		},
	})
}

// GetMes devuelve el registro de un mes concreto
func (h *EstatusHandler) GetMes(c *fiber.Ctx) error {
	anio, mes, err := anioMesDeParams(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Año o mes inválido",
		})
	}

	fila, err := h.service.ObtenerMes(c.Params("id"), anio, mes)
	if err != nil {
		return responderError(c, err)
	}

	return c.JSON(fiber.Map{
		"data": fila,
	})
}

// SetMes fija el estatus de un mes (upsert)
func (h *EstatusHandler) SetMes(c *fiber.Ctx) error {
	anio, mes, err := anioMesDeParams(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Año o mes inválido",
		})
	}

	var req EstatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Error al procesar los datos del estatus",
		})
	}

	fila, err := h.service.FijarMes(c.Params("id"), anio, mes, req.Estatus, req.Observaciones)
	if err != nil {
		return responderError(c, err)
	}

	return c.JSON(fiber.Map{
		"data":    fila,
		"message": "Estatus actualizado exitosamente",
	})
}

// ToggleMes invierte el estatus de un mes de forma atómica
func (h *EstatusHandler) ToggleMes(c *fiber.Ctx) error {
	anio, mes, err := anioMesDeParams(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Año o mes inválido",
		})
	}

	estatus, err := h.vista(anio).Alternar(c.Params("id"), mes)
	if err != nil {
		return responderError(c, err)
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"estatus": estatus,
		},
	})
}

// GetMatriz devuelve el estatus de todas las personas para un año en una
// sola consulta, para pintar la vista de la matriz
func (h *EstatusHandler) GetMatriz(c *fiber.Ctx) error {
	anio := anioDeQuery(c)

	matriz, err := h.service.ObtenerMatrizAnio(anio)
	if err != nil {
		return responderError(c, err)
	}
	h.vista(anio).Pintar(matriz)

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"anio":    anio,
			"estatus": matriz,
		},
	})
}

func anioDeQuery(c *fiber.Ctx) int {
	anio, err := strconv.Atoi(c.Query("anio"))
	if err != nil || anio <= 0 {
		return time.Now().Year()
	}
	return anio
}

func anioMesDeParams(c *fiber.Ctx) (int, int, error) {
	anio, err := strconv.Atoi(c.Params("anio"))
	if err != nil {
		return 0, 0, err
	}
	mes, err := strconv.Atoi(c.Params("mes"))
	if err != nil {
		return 0, 0, err
	}
	return anio, mes, nil
}
