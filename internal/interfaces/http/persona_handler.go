package http

import (
	"io"
	"strconv"

	"github.com/Leonardo2020-col/qr-system-pay/internal/application"
	"github.com/Leonardo2020-col/qr-system-pay/internal/domain"
	"github.com/gofiber/fiber/v2"
)

type PersonaHandler struct {
	service *application.PersonaService
}

// NewPersonaHandler crea una nueva instancia del handler de personas
func NewPersonaHandler(service *application.PersonaService) *PersonaHandler {
	return &PersonaHandler{
		service: service,
	}
}

// PersonaRequest representa el cuerpo JSON de creación/edición. La foto llega
// como data URI base64 o como archivo multipart, nunca como URL directa.
type PersonaRequest struct {
	Nombre      string  `json:"nombre"`
	DNI         string  `json:"dni"`
	Email       string  `json:"email"`
	Telefono    string  `json:"telefono"`
	Asociacion  string  `json:"asociacion"`
	Empadronado bool    `json:"empadronado"`
	Monto       float64 `json:"monto"`
	Foto        string  `json:"foto,omitempty"`
}

// GetPersonas obtiene todas las personas del padrón
func (h *PersonaHandler) GetPersonas(c *fiber.Ctx) error {
	personas, err := h.service.Listar()
	if err != nil {
		return responderError(c, err)
	}

	return c.JSON(fiber.Map{
		"data": personas,
	})
}

// GetPersonaByID obtiene una persona por su identificador
func (h *PersonaHandler) GetPersonaByID(c *fiber.Ctx) error {
	persona, err := h.service.ObtenerPorID(c.Params("id"))
	if err != nil {
		return responderError(c, err)
	}

	return c.JSON(fiber.Map{
		"data": persona,
	})
}

// BuscarPorDNI busca una persona por su DNI
func (h *PersonaHandler) BuscarPorDNI(c *fiber.Ctx) error {
	dni := c.Query("dni")
	if dni == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "El parámetro dni es requerido",
		})
	}

	persona, err := h.service.BuscarPorDNI(dni)
	if err != nil {
		return responderError(c, err)
	}

	return c.JSON(fiber.Map{
		"data": persona,
	})
}

// CreatePersona registra una nueva persona en el padrón
func (h *PersonaHandler) CreatePersona(c *fiber.Ctx) error {
	persona, foto, fotoContentType, err := h.parsearPersona(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Error al procesar los datos de la persona",
		})
	}

	creada, err := h.service.Crear(persona, foto, fotoContentType)
	if err != nil {
		return responderError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data":    creada,
		"message": "Persona registrada exitosamente",
	})
}

// UpdatePersona actualiza los datos de una persona existente
func (h *PersonaHandler) UpdatePersona(c *fiber.Ctx) error {
	persona, foto, fotoContentType, err := h.parsearPersona(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Error al procesar los datos de la persona",
		})
	}

	actualizada, err := h.service.Actualizar(c.Params("id"), persona, foto, fotoContentType)
	if err != nil {
		return responderError(c, err)
	}

	return c.JSON(fiber.Map{
		"data":    actualizada,
		"message": "Persona actualizada exitosamente",
	})
}

// DeletePersona elimina una persona y sus registros de estatus
func (h *PersonaHandler) DeletePersona(c *fiber.Ctx) error {
	if err := h.service.Eliminar(c.Params("id")); err != nil {
		return responderError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Persona eliminada exitosamente",
	})
}

// parsearPersona acepta el cuerpo como multipart (campos + archivo "foto") o
// como JSON con la foto en data URI
func (h *PersonaHandler) parsearPersona(c *fiber.Ctx) (*domain.Persona, []byte, string, error) {
	if form, err := c.MultipartForm(); err == nil && form != nil {
		persona := &domain.Persona{
			Nombre:     c.FormValue("nombre"),
			DNI:        c.FormValue("dni"),
			Email:      c.FormValue("email"),
			Telefono:   c.FormValue("telefono"),
			Asociacion: c.FormValue("asociacion"),
		}
		persona.Empadronado, _ = strconv.ParseBool(c.FormValue("empadronado"))
		persona.Monto, _ = strconv.ParseFloat(c.FormValue("monto"), 64)

		fileHeader, err := c.FormFile("foto")
		if err != nil {
			return persona, nil, "", nil
		}

		file, err := fileHeader.Open()
		if err != nil {
			return nil, nil, "", err
		}
		defer file.Close()

		foto, err := io.ReadAll(file)
		if err != nil {
			return nil, nil, "", err
		}

		contentType := fileHeader.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "image/jpeg"
		}
		return persona, foto, contentType, nil
	}

	var req PersonaRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, nil, "", err
	}

	persona := &domain.Persona{
		Nombre:      req.Nombre,
		DNI:         req.DNI,
		Email:       req.Email,
		Telefono:    req.Telefono,
		Asociacion:  req.Asociacion,
		Empadronado: req.Empadronado,
		Monto:       req.Monto,
	}

	foto, contentType := decodificarDataURI(req.Foto)
	return persona, foto, contentType, nil
}
