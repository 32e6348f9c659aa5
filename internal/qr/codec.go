package qr

import (
	"encoding/json"
	"fmt"
	"image/color"
	"regexp"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"github.com/Leonardo2020-col/qr-system-pay/internal/domain"
)

// Colores por defecto del código renderizado
var (
	colorOscuroDefecto = color.RGBA{R: 0x4F, G: 0x46, B: 0xE5, A: 0xFF}
	colorClaroDefecto  = color.White
)

// TamanoDefecto es el lado en píxeles de la imagen generada
const TamanoDefecto = 400

// Codec serializa snapshots de personas a imágenes QR y los reconstruye a
// partir del texto escaneado.
type Codec struct {
	tamano      int
	colorOscuro color.Color
	colorClaro  color.Color
	logger      *zap.Logger
}

// NewCodec crea un codec con los valores por defecto
func NewCodec(logger *zap.Logger) *Codec {
	return &Codec{
		tamano:      TamanoDefecto,
		colorOscuro: colorOscuroDefecto,
		colorClaro:  colorClaroDefecto,
		logger:      logger,
	}
}

// ConColores ajusta los colores del módulo oscuro y del fondo
func (c *Codec) ConColores(oscuro, claro color.Color) *Codec {
	c.colorOscuro = oscuro
	c.colorClaro = claro
	return c
}

// Encode genera la imagen PNG del QR para una persona. El nivel de corrección
// se elige según el tamaño del payload: a más datos, menos corrección. Si el
// render falla con el payload completo, se degrada quitando los campos
// opcionales antes de fallar la operación entera.
func (c *Codec) Encode(persona *domain.Persona, empadronado bool) ([]byte, error) {
	payload := NewPayload(persona, empadronado)

	png, err := c.render(payload)
	if err == nil {
		return png, nil
	}

	c.logger.Warn("payload completo no renderizable, reintentando sin opcionales",
		zap.String("dni", persona.DNI), zap.Error(err))

	png, err = c.render(payload.SinOpcionales())
	if err != nil {
		return nil, fmt.Errorf("error al generar el código QR: %w", err)
	}
	return png, nil
}

func (c *Codec) render(payload Payload) ([]byte, error) {
	texto, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("error al serializar payload: %w", err)
	}

	codigo, err := qrcode.New(string(texto), nivelCorreccion(len(texto)))
	if err != nil {
		return nil, err
	}

	codigo.ForegroundColor = c.colorOscuro
	codigo.BackgroundColor = c.colorClaro

	return codigo.PNG(c.tamano)
}

// nivelCorreccion elige el nivel de corrección de errores según el tamaño del
// payload. Nunca baja de Low: menos corrección haría fallar escaneos en
// condiciones normales.
func nivelCorreccion(bytes int) qrcode.RecoveryLevel {
	switch {
	case bytes <= 120:
		return qrcode.High
	case bytes <= 240:
		return qrcode.Medium
	default:
		return qrcode.Low
	}
}

// Decode reconstruye el payload desde el texto escaneado. Cualquier fallo de
// parseo es ErrPayloadInvalido: el bucle de escaneo nunca se interrumpe por un
// código ajeno al sistema.
func (c *Codec) Decode(texto string) (*Payload, error) {
	var payload Payload
	if err := json.Unmarshal([]byte(texto), &payload); err != nil {
		return nil, domain.ErrPayloadInvalido
	}

	// Un JSON válido sin DNI tampoco es un código del sistema
	if payload.DNI == "" {
		return nil, domain.ErrPayloadInvalido
	}

	return &payload, nil
}

var espaciosRegex = regexp.MustCompile(`\s+`)

// NombreArchivo deriva el nombre de descarga de la imagen a partir del nombre
// de la persona. Determinista: descargas repetidas sobrescriben el archivo.
func NombreArchivo(nombre string) string {
	return fmt.Sprintf("QR-%s.png", espaciosRegex.ReplaceAllString(strings.TrimSpace(nombre), "-"))
}
