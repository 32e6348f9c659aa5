package sheets

import (
	"fmt"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/Leonardo2020-col/qr-system-pay/internal/domain"
)

const (
	apiBase = "https://sheets.googleapis.com/v4/spreadsheets"
	// NombreHoja es la pestaña del padrón en la hoja de cálculo
	NombreHoja = "Personas"
	rangoDatos = NombreHoja + "!A1:H"
)

// Encabezados de las columnas A..H del espejo
var Encabezados = []string{
	"Nombre", "DNI", "Email", "Teléfono", "Empadronado", "Monto", "Foto URL", "Fecha Registro",
}

// TokenProvider entrega el token de acceso a la API de Sheets. La autorización
// interactiva ocurre fuera de banda; el servicio nunca guarda credenciales.
type TokenProvider interface {
	Token() (string, error)
}

// StaticToken es un TokenProvider de token fijo, suministrado por configuración
type StaticToken string

func (t StaticToken) Token() (string, error) {
	if t == "" {
		return "", fmt.Errorf("no hay token de Google Sheets configurado")
	}
	return string(t), nil
}

// Client espeja el padrón en una hoja de Google Sheets. La semántica es de
// sobrescritura: limpiar y volcar todo; el último sync gana frente a
// escritores concurrentes.
type Client struct {
	http          *resty.Client
	spreadsheetID string
	token         TokenProvider
	logger        *zap.Logger
}

// NewClient crea el cliente del espejo de hoja de cálculo
func NewClient(spreadsheetID string, token TokenProvider, logger *zap.Logger) *Client {
	return &Client{
		http:          resty.New().SetBaseURL(apiBase),
		spreadsheetID: spreadsheetID,
		token:         token,
		logger:        logger,
	}
}

type valoresBody struct {
	Range          string  `json:"range"`
	MajorDimension string  `json:"majorDimension"`
	Values         [][]any `json:"values"`
}

// SincronizarPadron limpia el rango y vuelca el padrón completo con encabezados
func (c *Client) SincronizarPadron(personas []domain.Persona) error {
	token, err := c.token.Token()
	if err != nil {
		return err
	}

	resp, err := c.http.R().
		SetAuthToken(token).
		Post(fmt.Sprintf("/%s/values/%s:clear", c.spreadsheetID, rangoDatos))
	if err != nil {
		return fmt.Errorf("error al limpiar la hoja: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("error al limpiar la hoja: %s", resp.String())
	}

	valores := make([][]any, 0, len(personas)+1)
	fila := make([]any, len(Encabezados))
	for i, encabezado := range Encabezados {
		fila[i] = encabezado
	}
	valores = append(valores, fila)

	for _, persona := range personas {
		valores = append(valores, filaPersona(persona))
	}

	resp, err = c.http.R().
		SetAuthToken(token).
		SetQueryParam("valueInputOption", "USER_ENTERED").
		SetBody(valoresBody{
			Range:          rangoDatos,
			MajorDimension: "ROWS",
			Values:         valores,
		}).
		Put(fmt.Sprintf("/%s/values/%s", c.spreadsheetID, rangoDatos))
	if err != nil {
		return fmt.Errorf("error al escribir la hoja: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("error al escribir la hoja: %s", resp.String())
	}

	c.logger.Info("padrón sincronizado con la hoja de cálculo",
		zap.Int("personas", len(personas)))
	return nil
}

func filaPersona(persona domain.Persona) []any {
	empadronado := "NO"
	if persona.Empadronado {
		empadronado = "SÍ"
	}

	fotoURL := ""
	if persona.FotoURL != nil {
		fotoURL = *persona.FotoURL
	}

	return []any{
		persona.Nombre,
		persona.DNI,
		persona.Email,
		persona.Telefono,
		empadronado,
		persona.Monto,
		fotoURL,
		persona.CreatedAt.Format("2006-01-02"),
	}
}
