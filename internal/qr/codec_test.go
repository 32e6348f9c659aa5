package qr

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	_ "image/png"
	"strings"
	"testing"

	"github.com/makiuchi-d/gozxing"
	gzqrcode "github.com/makiuchi-d/gozxing/qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Leonardo2020-col/qr-system-pay/internal/domain"
)

func personaDePrueba() *domain.Persona {
	return &domain.Persona{
		ID:          "id-1",
		Nombre:      "Juan Perez",
		DNI:         "12345678",
		Email:       "juan@mail.com",
		Telefono:    "987654321",
		Monto:       50,
		Empadronado: true,
	}
}

// escanear decodifica la imagen PNG con una instancia de lector independiente,
// igual que haría un escáner real.
func escanear(t *testing.T, png []byte) string {
	t.Helper()

	img, _, err := image.Decode(bytes.NewReader(png))
	require.NoError(t, err)

	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	require.NoError(t, err)

	resultado, err := gzqrcode.NewQRCodeReader().Decode(bmp, nil)
	require.NoError(t, err)

	return resultado.GetText()
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	codec := NewCodec(zap.NewNop()).ConColores(color.Black, color.White)

	png, err := codec.Encode(personaDePrueba(), true)
	require.NoError(t, err)

	texto := escanear(t, png)
	payload, err := codec.Decode(texto)
	require.NoError(t, err)

	assert.Equal(t, "Juan Perez", payload.Nombre)
	assert.Equal(t, "12345678", payload.DNI)
	assert.Equal(t, EstadoEmpadronado, payload.Estado)
	assert.True(t, payload.Empadronado)
	assert.NotEmpty(t, payload.FechaGeneracion)
}

func TestEncodeNuncaIncluyeFoto(t *testing.T) {
	codec := NewCodec(zap.NewNop()).ConColores(color.Black, color.White)

	foto := "https://bucket.s3.amazonaws.com/12345678.jpg"
	persona := personaDePrueba()
	persona.FotoURL = &foto

	png, err := codec.Encode(persona, true)
	require.NoError(t, err)

	texto := escanear(t, png)
	assert.NotContains(t, texto, "foto")
	assert.NotContains(t, texto, "s3.amazonaws.com")
}

func TestEncodeTodasLasClavesPresentes(t *testing.T) {
	codec := NewCodec(zap.NewNop()).ConColores(color.Black, color.White)

	// Persona sin email ni monto: las claves deben viajar igualmente
	persona := personaDePrueba()
	persona.Email = ""
	persona.Monto = 0

	png, err := codec.Encode(persona, false)
	require.NoError(t, err)

	var claves map[string]any
	require.NoError(t, json.Unmarshal([]byte(escanear(t, png)), &claves))

	for _, clave := range []string{"nombre", "dni", "email", "telefono", "monto", "empadronado", "estado", "fechaGeneracion"} {
		assert.Contains(t, claves, clave)
	}
	assert.Equal(t, EstadoNoEmpadronado, claves["estado"])
}

func TestEncodeDegradaQuitandoOpcionales(t *testing.T) {
	codec := NewCodec(zap.NewNop()).ConColores(color.Black, color.White)

	// Un email desmesurado desborda la capacidad del QR; el codec debe
	// reintentar sin los campos opcionales en lugar de fallar.
	persona := personaDePrueba()
	persona.Email = strings.Repeat("x", 4000) + "@mail.com"

	png, err := codec.Encode(persona, true)
	require.NoError(t, err)

	payload, err := codec.Decode(escanear(t, png))
	require.NoError(t, err)
	assert.Equal(t, "", payload.Email)
	assert.Equal(t, "12345678", payload.DNI)
}

func TestDecodePayloadInvalido(t *testing.T) {
	codec := NewCodec(zap.NewNop())

	casos := []struct {
		nombre string
		texto  string
	}{
		{"texto plano", "hola mundo"},
		{"json sin dni", `{"nombre":"Juan"}`},
		{"vacio", ""},
		{"json roto", `{"dni":`},
	}

	for _, caso := range casos {
		t.Run(caso.nombre, func(t *testing.T) {
			_, err := codec.Decode(caso.texto)
			assert.ErrorIs(t, err, domain.ErrPayloadInvalido)
		})
	}
}

func TestNombreArchivoDeterminista(t *testing.T) {
	assert.Equal(t, "QR-Juan-Perez.png", NombreArchivo("Juan Perez"))
	assert.Equal(t, "QR-Maria-del-Carmen.png", NombreArchivo("  Maria  del Carmen "))
	assert.Equal(t, NombreArchivo("Juan Perez"), NombreArchivo("Juan Perez"))
}

func TestNivelCorreccionPorTamano(t *testing.T) {
	// A más datos, menos corrección; nunca por debajo de Low
	assert.Equal(t, nivelCorreccion(100), nivelCorreccion(50))
	assert.NotEqual(t, nivelCorreccion(100), nivelCorreccion(200))
	assert.NotEqual(t, nivelCorreccion(200), nivelCorreccion(500))
}
