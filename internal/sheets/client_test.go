package sheets

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Leonardo2020-col/qr-system-pay/internal/domain"
)

func padronDePrueba() []domain.Persona {
	foto := "https://bucket.s3.amazonaws.com/12345678.jpg"
	return []domain.Persona{
		{
			Nombre:      "Juan Perez",
			DNI:         "12345678",
			Email:       "juan@mail.com",
			Telefono:    "987654321",
			Empadronado: true,
			Monto:       50,
			FotoURL:     &foto,
			CreatedAt:   time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		},
	}
}

func TestSincronizarPadronLimpiaYVuelca(t *testing.T) {
	var rutas []string
	var cuerpoUpdate valoresBody

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rutas = append(rutas, r.Method+" "+r.URL.Path)
		assert.Equal(t, "Bearer token-de-prueba", r.Header.Get("Authorization"))

		if r.Method == http.MethodPut {
			datos, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			require.NoError(t, json.Unmarshal(datos, &cuerpoUpdate))
			assert.Equal(t, "USER_ENTERED", r.URL.Query().Get("valueInputOption"))
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient("hoja-123", StaticToken("token-de-prueba"), zap.NewNop())
	client.http.SetBaseURL(server.URL)

	err := client.SincronizarPadron(padronDePrueba())
	require.NoError(t, err)

	// Primero limpiar, después sobrescribir
	require.Len(t, rutas, 2)
	assert.Contains(t, rutas[0], ":clear")
	assert.Contains(t, rutas[1], "/hoja-123/values/")

	// Encabezados más una fila por persona
	require.Len(t, cuerpoUpdate.Values, 2)
	assert.Equal(t, "Nombre", cuerpoUpdate.Values[0][0])
	assert.Equal(t, "Juan Perez", cuerpoUpdate.Values[1][0])
	assert.Equal(t, "SÍ", cuerpoUpdate.Values[1][4])
}

func TestSincronizarPadronPropagaElMensajeCrudo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":"insufficient permissions"}`))
	}))
	defer server.Close()

	client := NewClient("hoja-123", StaticToken("token-de-prueba"), zap.NewNop())
	client.http.SetBaseURL(server.URL)

	err := client.SincronizarPadron(padronDePrueba())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient permissions")
}

func TestSincronizarPadronSinToken(t *testing.T) {
	client := NewClient("hoja-123", StaticToken(""), zap.NewNop())

	err := client.SincronizarPadron(padronDePrueba())
	assert.Error(t, err)
}
