package scan

import (
	"bytes"
	"context"
	"image"
	"image/color"
	_ "image/png"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Leonardo2020-col/qr-system-pay/internal/domain"
	"github.com/Leonardo2020-col/qr-system-pay/internal/qr"
)

const payloadJuan = `{"nombre":"Juan Perez","dni":"12345678","email":"","telefono":"987654321","monto":50,"empadronado":true,"estado":"EMPADRONADO","fechaGeneracion":"2025-01-15T10:00:00Z"}`

type buscadorFalso struct {
	mu       sync.Mutex
	llamadas int
	persona  *domain.Persona
	err      error
}

func (b *buscadorFalso) BuscarPorDNI(dni string) (*domain.Persona, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.llamadas++
	if b.err != nil {
		return nil, b.err
	}
	return b.persona, nil
}

func (b *buscadorFalso) totalLlamadas() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.llamadas
}

type fuenteFalsa struct {
	frames  []image.Image
	err     error
	mu      sync.Mutex
	cierres int
}

func (f *fuenteFalsa) NextFrame(ctx context.Context) (image.Image, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.frames) == 0 {
		return nil, io.EOF
	}
	frame := f.frames[0]
	f.frames = f.frames[1:]
	return frame, nil
}

func (f *fuenteFalsa) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cierres++
	return nil
}

func (f *fuenteFalsa) cerrada() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cierres > 0
}

func nuevoPipeline(buscador BuscadorPersonas) *Pipeline {
	return NewPipeline(qr.NewCodec(zap.NewNop()), buscador, zap.NewNop())
}

func fotoFalsa() *string {
	url := "https://bucket.s3.amazonaws.com/12345678.jpg"
	return &url
}

// imagenQR genera un fotograma con un código QR real
func imagenQR(t *testing.T) image.Image {
	t.Helper()

	codec := qr.NewCodec(zap.NewNop()).ConColores(color.Black, color.White)
	png, err := codec.Encode(&domain.Persona{
		Nombre: "Juan Perez", DNI: "12345678", Telefono: "987654321", Monto: 50,
	}, true)
	require.NoError(t, err)

	img, _, err := image.Decode(bytes.NewReader(png))
	require.NoError(t, err)
	return img
}

// fotogramaRuido es un fotograma sin código, como los que produce la cámara
// mientras el usuario apunta.
func fotogramaRuido() image.Image {
	return image.NewRGBA(image.Rect(0, 0, 64, 64))
}

func TestSupresionDeEscaneoDuplicado(t *testing.T) {
	buscador := &buscadorFalso{persona: &domain.Persona{
		ID: "id-1", Nombre: "Juan Perez", DNI: "12345678", FotoURL: fotoFalsa(),
	}}
	pipeline := nuevoPipeline(buscador)

	primero, err := pipeline.ProcesarTexto(payloadJuan)
	require.NoError(t, err)
	segundo, err := pipeline.ProcesarTexto(payloadJuan)
	require.NoError(t, err)

	// El mismo DNI dentro de la misma sesión: exactamente una búsqueda
	assert.Equal(t, 1, buscador.totalLlamadas())
	assert.Equal(t, primero, segundo)
}

func TestReiniciarAbreNuevaSesion(t *testing.T) {
	buscador := &buscadorFalso{persona: &domain.Persona{ID: "id-1", DNI: "12345678"}}
	pipeline := nuevoPipeline(buscador)

	_, err := pipeline.ProcesarTexto(payloadJuan)
	require.NoError(t, err)

	pipeline.Reiniciar()
	assert.Equal(t, Idle, pipeline.EstadoActual())

	_, err = pipeline.ProcesarTexto(payloadJuan)
	require.NoError(t, err)

	assert.Equal(t, 2, buscador.totalLlamadas())
}

func TestPayloadInvalidoEsRecuperable(t *testing.T) {
	buscador := &buscadorFalso{persona: &domain.Persona{ID: "id-1", DNI: "12345678"}}
	pipeline := nuevoPipeline(buscador)

	_, err := pipeline.ProcesarTexto("esto no es un QR del sistema")
	assert.ErrorIs(t, err, domain.ErrPayloadInvalido)
	assert.Equal(t, Fallido, pipeline.EstadoActual())

	// El escaneo se puede retomar de inmediato
	pipeline.Reiniciar()
	resultado, err := pipeline.ProcesarTexto(payloadJuan)
	require.NoError(t, err)
	assert.Equal(t, "12345678", resultado.Payload.DNI)
}

func TestBusquedaFallidaDegradaAIniciales(t *testing.T) {
	buscador := &buscadorFalso{err: domain.ErrPersonaNoEncontrada}
	pipeline := nuevoPipeline(buscador)

	resultado, err := pipeline.ProcesarTexto(payloadJuan)
	require.NoError(t, err)

	// El resto de la información decodificada se muestra igualmente
	assert.Equal(t, "Juan Perez", resultado.Payload.Nombre)
	assert.Nil(t, resultado.Persona)
	assert.Empty(t, resultado.FotoURL)
	assert.Equal(t, "JP", resultado.Iniciales)
}

func TestEscanearIgnoraFotogramasSinCodigo(t *testing.T) {
	buscador := &buscadorFalso{persona: &domain.Persona{
		ID: "id-1", Nombre: "Juan Perez", DNI: "12345678", FotoURL: fotoFalsa(),
	}}
	pipeline := nuevoPipeline(buscador)

	fuente := &fuenteFalsa{frames: []image.Image{fotogramaRuido(), fotogramaRuido(), imagenQR(t)}}

	resultado, err := pipeline.Escanear(context.Background(), fuente)
	require.NoError(t, err)

	assert.Equal(t, "12345678", resultado.Payload.DNI)
	assert.Equal(t, "https://bucket.s3.amazonaws.com/12345678.jpg", resultado.FotoURL)
	assert.True(t, fuente.cerrada())
	assert.Equal(t, Decodificado, pipeline.EstadoActual())
}

func TestEscanearFuenteAgotada(t *testing.T) {
	pipeline := nuevoPipeline(&buscadorFalso{})

	fuente := &fuenteFalsa{frames: []image.Image{fotogramaRuido()}}
	_, err := pipeline.Escanear(context.Background(), fuente)

	assert.ErrorIs(t, err, ErrSinCodigo)
	assert.True(t, fuente.cerrada())
	assert.Equal(t, Fallido, pipeline.EstadoActual())
}

func TestEscanearErrorDeCaptura(t *testing.T) {
	pipeline := nuevoPipeline(&buscadorFalso{})

	fuente := &fuenteFalsa{err: &domain.ErrorCaptura{Tipo: domain.CapturaPermisoDenegado}}
	_, err := pipeline.Escanear(context.Background(), fuente)

	var captura *domain.ErrorCaptura
	require.ErrorAs(t, err, &captura)
	assert.Equal(t, domain.CapturaPermisoDenegado, captura.Tipo)
	assert.True(t, fuente.cerrada())
}

func TestImagenSourceUnSoloFotograma(t *testing.T) {
	codec := qr.NewCodec(zap.NewNop()).ConColores(color.Black, color.White)
	png, err := codec.Encode(&domain.Persona{Nombre: "Juan", DNI: "12345678", Telefono: "987654321"}, false)
	require.NoError(t, err)

	fuente, err := NewImagenSource(png)
	require.NoError(t, err)

	_, err = fuente.NextFrame(context.Background())
	require.NoError(t, err)

	_, err = fuente.NextFrame(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestImagenSourceBytesInvalidos(t *testing.T) {
	_, err := NewImagenSource([]byte("no soy una imagen"))
	assert.Error(t, err)
}
