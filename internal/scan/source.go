package scan

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"sync"

	"github.com/makiuchi-d/gozxing"
	gzqrcode "github.com/makiuchi-d/gozxing/qrcode"
)

// Source entrega fotogramas para el decodificado continuo. El pipeline es el
// dueño exclusivo de la fuente mientras está en estado Escaneando y garantiza
// Close en todas las salidas: éxito, error, cancelación o desmontaje.
type Source interface {
	// NextFrame bloquea hasta obtener el siguiente fotograma. Devuelve
	// io.EOF cuando la fuente se agota.
	NextFrame(ctx context.Context) (image.Image, error)
	Close() error
}

// ImagenSource es una fuente de un solo fotograma, usada por la ruta de subir
// una imagen en lugar de la cámara en vivo.
type ImagenSource struct {
	img     image.Image
	servido bool
	mu      sync.Mutex
}

// NewImagenSource decodifica los bytes de una imagen subida (PNG o JPEG)
func NewImagenSource(datos []byte) (*ImagenSource, error) {
	img, _, err := image.Decode(bytes.NewReader(datos))
	if err != nil {
		return nil, fmt.Errorf("imagen no reconocida: %w", err)
	}
	return &ImagenSource{img: img}, nil
}

// NextFrame devuelve la imagen una sola vez y después io.EOF
func (s *ImagenSource) NextFrame(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.servido {
		return nil, io.EOF
	}
	s.servido = true
	return s.img, nil
}

func (s *ImagenSource) Close() error { return nil }

// decodificarFotograma intenta extraer el texto de un QR de un fotograma.
// Cada llamada usa una instancia de lector nueva que se desecha tras el uso,
// para que el decodificado de imagen suelta no contamine la sesión en vivo.
func decodificarFotograma(img image.Image) (string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", err
	}

	resultado, err := gzqrcode.NewQRCodeReader().Decode(bmp, nil)
	if err != nil {
		return "", err
	}

	return resultado.GetText(), nil
}
