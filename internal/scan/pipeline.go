package scan

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/Leonardo2020-col/qr-system-pay/internal/domain"
	"github.com/Leonardo2020-col/qr-system-pay/internal/qr"
)

// Estado del pipeline de escaneo
type Estado int

const (
	Idle Estado = iota
	Escaneando
	Decodificado
	Fallido
)

// ErrSesionObsoleta indica que una búsqueda resolvió después de reiniciar la
// sesión; su resultado se descarta para no pisar el escaneo más reciente.
var ErrSesionObsoleta = errors.New("la sesión de escaneo fue reiniciada")

// ErrSinCodigo indica que la fuente se agotó sin encontrar ningún código
var ErrSinCodigo = errors.New("no se encontró ningún código QR en la imagen")

// BuscadorPersonas resuelve la identidad decodificada contra el almacén de
// personas para obtener la foto en vivo.
type BuscadorPersonas interface {
	BuscarPorDNI(dni string) (*domain.Persona, error)
}

// Resultado es el modelo de presentación de un escaneo exitoso. El payload es
// autocontenido; la foto se busca en vivo por DNI y su ausencia degrada a un
// placeholder de iniciales sin bloquear el resto de la información.
type Resultado struct {
	Payload   *qr.Payload     `json:"payload"`
	Persona   *domain.Persona `json:"persona,omitempty"`
	FotoURL   string          `json:"foto_url"`
	Iniciales string          `json:"iniciales"`
}

// Pipeline conduce una fuente de fotogramas por el codec, resuelve la
// identidad decodificada y mantiene la máquina de estados
// Idle → Escaneando → (Decodificado | Fallido) → Idle.
type Pipeline struct {
	codec    *qr.Codec
	personas BuscadorPersonas
	logger   *zap.Logger

	mu        sync.Mutex
	estado    Estado
	sesion    uint64
	ultimoDNI string
	ultimo    *Resultado
}

// NewPipeline crea un pipeline de escaneo en estado Idle
func NewPipeline(codec *qr.Codec, personas BuscadorPersonas, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		codec:    codec,
		personas: personas,
		logger:   logger,
	}
}

// EstadoActual devuelve el estado de la máquina
func (p *Pipeline) EstadoActual() Estado {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.estado
}

// Escanear consume la fuente hasta decodificar un código o agotarla. La fuente
// se cierra en todas las salidas; los fotogramas sin código son ruido esperado
// y no se propagan. Al primer decodificado exitoso la fuente se detiene antes
// de cualquier búsqueda, para que no dispare un segundo decodificado mientras
// el primero se procesa.
func (p *Pipeline) Escanear(ctx context.Context, fuente Source) (*Resultado, error) {
	p.mu.Lock()
	p.estado = Escaneando
	sesion := p.sesion
	p.mu.Unlock()

	defer func() {
		if err := fuente.Close(); err != nil {
			p.logger.Warn("error al cerrar la fuente de captura", zap.Error(err))
		}
	}()

	for {
		img, err := fuente.NextFrame(ctx)
		if err == io.EOF {
			p.aEstado(Fallido)
			return nil, ErrSinCodigo
		}
		if err != nil {
			p.aEstado(Fallido)
			var captura *domain.ErrorCaptura
			if errors.As(err, &captura) {
				return nil, captura
			}
			return nil, err
		}

		texto, err := decodificarFotograma(img)
		if err != nil {
			// Fallos de decodificado durante el escaneo continuo: silencio
			continue
		}

		// Detener la captura antes de la búsqueda asíncrona
		if err := fuente.Close(); err != nil {
			p.logger.Warn("error al detener la fuente de captura", zap.Error(err))
		}

		return p.procesar(texto, sesion)
	}
}

// ProcesarTexto alimenta el mismo punto de entrada de decodificado con texto
// ya obtenido (entrada manual). Aguas abajo la máquina es idéntica a la ruta
// de cámara.
func (p *Pipeline) ProcesarTexto(texto string) (*Resultado, error) {
	p.mu.Lock()
	sesion := p.sesion
	p.mu.Unlock()

	return p.procesar(texto, sesion)
}

func (p *Pipeline) procesar(texto string, sesion uint64) (*Resultado, error) {
	payload, err := p.codec.Decode(texto)
	if err != nil {
		p.aEstado(Fallido)
		return nil, err
	}

	// Supresión de escaneo duplicado: el mismo DNI dentro de la misma
	// sesión no dispara otra búsqueda de foto.
	p.mu.Lock()
	if sesion == p.sesion && payload.DNI == p.ultimoDNI && p.ultimo != nil {
		resultado := p.ultimo
		p.estado = Decodificado
		p.mu.Unlock()
		return resultado, nil
	}
	p.mu.Unlock()

	resultado := &Resultado{
		Payload:   payload,
		Iniciales: iniciales(payload.Nombre),
	}

	persona, err := p.personas.BuscarPorDNI(payload.DNI)
	if err != nil && !errors.Is(err, domain.ErrPersonaNoEncontrada) {
		// La búsqueda de foto degrada con gracia: se muestra el payload
		// con el placeholder de iniciales.
		p.logger.Warn("búsqueda de persona fallida tras el escaneo",
			zap.String("dni", payload.DNI), zap.Error(err))
	}
	if persona != nil {
		resultado.Persona = persona
		if persona.FotoURL != nil {
			resultado.FotoURL = *persona.FotoURL
		}
	}

	// Una búsqueda que resuelve tras un reinicio se descarta: su foto no
	// debe pisar la presentación de un escaneo más nuevo.
	p.mu.Lock()
	defer p.mu.Unlock()
	if sesion != p.sesion {
		return nil, ErrSesionObsoleta
	}

	p.estado = Decodificado
	p.ultimoDNI = payload.DNI
	p.ultimo = resultado

	return resultado, nil
}

// Reiniciar devuelve la máquina a Idle desde cualquier estado e invalida las
// búsquedas pendientes de la sesión anterior.
func (p *Pipeline) Reiniciar() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.estado = Idle
	p.sesion++
	p.ultimoDNI = ""
	p.ultimo = nil
}

func (p *Pipeline) aEstado(estado Estado) {
	p.mu.Lock()
	p.estado = estado
	p.mu.Unlock()
}

// iniciales deriva el placeholder de avatar a partir del nombre
func iniciales(nombre string) string {
	var sb strings.Builder
	for i, palabra := range strings.Fields(nombre) {
		if i == 2 {
			break
		}
		runas := []rune(palabra)
		sb.WriteString(strings.ToUpper(string(runas[0])))
	}
	return sb.String()
}
