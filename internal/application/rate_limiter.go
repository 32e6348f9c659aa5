package application

import (
	"fmt"
	"sync"
	"time"
)

type ventana struct {
	intentos int
	reinicio time.Time
}

// ScanLimiter limita los intentos de decodificación por cliente en ventanas de
// tiempo, para que un escáner en bucle no sature el endpoint de escaneo.
type ScanLimiter struct {
	ventanas map[string]*ventana
	mu       sync.Mutex
	duracion time.Duration
	limite   int
}

// NewScanLimiter crea un limitador de escaneos.
// duracion: tamaño de la ventana (ej: 1 minuto)
// limite: intentos permitidos por ventana y cliente
func NewScanLimiter(duracion time.Duration, limite int) *ScanLimiter {
	sl := &ScanLimiter{
		ventanas: make(map[string]*ventana),
		duracion: duracion,
		limite:   limite,
	}

	go sl.limpiezaPeriodica()

	return sl
}

// Permitir verifica si el cliente puede realizar otro intento de escaneo
func (sl *ScanLimiter) Permitir(clienteIP string) error {
	if clienteIP == "" {
		clienteIP = "anonimo"
	}

	sl.mu.Lock()
	defer sl.mu.Unlock()

	ahora := time.Now()
	v, existe := sl.ventanas[clienteIP]

	if !existe || ahora.After(v.reinicio) {
		sl.ventanas[clienteIP] = &ventana{intentos: 1, reinicio: ahora.Add(sl.duracion)}
		return nil
	}

	if v.intentos >= sl.limite {
		espera := v.reinicio.Sub(ahora).Round(time.Second)
		return fmt.Errorf("límite de escaneos excedido, intenta de nuevo en %v", espera)
	}

	v.intentos++
	return nil
}

func (sl *ScanLimiter) limpiezaPeriodica() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		sl.mu.Lock()
		ahora := time.Now()
		for ip, v := range sl.ventanas {
			if ahora.After(v.reinicio) {
				delete(sl.ventanas, ip)
			}
		}
		sl.mu.Unlock()
	}
}
