package application

import (
	"sync"
	"time"

	"github.com/Leonardo2020-col/qr-system-pay/internal/domain"
)

// RosterCache implementa un caché simple en memoria para el padrón completo.
// La consistencia es de mejor esfuerzo: cada mutación invalida el caché, de
// modo que la siguiente lectura vuelve al almacén (read-your-writes dentro de
// la misma sesión).
type RosterCache struct {
	personas  []domain.Persona
	timestamp time.Time
	valido    bool
	mu        sync.RWMutex
	ttl       time.Duration
}

// NewRosterCache crea un nuevo caché del padrón
func NewRosterCache(ttl time.Duration) *RosterCache {
	return &RosterCache{ttl: ttl}
}

// Get devuelve el padrón cacheado si existe y no ha expirado
func (rc *RosterCache) Get() ([]domain.Persona, bool) {
	rc.mu.RLock()
	defer rc.mu.RUnlock()

	if !rc.valido || time.Since(rc.timestamp) > rc.ttl {
		return nil, false
	}

	// Copia defensiva: los llamantes no comparten el slice interno
	personas := make([]domain.Persona, len(rc.personas))
	copy(personas, rc.personas)
	return personas, true
}

// Set guarda el padrón en el caché
func (rc *RosterCache) Set(personas []domain.Persona) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	rc.personas = make([]domain.Persona, len(personas))
	copy(rc.personas, personas)
	rc.timestamp = time.Now()
	rc.valido = true
}

// Invalidar descarta el contenido del caché. Se llama tras cada mutación.
func (rc *RosterCache) Invalidar() {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	rc.personas = nil
	rc.valido = false
}
