package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Leonardo2020-col/qr-system-pay/internal/domain"
)

func TestRosterCacheReadYourWrites(t *testing.T) {
	cache := NewRosterCache(time.Minute)

	_, ok := cache.Get()
	assert.False(t, ok)

	cache.Set([]domain.Persona{{ID: "id-1", Nombre: "Juan Perez"}})

	personas, ok := cache.Get()
	assert.True(t, ok)
	assert.Len(t, personas, 1)

	// Tras una mutación el caché se invalida: la siguiente lectura va al almacén
	cache.Invalidar()
	_, ok = cache.Get()
	assert.False(t, ok)
}

func TestRosterCacheExpira(t *testing.T) {
	cache := NewRosterCache(time.Nanosecond)
	cache.Set([]domain.Persona{{ID: "id-1"}})

	time.Sleep(time.Millisecond)

	_, ok := cache.Get()
	assert.False(t, ok)
}

func TestRosterCacheCopiaDefensiva(t *testing.T) {
	cache := NewRosterCache(time.Minute)
	cache.Set([]domain.Persona{{ID: "id-1", Nombre: "Juan Perez"}})

	personas, _ := cache.Get()
	personas[0].Nombre = "Otro Nombre"

	otraVez, _ := cache.Get()
	assert.Equal(t, "Juan Perez", otraVez[0].Nombre)
}
