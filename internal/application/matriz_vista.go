package application

import (
	"sync"
)

// EstatusAlternador es la operación de escritura que la vista necesita del
// libro de estatus.
type EstatusAlternador interface {
	Alternar(personaID string, anio, mes int) (bool, error)
}

// MatrizVista mantiene la copia local de la matriz persona×mes que pinta la
// vista de padrón. Los toggles se aplican de forma optimista: el valor local
// cambia de inmediato, se emite la escritura y, si esta falla, el valor local
// se revierte a su estado previo y el error se propaga al llamante.
type MatrizVista struct {
	estatus map[string]map[int]bool
	anio    int
	ledger  EstatusAlternador
	mu      sync.Mutex
}

// NewMatrizVista crea una vista de matriz vacía para un año
func NewMatrizVista(ledger EstatusAlternador, anio int) *MatrizVista {
	return &MatrizVista{
		estatus: make(map[string]map[int]bool),
		anio:    anio,
		ledger:  ledger,
	}
}

// Pintar reemplaza el contenido local con la matriz leída del almacén
func (mv *MatrizVista) Pintar(matriz map[string]map[int]bool) {
	mv.mu.Lock()
	defer mv.mu.Unlock()

	mv.estatus = make(map[string]map[int]bool, len(matriz))
	for personaID, meses := range matriz {
		fila := make(map[int]bool, len(meses))
		for mes, valor := range meses {
			fila[mes] = valor
		}
		mv.estatus[personaID] = fila
	}
}

// Valor devuelve el estatus local de una celda
func (mv *MatrizVista) Valor(personaID string, mes int) bool {
	mv.mu.Lock()
	defer mv.mu.Unlock()
	return mv.estatus[personaID][mes]
}

// Alternar aplica el toggle de forma optimista. Devuelve el valor confirmado
// por el almacén; si la escritura falla, el valor local vuelve al previo.
func (mv *MatrizVista) Alternar(personaID string, mes int) (bool, error) {
	mv.mu.Lock()
	previo := mv.estatus[personaID][mes]
	mv.fijar(personaID, mes, !previo)
	mv.mu.Unlock()

	confirmado, err := mv.ledger.Alternar(personaID, mv.anio, mes)
	if err != nil {
		mv.mu.Lock()
		mv.fijar(personaID, mes, previo)
		mv.mu.Unlock()
		return previo, err
	}

	// El valor confirmado manda: si otra sesión escribió entre medias, la
	// respuesta del almacén es la verdad final.
	mv.mu.Lock()
	mv.fijar(personaID, mes, confirmado)
	mv.mu.Unlock()

	return confirmado, nil
}

// fijar escribe una celda; el llamante debe tener el lock
func (mv *MatrizVista) fijar(personaID string, mes int, valor bool) {
	if mv.estatus[personaID] == nil {
		mv.estatus[personaID] = make(map[int]bool, 12)
	}
	mv.estatus[personaID][mes] = valor
}
