package application

import (
	"errors"
	"fmt"
	"time"

	"github.com/Leonardo2020-col/qr-system-pay/internal/domain"
	"go.uber.org/zap"
)

// Syncer espeja el padrón completo en una hoja de cálculo externa.
// La sincronización es de mejor esfuerzo: un fallo nunca revierte el CRUD local.
type Syncer interface {
	SincronizarPadron(personas []domain.Persona) error
}

// PersonaService orquesta el CRUD de personas: validación, subida de foto,
// inicialización del libro de estatus y espejo en la hoja de cálculo.
type PersonaService struct {
	personaRepo domain.PersonaRepository
	estatusRepo domain.EstatusRepository
	fotos       domain.FotoStorage
	validator   *Validator
	cache       *RosterCache
	syncer      Syncer
	logger      *zap.Logger
}

// NewPersonaService crea una nueva instancia del servicio de personas.
// fotos y syncer pueden ser nil si el despliegue no los configura.
func NewPersonaService(
	personaRepo domain.PersonaRepository,
	estatusRepo domain.EstatusRepository,
	fotos domain.FotoStorage,
	syncer Syncer,
	logger *zap.Logger,
) *PersonaService {
	return &PersonaService{
		personaRepo: personaRepo,
		estatusRepo: estatusRepo,
		fotos:       fotos,
		validator:   &Validator{},
		cache:       NewRosterCache(5 * time.Minute),
		syncer:      syncer,
		logger:      logger,
	}
}

// Listar devuelve el padrón completo, sirviendo del caché cuando es válido
func (s *PersonaService) Listar() ([]domain.Persona, error) {
	if personas, ok := s.cache.Get(); ok {
		return personas, nil
	}

	personas, err := s.personaRepo.List()
	if err != nil {
		return nil, &domain.StoreError{Operacion: "listar", Causa: err}
	}

	s.cache.Set(personas)
	return personas, nil
}

// Crear registra una nueva persona. La foto se sube antes de insertar la fila:
// si la subida falla, la operación completa falla y la fila nunca queda con
// una referencia a una foto inexistente.
func (s *PersonaService) Crear(persona *domain.Persona, foto []byte, fotoContentType string) (*domain.Persona, error) {
	if err := s.validator.ValidarPersona(persona); err != nil {
		return nil, err
	}

	if len(foto) > 0 {
		if s.fotos == nil {
			return nil, fmt.Errorf("el almacenamiento de fotos no está configurado")
		}
		fotoURL, err := s.fotos.Subir(foto, fotoContentType, persona.DNI)
		if err != nil {
			return nil, &domain.StoreError{Operacion: "subir foto", Causa: err}
		}
		persona.FotoURL = &fotoURL
	}

	if err := s.personaRepo.Create(persona); err != nil {
		return nil, &domain.StoreError{Operacion: "crear persona", Causa: err}
	}

	// El año en curso se materializa de inmediato; si falla, la primera
	// consulta del año lo inicializa de todos modos.
	if err := s.estatusRepo.Inicializar(persona.ID, time.Now().Year()); err != nil {
		s.logger.Warn("no se pudieron inicializar los estatus mensuales",
			zap.String("persona_id", persona.ID), zap.Error(err))
	}

	s.cache.Invalidar()
	s.sincronizar()

	return persona, nil
}

// Actualizar modifica una persona existente
func (s *PersonaService) Actualizar(id string, persona *domain.Persona, foto []byte, fotoContentType string) (*domain.Persona, error) {
	persona.ID = id
	if err := s.validator.ValidarPersona(persona); err != nil {
		return nil, err
	}

	actual, err := s.personaRepo.GetByID(id)
	if err != nil {
		return nil, &domain.StoreError{Operacion: "obtener persona", Causa: err}
	}

	if len(foto) > 0 {
		if s.fotos == nil {
			return nil, fmt.Errorf("el almacenamiento de fotos no está configurado")
		}
		fotoURL, err := s.fotos.Subir(foto, fotoContentType, persona.DNI)
		if err != nil {
			return nil, &domain.StoreError{Operacion: "subir foto", Causa: err}
		}
		persona.FotoURL = &fotoURL
	} else if persona.FotoURL == nil {
		persona.FotoURL = actual.FotoURL
	}

	if err := s.personaRepo.Update(persona); err != nil {
		return nil, &domain.StoreError{Operacion: "actualizar persona", Causa: err}
	}

	s.cache.Invalidar()
	s.sincronizar()

	return persona, nil
}

// Eliminar borra una persona, sus estatus mensuales y su foto. El fallo al
// borrar la foto se registra pero no bloquea la eliminación de la fila: una
// foto huérfana es un modo de fallo aceptado.
func (s *PersonaService) Eliminar(id string) error {
	persona, err := s.personaRepo.GetByID(id)
	if err != nil {
		return &domain.StoreError{Operacion: "obtener persona", Causa: err}
	}

	if err := s.personaRepo.Delete(id); err != nil {
		return &domain.StoreError{Operacion: "eliminar persona", Causa: err}
	}

	if persona.FotoURL != nil && s.fotos != nil {
		if err := s.fotos.Eliminar(*persona.FotoURL); err != nil {
			s.logger.Warn("no se pudo eliminar la foto",
				zap.String("foto_url", *persona.FotoURL), zap.Error(err))
		}
	}

	s.cache.Invalidar()
	s.sincronizar()

	return nil
}

// ObtenerPorID obtiene una persona por su identificador
func (s *PersonaService) ObtenerPorID(id string) (*domain.Persona, error) {
	persona, err := s.personaRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, domain.ErrPersonaNoEncontrada) {
			return nil, err
		}
		return nil, &domain.StoreError{Operacion: "obtener persona", Causa: err}
	}
	return persona, nil
}

// BuscarPorDNI busca una persona por su DNI. Devuelve ErrPersonaNoEncontrada
// si no existe.
func (s *PersonaService) BuscarPorDNI(dni string) (*domain.Persona, error) {
	if msg := s.validator.ValidarDNI(dni); msg != "" {
		return nil, &domain.ValidationError{Errores: map[string]string{"dni": msg}}
	}

	persona, err := s.personaRepo.FindByDNI(dni)
	if err != nil {
		return nil, &domain.StoreError{Operacion: "buscar por DNI", Causa: err}
	}
	if persona == nil {
		return nil, domain.ErrPersonaNoEncontrada
	}

	return persona, nil
}

// Sincronizar espeja el padrón actual en la hoja de cálculo de forma explícita
func (s *PersonaService) Sincronizar() error {
	if s.syncer == nil {
		return &domain.SyncError{Causa: fmt.Errorf("la sincronización no está configurada")}
	}

	personas, err := s.Listar()
	if err != nil {
		return err
	}

	if err := s.syncer.SincronizarPadron(personas); err != nil {
		return &domain.SyncError{Causa: err}
	}
	return nil
}

// sincronizar espeja tras una mutación; el fallo solo se registra
func (s *PersonaService) sincronizar() {
	if s.syncer == nil {
		return
	}
	if err := s.Sincronizar(); err != nil {
		s.logger.Warn("no se pudo sincronizar con la hoja de cálculo", zap.Error(err))
	}
}
