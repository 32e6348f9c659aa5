package application

import (
	"github.com/Leonardo2020-col/qr-system-pay/internal/domain"
	"go.uber.org/zap"
)

// EstatusService expone el libro de estatus mensuales manteniendo la
// invariante de 12 filas por (persona, año).
type EstatusService struct {
	estatusRepo domain.EstatusRepository
	validator   *Validator
	logger      *zap.Logger
}

// NewEstatusService crea una nueva instancia del servicio de estatus
func NewEstatusService(estatusRepo domain.EstatusRepository, logger *zap.Logger) *EstatusService {
	return &EstatusService{
		estatusRepo: estatusRepo,
		validator:   &Validator{},
		logger:      logger,
	}
}

// ObtenerAnio devuelve el mapa mes→estatus de un año completo. La primera
// consulta de un (persona, año) materializa las 12 filas en false: es una
// lectura con inicialización perezosa, no una lectura pura.
func (s *EstatusService) ObtenerAnio(personaID string, anio int) (map[int]bool, error) {
	filas, err := s.estatusRepo.GetYear(personaID, anio)
	if err != nil {
		return nil, &domain.StoreError{Operacion: "obtener estatus del año", Causa: err}
	}

	estatus := make(map[int]bool, 12)
	for _, fila := range filas {
		estatus[fila.Mes] = fila.Estatus
	}
	return estatus, nil
}

// ObtenerMes devuelve el estatus de un mes; la ausencia se sana en false
func (s *EstatusService) ObtenerMes(personaID string, anio, mes int) (*domain.EstatusMensual, error) {
	if msg := s.validator.ValidarMes(mes); msg != "" {
		return nil, &domain.ValidationError{Errores: map[string]string{"mes": msg}}
	}

	fila, err := s.estatusRepo.GetMonth(personaID, anio, mes)
	if err != nil {
		return nil, &domain.StoreError{Operacion: "obtener estatus del mes", Causa: err}
	}
	return fila, nil
}

// FijarMes actualiza o inserta el estatus de un mes (upsert)
func (s *EstatusService) FijarMes(personaID string, anio, mes int, estatus bool, observaciones string) (*domain.EstatusMensual, error) {
	if msg := s.validator.ValidarMes(mes); msg != "" {
		return nil, &domain.ValidationError{Errores: map[string]string{"mes": msg}}
	}

	fila, err := s.estatusRepo.SetMonth(personaID, anio, mes, estatus, observaciones)
	if err != nil {
		return nil, &domain.StoreError{Operacion: "fijar estatus del mes", Causa: err}
	}
	return fila, nil
}

// Alternar invierte el estatus de un mes y devuelve el nuevo valor
func (s *EstatusService) Alternar(personaID string, anio, mes int) (bool, error) {
	if msg := s.validator.ValidarMes(mes); msg != "" {
		return false, &domain.ValidationError{Errores: map[string]string{"mes": msg}}
	}

	nuevo, err := s.estatusRepo.Toggle(personaID, anio, mes)
	if err != nil {
		return false, &domain.StoreError{Operacion: "alternar estatus", Causa: err}
	}

	s.logger.Debug("estatus alternado",
		zap.String("persona_id", personaID), zap.Int("anio", anio),
		zap.Int("mes", mes), zap.Bool("estatus", nuevo))
	return nuevo, nil
}

// ObtenerMatrizAnio devuelve los estatus de todas las personas de un año en
// una sola consulta, agrupados por persona.
func (s *EstatusService) ObtenerMatrizAnio(anio int) (map[string]map[int]bool, error) {
	filas, err := s.estatusRepo.GetAllForYear(anio)
	if err != nil {
		return nil, &domain.StoreError{Operacion: "obtener matriz del año", Causa: err}
	}

	matriz := make(map[string]map[int]bool)
	for _, fila := range filas {
		if matriz[fila.PersonaID] == nil {
			matriz[fila.PersonaID] = make(map[int]bool, 12)
		}
		matriz[fila.PersonaID][fila.Mes] = fila.Estatus
	}
	return matriz, nil
}
