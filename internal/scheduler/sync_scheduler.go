package scheduler

import (
	"time"

	"go.uber.org/zap"

	"github.com/Leonardo2020-col/qr-system-pay/internal/application"
)

// SyncScheduler reespeja el padrón en la hoja de cálculo de forma periódica,
// para que la hoja converja aunque algún sync tras mutación haya fallado.
type SyncScheduler struct {
	personas  *application.PersonaService
	intervalo time.Duration
	ticker    *time.Ticker
	done      chan struct{}
	logger    *zap.Logger
}

// NewSyncScheduler crea una nueva instancia del scheduler de sincronización
func NewSyncScheduler(personas *application.PersonaService, intervalo time.Duration, logger *zap.Logger) *SyncScheduler {
	return &SyncScheduler{
		personas:  personas,
		intervalo: intervalo,
		done:      make(chan struct{}),
		logger:    logger,
	}
}

// Start inicia el scheduler. Ejecuta una sincronización inmediata y después
// una por intervalo.
func (s *SyncScheduler) Start() {
	s.logger.Info("scheduler de sincronización iniciado",
		zap.Duration("intervalo", s.intervalo))

	s.sincronizar()

	s.ticker = time.NewTicker(s.intervalo)
	go func() {
		for {
			select {
			case <-s.ticker.C:
				s.sincronizar()
			case <-s.done:
				return
			}
		}
	}()
}

// Stop detiene el scheduler
func (s *SyncScheduler) Stop() {
	if s.ticker != nil {
		s.ticker.Stop()
		close(s.done)
		s.logger.Info("scheduler de sincronización detenido")
	}
}

func (s *SyncScheduler) sincronizar() {
	if err := s.personas.Sincronizar(); err != nil {
		s.logger.Warn("sincronización periódica fallida", zap.Error(err))
		return
	}
	s.logger.Info("padrón reespejado en la hoja de cálculo")
}
