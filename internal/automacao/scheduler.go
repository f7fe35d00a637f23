package automacao

import (
	"log"

	"github.com/leadcontrol/api-crm/internal/metrics"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// Scheduler corre periodicamente as automações agendadas de todos os
// tenants. Cada execução é simulada, como as disparadas à mão.
type Scheduler struct {
	db         *gorm.DB
	cron       *cron.Cron
	repository Repository
	logger     *log.Logger
}

func NewScheduler(db *gorm.DB, logger *log.Logger) *Scheduler {
	return &Scheduler{
		db:         db,
		cron:       cron.New(),
		repository: NewRepository(),
		logger:     logger,
	}
}

func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc("@every 1h", s.executarAgendadas)
	if err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Println("scheduler de automações iniciado")
	return nil
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Println("scheduler de automações parado")
}

func (s *Scheduler) executarAgendadas() {
	automacoes, err := s.repository.ListarAgendadasAtivas(s.db)
	if err != nil {
		s.logger.Printf("scheduler: erro ao listar automações: %v", err)
		return
	}

	for _, a := range automacoes {
		err := s.db.Transaction(func(tx *gorm.DB) error {
			if err := s.repository.RegistrarExecucao(tx, a.TenantID, a.ID); err != nil {
				return err
			}
			return s.repository.RegistrarLog(tx, &AutomacaoLog{
				TenantID:    a.TenantID,
				AutomacaoID: a.ID,
				Status:      "success",
				Mensagem:    "Execução agendada",
			})
		})
		if err != nil {
			metrics.RecordAutomacaoExecutada("error")
			s.logger.Printf("scheduler: erro na automação %d: %v", a.ID, err)
			continue
		}
		metrics.RecordAutomacaoExecutada("success")
	}
}
