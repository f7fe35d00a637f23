// internal/negocio/service.go
// Máquina de estados do pipeline: valida e executa a movimentação de um
// negócio entre estágios do MESMO tenant, com os efeitos colaterais do
// fechamento aplicados atomicamente.
package negocio

import (
	"fmt"
	"time"

	"github.com/leadcontrol/api-crm/internal/atividade"
	"github.com/leadcontrol/api-crm/internal/lead"
	"github.com/leadcontrol/api-crm/internal/notificacao"
	"github.com/leadcontrol/api-crm/internal/pipeline"
	"github.com/leadcontrol/api-crm/internal/tenancy"
	"gorm.io/gorm"
)

type Service struct {
	Negocios     Repository
	Estagios     pipeline.Repository
	Atividades   atividade.Repository
	Notificacoes notificacao.Repository
	Leads        lead.Repository
}

func NewService() *Service {
	return &Service{
		Negocios:     NewRepository(),
		Estagios:     pipeline.NewRepository(),
		Atividades:   atividade.NewRepository(),
		Notificacoes: notificacao.NewRepository(),
		Leads:        lead.NewRepository(),
	}
}

// ResultadoMovimento descreve tudo que a movimentação gravou.
type ResultadoMovimento struct {
	Negocio        *Negocio                 `json:"negocio"`
	Atividade      *atividade.Atividade     `json:"atividade"`
	Notificacao    *notificacao.Notificacao `json:"notificacao,omitempty"`
	LeadAtualizado bool                     `json:"leadAtualizado"`
}

// MoverEstagio move o negócio para o estágio alvo. O pipeline não impõe
// sequência: movimentos laterais e para trás são válidos (modelo kanban de
// arrastar-e-soltar). Pré-condições:
//   - negócio existe no tenant e não está deletado;
//   - estágio alvo pertence ao MESMO tenant (estágio de outro tenant é
//     violação de segurança e responde como não encontrado).
//
// Se o estágio alvo for o de fechamento, o ganho (status won + closedAt +
// notificação + lead won) é aplicado na mesma transação da movimentação:
// tudo ou nada.
func (s *Service) MoverEstagio(db *gorm.DB, tenantID, userID, negocioID, estagioID uint) (*ResultadoMovimento, error) {
	var resultado ResultadoMovimento

	err := db.Transaction(func(tx *gorm.DB) error {
		n, err := s.Negocios.BuscarPorID(tx, tenantID, negocioID)
		if err != nil {
			return err
		}
		if n.Status == StatusDeletado {
			return tenancy.ErrNaoEncontrado
		}

		estagio, err := s.Estagios.BuscarPorID(tx, tenantID, estagioID)
		if err != nil {
			return err
		}

		n.EstagioID = estagio.ID
		if err := s.Negocios.Salvar(tx, n); err != nil {
			return err
		}

		a := &atividade.Atividade{
			TenantID:  tenantID,
			UsuarioID: userID,
			NegocioID: &n.ID,
			LeadID:    n.LeadID,
			Tipo:      "stage_changed",
			Descricao: fmt.Sprintf("Negócio movido para %q", estagio.Nome),
		}
		if err := s.Atividades.Registrar(tx, a); err != nil {
			return err
		}
		resultado.Atividade = a

		// Efeitos de fechamento: apenas na primeira chegada ao estágio
		// terminal (won é terminal, sem reaplicação).
		if estagio.EhFechamento() && n.Status == StatusAberto {
			agora := time.Now()
			n.Status = StatusGanho
			n.ClosedAt = &agora
			if err := s.Negocios.Salvar(tx, n); err != nil {
				return err
			}

			nt := &notificacao.Notificacao{
				TenantID:  tenantID,
				UsuarioID: userID,
				LeadID:    n.LeadID,
				Tipo:      "deal",
				Titulo:    "🎉 Negócio Fechado!",
				Mensagem:  fmt.Sprintf("%s movido para %s", n.Titulo, estagio.Nome),
				Link:      "/pipeline",
			}
			if err := s.Notificacoes.Criar(tx, nt); err != nil {
				return err
			}
			resultado.Notificacao = nt

			if n.LeadID != nil {
				if err := s.Leads.MarcarStatus(tx, tenantID, *n.LeadID, lead.StatusGanho); err != nil {
					return err
				}
				resultado.LeadAtualizado = true
			}
		}

		resultado.Negocio = n
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resultado, nil
}

// Criar inicializa um negócio no estágio informado ou, na ausência dele, no
// primeiro estágio do pipeline do tenant.
func (s *Service) Criar(db *gorm.DB, n *Negocio) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if n.EstagioID == 0 {
			primeiro, err := s.Estagios.PrimeiroEstagio(tx, n.TenantID)
			if err != nil {
				return err
			}
			n.EstagioID = primeiro.ID
		} else {
			if _, err := s.Estagios.BuscarPorID(tx, n.TenantID, n.EstagioID); err != nil {
				return err
			}
		}
		n.Status = StatusAberto

		if err := s.Negocios.Salvar(tx, n); err != nil {
			return err
		}
		return s.Atividades.Registrar(tx, &atividade.Atividade{
			TenantID:  n.TenantID,
			UsuarioID: n.AgenteID,
			NegocioID: &n.ID,
			LeadID:    n.LeadID,
			Tipo:      "deal_created",
			Descricao: fmt.Sprintf("Negócio %q criado", n.Titulo),
		})
	})
}
