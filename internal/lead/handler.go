package lead

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/leadcontrol/api-crm/internal/atividade"
	"github.com/leadcontrol/api-crm/internal/auth"
	"github.com/leadcontrol/api-crm/internal/metrics"
	"github.com/leadcontrol/api-crm/internal/notificacao"
	"github.com/leadcontrol/api-crm/internal/tenancy"
	"gorm.io/gorm"
)

var validate = validator.New()

// Handler encapsula DB e repositories
type Handler struct {
	DB           *gorm.DB
	Repository   Repository
	Atividades   atividade.Repository
	Notificacoes notificacao.Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{
		DB:           db,
		Repository:   NewRepository(),
		Atividades:   atividade.NewRepository(),
		Notificacoes: notificacao.NewRepository(),
	}
}

// Listar trata GET /leads com filtros de temperatura/status/busca
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	_, tenantID, ok := auth.UsuarioDoContexto(r.Context())
	if !ok {
		http.Error(w, "não autenticado", http.StatusUnauthorized)
		return
	}

	q := r.URL.Query()
	pagina, _ := strconv.Atoi(q.Get("pagina"))
	limite, _ := strconv.Atoi(q.Get("limite"))
	f := Filtro{
		Temperatura: q.Get("temperatura"),
		Status:      q.Get("status"),
		Busca:       q.Get("busca"),
		Pagina:      pagina,
		Limite:      limite,
	}

	list, total, err := h.Repository.Listar(h.DB, tenantID, f)
	if err != nil {
		http.Error(w, "erro ao listar leads", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"leads": list, "total": total})
}

// BuscarPorID trata GET /leads/{id}
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	_, tenantID, ok := auth.UsuarioDoContexto(r.Context())
	if !ok {
		http.Error(w, "não autenticado", http.StatusUnauthorized)
		return
	}
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}

	l, err := h.Repository.BuscarPorID(h.DB, tenantID, uint(id))
	if err != nil {
		http.Error(w, "Lead não encontrado", http.StatusNotFound)
		return
	}

	atividades, _ := h.Atividades.ListarPorLead(h.DB, tenantID, l.ID, 20)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"lead": l, "atividades": atividades})
}

// Criar trata POST /leads. Score calculado sempre, antes de persistir
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	userID, tenantID, ok := auth.UsuarioDoContexto(r.Context())
	if !ok {
		http.Error(w, "não autenticado", http.StatusUnauthorized)
		return
	}

	var dto leadCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(dto); err != nil {
		http.Error(w, "payload inválido: "+err.Error(), http.StatusBadRequest)
		return
	}

	// Defaults do ciclo de vida
	if dto.Fonte == "" {
		dto.Fonte = "manual"
	}
	if dto.Status == "" {
		dto.Status = StatusNovo
	}
	if dto.Temperatura == "" {
		dto.Temperatura = TemperaturaCold
	}

	// agenteId vindo do cliente precisa pertencer ao tenant
	agenteID := userID
	if dto.AgenteID != nil {
		if err := tenancy.PertenceAoTenant(h.DB, "usuarios", *dto.AgenteID, tenantID); err != nil {
			http.Error(w, "Agente não encontrado", http.StatusNotFound)
			return
		}
		agenteID = *dto.AgenteID
	}

	agora := time.Now()
	l := Lead{
		TenantID:      tenantID,
		AgenteID:      agenteID,
		Nome:          dto.Nome,
		Email:         dto.Email,
		Telefone:      dto.Telefone,
		Fonte:         dto.Fonte,
		Status:        dto.Status,
		Temperatura:   dto.Temperatura,
		Interesse:     dto.Interesse,
		BudgetMin:     dto.BudgetMin,
		BudgetMax:     dto.BudgetMax,
		Notas:         dto.Notas,
		UltimoContato: &agora,
	}
	l.RecalcularScore()

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := h.Repository.Salvar(tx, &l); err != nil {
			return err
		}
		leadID := l.ID
		if err := h.Atividades.Registrar(tx, &atividade.Atividade{
			TenantID:  tenantID,
			UsuarioID: userID,
			LeadID:    &leadID,
			Tipo:      "lead_created",
			Descricao: fmt.Sprintf("Lead %q adicionado via %s", l.Nome, l.Fonte),
		}); err != nil {
			return err
		}
		return h.Notificacoes.Criar(tx, &notificacao.Notificacao{
			TenantID:  tenantID,
			UsuarioID: userID,
			LeadID:    &leadID,
			Tipo:      "lead",
			Titulo:    "Novo Lead",
			Mensagem:  fmt.Sprintf("%s adicionado como lead", l.Nome),
			Link:      "/leads",
		})
	})
	if err != nil {
		http.Error(w, "Erro ao criar lead", http.StatusInternalServerError)
		return
	}

	metrics.RecordLeadCriado(l.Fonte)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{"id": l.ID, "mensagem": "Lead criado com sucesso", "score": l.Score})
}

// Atualizar trata PUT /leads/{id}: recalcula o score incondicionalmente,
// mesmo que só campos irrelevantes ao score tenham mudado
func (h *Handler) Atualizar(w http.ResponseWriter, r *http.Request) {
	userID, tenantID, ok := auth.UsuarioDoContexto(r.Context())
	if !ok {
		http.Error(w, "não autenticado", http.StatusUnauthorized)
		return
	}
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}

	var dto leadUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(dto); err != nil {
		http.Error(w, "payload inválido: "+err.Error(), http.StatusBadRequest)
		return
	}

	existente, err := h.Repository.BuscarPorID(h.DB, tenantID, uint(id))
	if err != nil {
		http.Error(w, "Lead não encontrado", http.StatusNotFound)
		return
	}

	if dto.Fonte == "" {
		dto.Fonte = "manual"
	}
	if dto.Temperatura == "" {
		dto.Temperatura = TemperaturaCold
	}

	existente.Nome = dto.Nome
	existente.Email = dto.Email
	existente.Telefone = dto.Telefone
	existente.Fonte = dto.Fonte
	existente.Temperatura = dto.Temperatura
	existente.Interesse = dto.Interesse
	existente.BudgetMin = dto.BudgetMin
	existente.BudgetMax = dto.BudgetMax
	existente.Notas = dto.Notas
	if dto.Status != "" {
		existente.Status = dto.Status
	}
	if dto.AgenteID != nil {
		if err := tenancy.PertenceAoTenant(h.DB, "usuarios", *dto.AgenteID, tenantID); err != nil {
			http.Error(w, "Agente não encontrado", http.StatusNotFound)
			return
		}
		existente.AgenteID = *dto.AgenteID
	}
	existente.RecalcularScore()

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := h.Repository.Salvar(tx, existente); err != nil {
			return err
		}
		leadID := existente.ID
		return h.Atividades.Registrar(tx, &atividade.Atividade{
			TenantID:  tenantID,
			UsuarioID: userID,
			LeadID:    &leadID,
			Tipo:      "lead_updated",
			Descricao: fmt.Sprintf("Lead %q atualizado", existente.Nome),
		})
	})
	if err != nil {
		http.Error(w, "Erro ao atualizar lead", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"mensagem": "Lead atualizado", "score": existente.Score})
}

// Deletar trata DELETE /leads/{id}, remoção lógica via status
func (h *Handler) Deletar(w http.ResponseWriter, r *http.Request) {
	_, tenantID, ok := auth.UsuarioDoContexto(r.Context())
	if !ok {
		http.Error(w, "não autenticado", http.StatusUnauthorized)
		return
	}
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}

	if err := h.Repository.MarcarStatus(h.DB, tenantID, uint(id), StatusDeletado); err != nil {
		if errors.Is(err, tenancy.ErrNaoEncontrado) {
			http.Error(w, "Lead não encontrado", http.StatusNotFound)
			return
		}
		http.Error(w, "Erro ao remover lead", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"mensagem": "Lead removido"})
}

// RegistrarContato trata POST /leads/{id}/contato
func (h *Handler) RegistrarContato(w http.ResponseWriter, r *http.Request) {
	userID, tenantID, ok := auth.UsuarioDoContexto(r.Context())
	if !ok {
		http.Error(w, "não autenticado", http.StatusUnauthorized)
		return
	}
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}

	var dto registrarContatoDTO
	_ = json.NewDecoder(r.Body).Decode(&dto)
	if dto.Tipo == "" {
		dto.Tipo = "contact"
	}
	if dto.Descricao == "" {
		dto.Descricao = "Contato registrado"
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := h.Repository.RegistrarContato(tx, tenantID, uint(id), time.Now()); err != nil {
			return err
		}
		leadID := uint(id)
		return h.Atividades.Registrar(tx, &atividade.Atividade{
			TenantID:  tenantID,
			UsuarioID: userID,
			LeadID:    &leadID,
			Tipo:      dto.Tipo,
			Descricao: dto.Descricao,
		})
	})
	if err != nil {
		if errors.Is(err, tenancy.ErrNaoEncontrado) {
			http.Error(w, "Lead não encontrado", http.StatusNotFound)
			return
		}
		http.Error(w, "Erro ao registrar contato", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"mensagem": "Contato registrado"})
}
