package agendamento

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
	"github.com/leadcontrol/api-crm/internal/tenancy"
	"gorm.io/gorm"
)

var validate = validator.New()

type criarAgendamentoRequest struct {
	Titulo   string    `json:"titulo" validate:"required"`
	Tipo     string    `json:"tipo" validate:"omitempty,oneof=visit meeting call"`
	Data     time.Time `json:"data" validate:"required"`
	Duracao  int       `json:"duracao"`
	LeadID   *uint     `json:"leadId"`
	ImovelID *uint     `json:"imovelId"`
	AgenteID *uint     `json:"agenteId"`
	Notas    string    `json:"notas"`
}

type atualizarStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=scheduled done cancelled"`
}

type Handler struct {
	DB         *gorm.DB
	Repository Repository
	Atividades atividade.Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{
		DB:         db,
		Repository: NewRepository(),
		Atividades: atividade.NewRepository(),
	}
}

// Listar trata GET /agendamentos?inicio=...&fim=...
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	_, tenantID, ok := auth.UsuarioDoContexto(r.Context())
	if !ok {
		http.Error(w, "não autenticado", http.StatusUnauthorized)
		return
	}

	var inicio, fim *time.Time
	if s := r.URL.Query().Get("inicio"); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			inicio = &t
		}
	}
	if s := r.URL.Query().Get("fim"); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			fimDia := t.Add(24*time.Hour - time.Second)
			fim = &fimDia
		}
	}

	list, err := h.Repository.Listar(h.DB, tenantID, inicio, fim)
	if err != nil {
		http.Error(w, "Erro ao listar agendamentos", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(list)
}

// Criar trata POST /agendamentos
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	userID, tenantID, ok := auth.UsuarioDoContexto(r.Context())
	if !ok {
		http.Error(w, "não autenticado", http.StatusUnauthorized)
		return
	}

	var req criarAgendamentoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, "payload inválido: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := tenancy.PertenceAoTenantOpcional(h.DB, "leads", req.LeadID, tenantID); err != nil {
		http.Error(w, "Lead não encontrado", http.StatusNotFound)
		return
	}
	if err := tenancy.PertenceAoTenantOpcional(h.DB, "imovels", req.ImovelID, tenantID); err != nil {
		http.Error(w, "Imóvel não encontrado", http.StatusNotFound)
		return
	}
	agente := userID
	if req.AgenteID != nil {
		if err := tenancy.PertenceAoTenant(h.DB, "usuarios", *req.AgenteID, tenantID); err != nil {
			http.Error(w, "Agente não encontrado", http.StatusNotFound)
			return
		}
		agente = *req.AgenteID
	}

	if req.Tipo == "" {
		req.Tipo = "visit"
	}
	if req.Duracao <= 0 {
		req.Duracao = 60
	}

	a := Agendamento{
		TenantID: tenantID,
		AgenteID: agente,
		LeadID:   req.LeadID,
		ImovelID: req.ImovelID,
		Titulo:   req.Titulo,
		Tipo:     req.Tipo,
		Data:     req.Data,
		Duracao:  req.Duracao,
		Notas:    req.Notas,
		Status:   StatusAgendado,
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := h.Repository.Salvar(tx, &a); err != nil {
			return err
		}
		if a.LeadID == nil {
			return nil
		}
		return h.Atividades.Registrar(tx, &atividade.Atividade{
			TenantID:  tenantID,
			UsuarioID: userID,
			LeadID:    a.LeadID,
			Tipo:      "appointment_created",
			Descricao: fmt.Sprintf("Agendamento: %s", a.Titulo),
		})
	})
	if err != nil {
		http.Error(w, "Erro ao criar agendamento", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{"id": a.ID, "mensagem": "Agendamento criado"})
}

// AtualizarStatus trata PATCH /agendamentos/{id}/status
func (h *Handler) AtualizarStatus(w http.ResponseWriter, r *http.Request) {
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

	var req atualizarStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, "payload inválido: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.Repository.MarcarStatus(h.DB, tenantID, uint(id), req.Status); err != nil {
		if errors.Is(err, tenancy.ErrNaoEncontrado) {
			http.Error(w, "Agendamento não encontrado", http.StatusNotFound)
			return
		}
		http.Error(w, "Erro ao atualizar status", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"mensagem": "Status atualizado"})
}

// Deletar trata DELETE /agendamentos/{id}
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

	if err := h.Repository.Remover(h.DB, tenantID, uint(id)); err != nil {
		if errors.Is(err, tenancy.ErrNaoEncontrado) {
			http.Error(w, "Agendamento não encontrado", http.StatusNotFound)
			return
		}
		http.Error(w, "Erro ao remover agendamento", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"mensagem": "Agendamento removido"})
}
