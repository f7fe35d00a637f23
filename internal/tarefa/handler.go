package tarefa

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/leadcontrol/api-crm/internal/auth"
	"github.com/leadcontrol/api-crm/internal/tenancy"
	"gorm.io/gorm"
)

var validate = validator.New()

type criarTarefaRequest struct {
	Titulo     string     `json:"titulo" validate:"required"`
	Descricao  string     `json:"descricao"`
	Vencimento *time.Time `json:"vencimento"`
	Prioridade string     `json:"prioridade" validate:"omitempty,oneof=high medium low"`
	LeadID     *uint      `json:"leadId"`
	ImovelID   *uint      `json:"imovelId"`
	NegocioID  *uint      `json:"negocioId"`
	AtribuidoA *uint      `json:"atribuidoA"`
}

type atualizarStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending done"`
}

type Handler struct {
	DB         *gorm.DB
	Repository Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db, Repository: NewRepository()}
}

// Listar trata GET /tarefas
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	_, tenantID, ok := auth.UsuarioDoContexto(r.Context())
	if !ok {
		http.Error(w, "não autenticado", http.StatusUnauthorized)
		return
	}

	list, err := h.Repository.Listar(h.DB, tenantID, r.URL.Query().Get("status"), r.URL.Query().Get("prioridade"))
	if err != nil {
		http.Error(w, "Erro ao listar tarefas", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(list)
}

// Criar trata POST /tarefas
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	userID, tenantID, ok := auth.UsuarioDoContexto(r.Context())
	if !ok {
		http.Error(w, "não autenticado", http.StatusUnauthorized)
		return
	}

	var req criarTarefaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, "payload inválido: "+err.Error(), http.StatusBadRequest)
		return
	}

	// Valida FKs do corpo dentro do tenant
	if err := tenancy.PertenceAoTenantOpcional(h.DB, "leads", req.LeadID, tenantID); err != nil {
		http.Error(w, "Lead não encontrado", http.StatusNotFound)
		return
	}
	if err := tenancy.PertenceAoTenantOpcional(h.DB, "imovels", req.ImovelID, tenantID); err != nil {
		http.Error(w, "Imóvel não encontrado", http.StatusNotFound)
		return
	}
	if err := tenancy.PertenceAoTenantOpcional(h.DB, "negocios", req.NegocioID, tenantID); err != nil {
		http.Error(w, "Negócio não encontrado", http.StatusNotFound)
		return
	}
	atribuido := userID
	if req.AtribuidoA != nil {
		if err := tenancy.PertenceAoTenant(h.DB, "usuarios", *req.AtribuidoA, tenantID); err != nil {
			http.Error(w, "Usuário não encontrado", http.StatusNotFound)
			return
		}
		atribuido = *req.AtribuidoA
	}

	if req.Prioridade == "" {
		req.Prioridade = "medium"
	}

	t := Tarefa{
		TenantID:   tenantID,
		CriadoPor:  userID,
		AtribuidoA: atribuido,
		LeadID:     req.LeadID,
		ImovelID:   req.ImovelID,
		NegocioID:  req.NegocioID,
		Titulo:     req.Titulo,
		Descricao:  req.Descricao,
		Vencimento: req.Vencimento,
		Prioridade: req.Prioridade,
		Status:     StatusPendente,
	}
	if err := h.Repository.Salvar(h.DB, &t); err != nil {
		http.Error(w, "Erro ao criar tarefa", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{"id": t.ID, "mensagem": "Tarefa criada"})
}

// AtualizarStatus trata PATCH /tarefas/{id}/status
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
			http.Error(w, "Tarefa não encontrada", http.StatusNotFound)
			return
		}
		http.Error(w, "Erro ao atualizar tarefa", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"mensagem": "Status atualizado"})
}

// Deletar trata DELETE /tarefas/{id}
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
			http.Error(w, "Tarefa não encontrada", http.StatusNotFound)
			return
		}
		http.Error(w, "Erro ao remover tarefa", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"mensagem": "Tarefa removida"})
}
