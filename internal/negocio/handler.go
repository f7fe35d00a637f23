package negocio

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/leadcontrol/api-crm/internal/auth"
	"github.com/leadcontrol/api-crm/internal/metrics"
	"github.com/leadcontrol/api-crm/internal/tenancy"
	"gorm.io/gorm"
)

var validate = validator.New()

// Handler encapsula DB, repository e a máquina de estados do pipeline
type Handler struct {
	DB         *gorm.DB
	Repository Repository
	Service    *Service
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{
		DB:         db,
		Repository: NewRepository(),
		Service:    NewService(),
	}
}

// Kanban trata GET /negocios: estágios ordenados com seus negócios ativos
func (h *Handler) Kanban(w http.ResponseWriter, r *http.Request) {
	_, tenantID, ok := auth.UsuarioDoContexto(r.Context())
	if !ok {
		http.Error(w, "não autenticado", http.StatusUnauthorized)
		return
	}

	estagios, err := h.Service.Estagios.ListarPorTenant(h.DB, tenantID)
	if err != nil {
		http.Error(w, "Erro ao carregar pipeline", http.StatusInternalServerError)
		return
	}
	negocios, err := h.Repository.ListarAtivos(h.DB, tenantID)
	if err != nil {
		http.Error(w, "Erro ao carregar pipeline", http.StatusInternalServerError)
		return
	}
	totalAberto, err := h.Repository.ValorTotalAberto(h.DB, tenantID)
	if err != nil {
		http.Error(w, "Erro ao carregar pipeline", http.StatusInternalServerError)
		return
	}

	colunas := make([]colunaKanban, 0, len(estagios))
	for _, e := range estagios {
		col := colunaKanban{ID: e.ID, Nome: e.Nome, Cor: e.Cor, Posicao: e.Posicao, Negocios: []Negocio{}}
		for _, n := range negocios {
			if n.EstagioID == e.ID {
				col.Negocios = append(col.Negocios, n)
			}
		}
		colunas = append(colunas, col)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"kanban": colunas, "valorTotal": totalAberto})
}

// Criar trata POST /negocios
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	userID, tenantID, ok := auth.UsuarioDoContexto(r.Context())
	if !ok {
		http.Error(w, "não autenticado", http.StatusUnauthorized)
		return
	}

	var dto negocioCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(dto); err != nil {
		http.Error(w, "payload inválido: "+err.Error(), http.StatusBadRequest)
		return
	}

	// FKs do corpo precisam resolver dentro do tenant
	if err := tenancy.PertenceAoTenantOpcional(h.DB, "leads", dto.LeadID, tenantID); err != nil {
		http.Error(w, "Lead não encontrado", http.StatusNotFound)
		return
	}
	if err := tenancy.PertenceAoTenantOpcional(h.DB, "imovels", dto.ImovelID, tenantID); err != nil {
		http.Error(w, "Imóvel não encontrado", http.StatusNotFound)
		return
	}

	n := Negocio{
		TenantID:      tenantID,
		AgenteID:      userID,
		Titulo:        dto.Titulo,
		LeadID:        dto.LeadID,
		ImovelID:      dto.ImovelID,
		Valor:         dto.Valor,
		Notas:         dto.Notas,
		PrevisaoFecho: dto.PrevisaoFecho,
	}
	if dto.EstagioID != nil {
		n.EstagioID = *dto.EstagioID
	}

	if err := h.Service.Criar(h.DB, &n); err != nil {
		if errors.Is(err, tenancy.ErrNaoEncontrado) {
			http.Error(w, "Estágio não encontrado", http.StatusNotFound)
			return
		}
		http.Error(w, "Erro ao criar negócio", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{"id": n.ID, "mensagem": "Negócio criado com sucesso"})
}

// MoverEstagio trata PATCH /negocios/{id}/estagio
func (h *Handler) MoverEstagio(w http.ResponseWriter, r *http.Request) {
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

	var dto moverEstagioDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(dto); err != nil {
		http.Error(w, "payload inválido: "+err.Error(), http.StatusBadRequest)
		return
	}

	resultado, err := h.Service.MoverEstagio(h.DB, tenantID, userID, uint(id), dto.EstagioID)
	if err != nil {
		if errors.Is(err, tenancy.ErrNaoEncontrado) {
			http.Error(w, "Negócio não encontrado", http.StatusNotFound)
			return
		}
		http.Error(w, "Erro ao mover negócio", http.StatusInternalServerError)
		return
	}

	if resultado.Notificacao != nil {
		metrics.RecordNegocioGanho()
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"mensagem": "Etapa atualizada", "negocio": resultado.Negocio})
}

// Atualizar trata PUT /negocios/{id}
func (h *Handler) Atualizar(w http.ResponseWriter, r *http.Request) {
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

	var dto negocioUpdateDTO
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
		http.Error(w, "Negócio não encontrado", http.StatusNotFound)
		return
	}

	if err := tenancy.PertenceAoTenantOpcional(h.DB, "leads", dto.LeadID, tenantID); err != nil {
		http.Error(w, "Lead não encontrado", http.StatusNotFound)
		return
	}
	if err := tenancy.PertenceAoTenantOpcional(h.DB, "imovels", dto.ImovelID, tenantID); err != nil {
		http.Error(w, "Imóvel não encontrado", http.StatusNotFound)
		return
	}

	existente.Titulo = dto.Titulo
	existente.LeadID = dto.LeadID
	existente.ImovelID = dto.ImovelID
	existente.Valor = dto.Valor
	existente.Notas = dto.Notas
	existente.PrevisaoFecho = dto.PrevisaoFecho
	if err := h.Repository.Salvar(h.DB, existente); err != nil {
		http.Error(w, "Erro ao atualizar negócio", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"mensagem": "Negócio atualizado"})
}

// Deletar trata DELETE /negocios/{id}, remoção lógica
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
			http.Error(w, "Negócio não encontrado", http.StatusNotFound)
			return
		}
		http.Error(w, "Erro ao remover negócio", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"mensagem": "Negócio removido"})
}
