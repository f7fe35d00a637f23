package imovel

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/leadcontrol/api-crm/internal/atividade"
	"github.com/leadcontrol/api-crm/internal/auth"
	"github.com/leadcontrol/api-crm/internal/tenancy"
	"gorm.io/gorm"
)

var validate = validator.New()

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

// Listar trata GET /imoveis
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
		Tipo:       q.Get("tipo"),
		Finalidade: q.Get("finalidade"),
		Status:     q.Get("status"),
		Busca:      q.Get("busca"),
		Pagina:     pagina,
		Limite:     limite,
	}

	list, total, err := h.Repository.Listar(h.DB, tenantID, f)
	if err != nil {
		http.Error(w, "Erro ao listar imóveis", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"imoveis": list, "total": total})
}

// Mapa trata GET /imoveis/mapa: só ativos com coordenadas.
func (h *Handler) Mapa(w http.ResponseWriter, r *http.Request) {
	_, tenantID, ok := auth.UsuarioDoContexto(r.Context())
	if !ok {
		http.Error(w, "não autenticado", http.StatusUnauthorized)
		return
	}

	list, err := h.Repository.ListarGeolocalizados(h.DB, tenantID)
	if err != nil {
		http.Error(w, "Erro ao carregar mapa", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(list)
}

// BuscarPorID trata GET /imoveis/{id}
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

	i, err := h.Repository.BuscarPorID(h.DB, tenantID, uint(id))
	if err != nil {
		http.Error(w, "Imóvel não encontrado", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(i)
}

// Criar trata POST /imoveis
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	userID, tenantID, ok := auth.UsuarioDoContexto(r.Context())
	if !ok {
		http.Error(w, "não autenticado", http.StatusUnauthorized)
		return
	}

	var dto imovelCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(dto); err != nil {
		http.Error(w, "payload inválido: "+err.Error(), http.StatusBadRequest)
		return
	}

	if dto.Status == "" {
		dto.Status = StatusAtivo
	}
	if dto.Imagens == nil {
		dto.Imagens = []string{}
	}
	if dto.Comodidades == nil {
		dto.Comodidades = []string{}
	}

	i := Imovel{
		TenantID:    tenantID,
		AgenteID:    userID,
		Titulo:      dto.Titulo,
		Tipo:        dto.Tipo,
		Finalidade:  dto.Finalidade,
		Preco:       dto.Preco,
		Area:        dto.Area,
		Quartos:     dto.Quartos,
		Banheiros:   dto.Banheiros,
		Vagas:       dto.Vagas,
		Endereco:    dto.Endereco,
		Bairro:      dto.Bairro,
		Cidade:      dto.Cidade,
		Estado:      dto.Estado,
		Descricao:   dto.Descricao,
		Status:      dto.Status,
		Destaque:    dto.Destaque,
		Imagens:     dto.Imagens,
		Comodidades: dto.Comodidades,
		Latitude:    dto.Latitude,
		Longitude:   dto.Longitude,
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := h.Repository.Salvar(tx, &i); err != nil {
			return err
		}
		imovelID := i.ID
		return h.Atividades.Registrar(tx, &atividade.Atividade{
			TenantID:  tenantID,
			UsuarioID: userID,
			ImovelID:  &imovelID,
			Tipo:      "property_created",
			Descricao: fmt.Sprintf("Imóvel %q cadastrado", i.Titulo),
		})
	})
	if err != nil {
		http.Error(w, "Erro ao criar imóvel", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{"id": i.ID, "mensagem": "Imóvel cadastrado com sucesso"})
}

// Atualizar trata PUT /imoveis/{id}
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

	var dto imovelUpdateDTO
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
		http.Error(w, "Imóvel não encontrado", http.StatusNotFound)
		return
	}

	if dto.Status == "" {
		dto.Status = StatusAtivo
	}
	existente.Titulo = dto.Titulo
	existente.Tipo = dto.Tipo
	existente.Finalidade = dto.Finalidade
	existente.Preco = dto.Preco
	existente.Area = dto.Area
	existente.Quartos = dto.Quartos
	existente.Banheiros = dto.Banheiros
	existente.Vagas = dto.Vagas
	existente.Endereco = dto.Endereco
	existente.Bairro = dto.Bairro
	existente.Cidade = dto.Cidade
	existente.Estado = dto.Estado
	existente.Descricao = dto.Descricao
	existente.Status = dto.Status
	existente.Destaque = dto.Destaque
	if dto.Imagens != nil {
		existente.Imagens = dto.Imagens
	}
	if dto.Comodidades != nil {
		existente.Comodidades = dto.Comodidades
	}

	if err := h.Repository.Salvar(h.DB, existente); err != nil {
		http.Error(w, "Erro ao atualizar imóvel", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"mensagem": "Imóvel atualizado com sucesso"})
}

// Deletar trata DELETE /imoveis/{id}, remoção lógica
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
			http.Error(w, "Imóvel não encontrado", http.StatusNotFound)
			return
		}
		http.Error(w, "Erro ao remover imóvel", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"mensagem": "Imóvel removido"})
}
