package dashboard

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/leadcontrol/api-crm/internal/atividade"
	"github.com/leadcontrol/api-crm/internal/auth"
	"gorm.io/gorm"
)

var mesesCurtos = [...]string{"jan", "fev", "mar", "abr", "mai", "jun", "jul", "ago", "set", "out", "nov", "dez"}

type pontoMensal struct {
	Mes   string  `json:"mes"`
	Valor float64 `json:"valor"`
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

// Stats trata GET /dashboard/stats: KPIs do mês, resumo do funil, leads
// quentes e o gráfico dos últimos seis meses.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	_, tenantID, ok := auth.UsuarioDoContexto(r.Context())
	if !ok {
		http.Error(w, "não autenticado", http.StatusUnauthorized)
		return
	}

	agora := time.Now()
	inicioMes := time.Date(agora.Year(), agora.Month(), 1, 0, 0, 0, 0, agora.Location())
	inicioMesAnterior := inicioMes.AddDate(0, -1, 0)
	fimMesAnterior := inicioMes.Add(-time.Second)

	vgv, err := h.Repository.SomaNegociosAbertos(h.DB, tenantID, &inicioMes, nil)
	if err != nil {
		http.Error(w, "Erro ao carregar dashboard", http.StatusInternalServerError)
		return
	}
	vgvAnterior, err := h.Repository.SomaNegociosAbertos(h.DB, tenantID, &inicioMesAnterior, &fimMesAnterior)
	if err != nil {
		http.Error(w, "Erro ao carregar dashboard", http.StatusInternalServerError)
		return
	}
	leadsAtivos, err := h.Repository.ContarLeadsAtivos(h.DB, tenantID, nil)
	if err != nil {
		http.Error(w, "Erro ao carregar dashboard", http.StatusInternalServerError)
		return
	}
	leadsAtivosAnterior, err := h.Repository.ContarLeadsAtivos(h.DB, tenantID, &inicioMes)
	if err != nil {
		http.Error(w, "Erro ao carregar dashboard", http.StatusInternalServerError)
		return
	}
	totalImoveis, err := h.Repository.ContarImoveisAtivos(h.DB, tenantID)
	if err != nil {
		http.Error(w, "Erro ao carregar dashboard", http.StatusInternalServerError)
		return
	}
	visitas, err := h.Repository.ContarVisitasAgendadas(h.DB, tenantID, inicioMes)
	if err != nil {
		http.Error(w, "Erro ao carregar dashboard", http.StatusInternalServerError)
		return
	}
	tarefasPendentes, err := h.Repository.ContarTarefasPendentes(h.DB, tenantID)
	if err != nil {
		http.Error(w, "Erro ao carregar dashboard", http.StatusInternalServerError)
		return
	}
	negociosGanhos, err := h.Repository.ContarNegociosGanhos(h.DB, tenantID, inicioMes)
	if err != nil {
		http.Error(w, "Erro ao carregar dashboard", http.StatusInternalServerError)
		return
	}
	valorPipeline, err := h.Repository.SomaNegociosAbertos(h.DB, tenantID, nil, nil)
	if err != nil {
		http.Error(w, "Erro ao carregar dashboard", http.StatusInternalServerError)
		return
	}

	atividades, err := h.Atividades.ListarRecentes(h.DB, tenantID, 10)
	if err != nil {
		http.Error(w, "Erro ao carregar dashboard", http.StatusInternalServerError)
		return
	}
	destaques, err := h.Repository.ImoveisDestaque(h.DB, tenantID, 5)
	if err != nil {
		http.Error(w, "Erro ao carregar dashboard", http.StatusInternalServerError)
		return
	}
	leadsQuentes, err := h.Repository.LeadsQuentes(h.DB, tenantID, 5)
	if err != nil {
		http.Error(w, "Erro ao carregar dashboard", http.StatusInternalServerError)
		return
	}
	resumoPipeline, err := h.Repository.ResumoPipeline(h.DB, tenantID)
	if err != nil {
		http.Error(w, "Erro ao carregar dashboard", http.StatusInternalServerError)
		return
	}

	grafico := make([]pontoMensal, 0, 6)
	for i := 5; i >= 0; i-- {
		inicio := inicioMes.AddDate(0, -i, 0)
		fim := inicio.AddDate(0, 1, 0).Add(-time.Second)
		valor, err := h.Repository.SomaNegociosCriados(h.DB, tenantID, inicio, fim)
		if err != nil {
			http.Error(w, "Erro ao carregar dashboard", http.StatusInternalServerError)
			return
		}
		grafico = append(grafico, pontoMensal{
			Mes:   mesesCurtos[inicio.Month()-1],
			Valor: valor,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"vgv":                 vgv,
		"vgvAnterior":         vgvAnterior,
		"leadsAtivos":         leadsAtivos,
		"leadsAtivosAnterior": leadsAtivosAnterior,
		"totalImoveis":        totalImoveis,
		"visitas":             visitas,
		"tarefasPendentes":    tarefasPendentes,
		"negociosGanhos":      negociosGanhos,
		"valorPipeline":       valorPipeline,
		"atividades":          atividades,
		"imoveisDestaque":     destaques,
		"leadsQuentes":        leadsQuentes,
		"pipeline":            resumoPipeline,
		"graficoMensal":       grafico,
	})
}
