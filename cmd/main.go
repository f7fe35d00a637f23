package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/leadcontrol/api-crm/internal/agendamento"
	"github.com/leadcontrol/api-crm/internal/atividade"
	"github.com/leadcontrol/api-crm/internal/auth"
	"github.com/leadcontrol/api-crm/internal/automacao"
	"github.com/leadcontrol/api-crm/internal/conta"
	"github.com/leadcontrol/api-crm/internal/dashboard"
	"github.com/leadcontrol/api-crm/internal/imovel"
	"github.com/leadcontrol/api-crm/internal/lead"
	"github.com/leadcontrol/api-crm/internal/metrics"
	"github.com/leadcontrol/api-crm/internal/negocio"
	"github.com/leadcontrol/api-crm/internal/notificacao"
	"github.com/leadcontrol/api-crm/internal/pipeline"
	"github.com/leadcontrol/api-crm/internal/tarefa"
	"github.com/leadcontrol/api-crm/internal/tenant"
	"github.com/leadcontrol/api-crm/internal/usuario"
	"github.com/leadcontrol/api-crm/internal/utils/db"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("arquivo .env não encontrado, usando variáveis de ambiente")
	}

	database, err := db.GetDB()
	if err != nil {
		log.Fatal("Erro ao conectar no banco:", err)
	}

	// AutoMigrate para todos os modelos
	if err := database.AutoMigrate(
		&tenant.Tenant{},
		&usuario.Usuario{},
		&pipeline.EstagioPipeline{},
		&lead.Lead{},
		&imovel.Imovel{},
		&negocio.Negocio{},
		&tarefa.Tarefa{},
		&agendamento.Agendamento{},
		&atividade.Atividade{},
		&notificacao.Notificacao{},
		&automacao.Automacao{},
		&automacao.AutomacaoLog{},
		&automacao.Integracao{},
	); err != nil {
		log.Fatal("Erro no AutoMigrate:", err)
	}

	// Handlers
	contaHandler := conta.NewHandler(database)
	usuarioHandler := usuario.NewHandler(database)
	leadHandler := lead.NewHandler(database)
	imovelHandler := imovel.NewHandler(database)
	negocioHandler := negocio.NewHandler(database)
	tarefaHandler := tarefa.NewHandler(database)
	agendamentoHandler := agendamento.NewHandler(database)
	notificacaoHandler := notificacao.NewHandler(database)
	automacaoHandler := automacao.NewHandler(database)
	dashboardHandler := dashboard.NewHandler(database)

	// Scheduler de automações agendadas
	scheduler := automacao.NewScheduler(database, log.Default())
	if err := scheduler.Start(); err != nil {
		log.Fatal("Erro ao iniciar scheduler:", err)
	}
	defer scheduler.Stop()

	// Router
	r := mux.NewRouter()
	r.Use(metrics.Middleware)

	r.HandleFunc("/api/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status":"ok"}`)
	}).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Rotas públicas
	r.HandleFunc("/api/auth/login", contaHandler.Login).Methods("POST")
	r.HandleFunc("/api/auth/register", contaHandler.Registrar).Methods("POST")

	// Rotas autenticadas
	api := r.PathPrefix("/api").Subrouter()
	api.Use(auth.MiddlewareAutenticacao)

	api.HandleFunc("/auth/me", contaHandler.Me).Methods("GET")

	// Usuários (gestão restrita a admin/gestor)
	api.Handle("/usuarios", auth.RequireGestor(http.HandlerFunc(usuarioHandler.Listar))).Methods("GET")
	api.Handle("/usuarios", auth.RequireGestor(http.HandlerFunc(usuarioHandler.Criar))).Methods("POST")
	api.HandleFunc("/usuarios/{id}", usuarioHandler.BuscarPorID).Methods("GET")
	api.Handle("/usuarios/{id}", auth.RequireAdmin(http.HandlerFunc(usuarioHandler.Desativar))).Methods("DELETE")

	// Leads
	api.HandleFunc("/leads", leadHandler.Listar).Methods("GET")
	api.HandleFunc("/leads", leadHandler.Criar).Methods("POST")
	api.HandleFunc("/leads/{id}", leadHandler.BuscarPorID).Methods("GET")
	api.HandleFunc("/leads/{id}", leadHandler.Atualizar).Methods("PUT")
	api.HandleFunc("/leads/{id}", leadHandler.Deletar).Methods("DELETE")
	api.HandleFunc("/leads/{id}/contato", leadHandler.RegistrarContato).Methods("POST")

	// Imóveis
	api.HandleFunc("/imoveis", imovelHandler.Listar).Methods("GET")
	api.HandleFunc("/imoveis", imovelHandler.Criar).Methods("POST")
	api.HandleFunc("/imoveis/mapa", imovelHandler.Mapa).Methods("GET")
	api.HandleFunc("/imoveis/{id}", imovelHandler.BuscarPorID).Methods("GET")
	api.HandleFunc("/imoveis/{id}", imovelHandler.Atualizar).Methods("PUT")
	api.HandleFunc("/imoveis/{id}", imovelHandler.Deletar).Methods("DELETE")

	// Negócios (kanban)
	api.HandleFunc("/negocios", negocioHandler.Kanban).Methods("GET")
	api.HandleFunc("/negocios", negocioHandler.Criar).Methods("POST")
	api.HandleFunc("/negocios/{id}", negocioHandler.Atualizar).Methods("PUT")
	api.HandleFunc("/negocios/{id}", negocioHandler.Deletar).Methods("DELETE")
	api.HandleFunc("/negocios/{id}/estagio", negocioHandler.MoverEstagio).Methods("PATCH")

	// Tarefas
	api.HandleFunc("/tarefas", tarefaHandler.Listar).Methods("GET")
	api.HandleFunc("/tarefas", tarefaHandler.Criar).Methods("POST")
	api.HandleFunc("/tarefas/{id}/status", tarefaHandler.AtualizarStatus).Methods("PATCH")
	api.HandleFunc("/tarefas/{id}", tarefaHandler.Deletar).Methods("DELETE")

	// Agendamentos
	api.HandleFunc("/agendamentos", agendamentoHandler.Listar).Methods("GET")
	api.HandleFunc("/agendamentos", agendamentoHandler.Criar).Methods("POST")
	api.HandleFunc("/agendamentos/{id}/status", agendamentoHandler.AtualizarStatus).Methods("PATCH")
	api.HandleFunc("/agendamentos/{id}", agendamentoHandler.Deletar).Methods("DELETE")

	// Notificações
	api.HandleFunc("/notificacoes", notificacaoHandler.Listar).Methods("GET")
	api.HandleFunc("/notificacoes/lidas", notificacaoHandler.MarcarLidas).Methods("PATCH")

	// Automações e integrações
	api.HandleFunc("/automacoes", automacaoHandler.Listar).Methods("GET")
	api.HandleFunc("/automacoes", automacaoHandler.Criar).Methods("POST")
	api.HandleFunc("/automacoes/integracoes", automacaoHandler.ListarIntegracoes).Methods("GET")
	api.HandleFunc("/automacoes/integracoes/{id}/toggle", automacaoHandler.AlternarIntegracao).Methods("PATCH")
	api.HandleFunc("/automacoes/{id}/toggle", automacaoHandler.Alternar).Methods("PATCH")
	api.HandleFunc("/automacoes/{id}/run", automacaoHandler.Executar).Methods("POST")
	api.HandleFunc("/automacoes/{id}", automacaoHandler.Deletar).Methods("DELETE")

	// Dashboard
	api.HandleFunc("/dashboard/stats", dashboardHandler.Stats).Methods("GET")

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	})

	porta := os.Getenv("PORT")
	if porta == "" {
		porta = "8080"
	}

	fmt.Println("Servidor rodando em http://localhost:" + porta)
	log.Fatal(http.ListenAndServe(":"+porta, c.Handler(r)))
}
