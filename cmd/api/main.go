package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pswandaru/auditguard/internal/api/handlers"
	"github.com/pswandaru/auditguard/internal/api/middleware"
	"github.com/pswandaru/auditguard/internal/assess"
	"github.com/pswandaru/auditguard/internal/jobs/inmemory"
	"github.com/pswandaru/auditguard/internal/logger"
	"github.com/pswandaru/auditguard/internal/metrics"
	"github.com/pswandaru/auditguard/internal/risk"
	"github.com/pswandaru/auditguard/internal/seed"
	"github.com/pswandaru/auditguard/internal/store"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	var (
		port    = flag.String("port", "8080", "HTTP server port")
		apiKey  = flag.String("api-key", os.Getenv("GEMINI_API_KEY"), "Gemini API key (or set GEMINI_API_KEY env)")
		model   = flag.String("model", risk.DefaultModel, "Gemini model for risk scoring")
		timeout = flag.Duration("assess-timeout", assess.DefaultTimeout, "Per-assessment timeout")
		workers = flag.Int("workers", 2, "Assessment worker count")
	)
	flag.Parse()

	log := logger.New()

	if *apiKey == "" {
		log.Warn().Msg("No Gemini API key configured - assessments will fail until GEMINI_API_KEY is set")
	}

	ctx := context.Background()

	// Seed the in-memory working set. State is ephemeral per session.
	txStore := store.New()
	txStore.Seed(seed.Transactions())
	log.Info().Int("transactions", txStore.Len()).Msg("Seeded transaction store")

	metrics.Init(func() float64 {
		return float64(txStore.Summarize().Pending)
	})

	analyzer := risk.NewGeminiAnalyzer(*apiKey, risk.WithModel(*model))
	assessor := assess.NewService(analyzer, txStore, *timeout, log)

	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(100, *workers, jobStore)

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	log.Info().Int("workers", *workers).Msg("Starting assessment workers")
	if err := jobQueue.Start(workerCtx, assessor.Handle); err != nil {
		log.Fatal().Err(err).Msg("Failed to start assessment workers")
	}

	transactionsHandler := handlers.NewTransactionsHandler(txStore, jobQueue, log)
	dashboardHandler := handlers.NewDashboardHandler(txStore, log)
	reportsHandler := handlers.NewReportsHandler(txStore, log)
	jobsHandler := handlers.NewJobsHandler(jobStore, log)

	mux := http.NewServeMux()

	mux.HandleFunc("/api/transactions", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			transactionsHandler.List(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/transactions/", func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/api/transactions/")
		id, action, _ := strings.Cut(rest, "/")
		if id == "" {
			middleware.WriteError(w, http.StatusBadRequest, "Transaction ID is required")
			return
		}

		switch {
		case action == "" && r.Method == http.MethodGet:
			transactionsHandler.Get(w, r, id)
		case action == "assess" && r.Method == http.MethodPost:
			transactionsHandler.Assess(w, r, id)
		case action == "decision" && r.Method == http.MethodPost:
			transactionsHandler.Decide(w, r, id)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/dashboard", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			dashboardHandler.Summary(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/reports/audit.xlsx", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			reportsHandler.XLSX(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/reports/audit.pdf", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			reportsHandler.PDF(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/jobs", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			jobsHandler.List(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/jobs/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			jobID := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
			if jobID == "" {
				middleware.WriteError(w, http.StatusBadRequest, "Job ID is required")
				return
			}
			jobsHandler.Get(w, r, jobID)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Log decisions and merged assessments as they happen so operators can
	// follow the session from the console.
	events, cancelWatch := txStore.Watch(16)
	defer cancelWatch()
	go func() {
		for ev := range events {
			if ev.Kind != store.EventReplaced {
				continue
			}
			entry := log.Debug().
				Str("transaction_id", ev.Transaction.ID).
				Str("status", string(ev.Transaction.Status))
			if ev.Transaction.Assessment != nil {
				entry = entry.Str("risk_level", string(ev.Transaction.Assessment.Level))
			}
			entry.Msg("Transaction updated")
		}
	}()

	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(
					middleware.Auth(mux),
				),
			),
		),
	)

	server := &http.Server{
		Addr:         ":" + *port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", *port).Msg("Starting audit API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	cancelWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping assessment queue")
	}

	log.Info().
		Int("pending", txStore.Summarize().Pending).
		Int("total", txStore.Len()).
		Msg("Server exited")
}
