package main

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	getalerts "production-ledger/http-server/alerts/get"
	resolvealert "production-ledger/http-server/alerts/resolve"
	getevm "production-ledger/http-server/evm/get"
	getfai "production-ledger/http-server/fai/get"
	updatefai "production-ledger/http-server/fai/update"
	generate_excel "production-ledger/http-server/generate-report/generate-excel"
	getmachines "production-ledger/http-server/machines/get"
	updatemachine "production-ledger/http-server/machines/update"
	"production-ledger/http-server/production/complete"
	"production-ledger/http-server/production/start"
	gettrace "production-ledger/http-server/traceability/get"
	"production-ledger/internal/config"
	"production-ledger/internal/middleware/auth"
)

func routes(cfg config.Config, log *slog.Logger, st store, svc services) *chi.Mux {
	router := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	router.Use(corsHandler.Handler)
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Post("/api/production/start", start.StartProduction(log, svc.authorize))
	router.Post("/api/production/complete", complete.CompleteJob(log, svc.authorize))

	router.Get("/api/projects/{id}/evm", getevm.GetProjectEVM(log, svc.evm))

	router.Get("/api/alerts", getalerts.GetAlerts(log, svc.alerts))
	router.Post("/api/alerts/{id}/resolve", resolvealert.ResolveAlert(log, svc.alerts))

	router.Get("/api/traceability", gettrace.GetTraceability(log, svc.authorize))
	router.Get("/api/machines", getmachines.GetMachines(log, st))
	router.Get("/api/fai/{partNumber}", getfai.GetFAIHistory(log, st))

	router.Get("/api/report/ledger.xlsx", generate_excel.GenerateReportExcel(log, svc.report))

	adminRouter := chi.NewRouter()
	adminRouter.Use(auth.BasicAuth(cfg.AdminLogin, cfg.AdminPass))
	adminRouter.Put("/fai/{partNumber}", updatefai.RecordFAIStatusAdmin(log, st))
	adminRouter.Put("/machines/{id}/status", updatemachine.UpdateMachineStatusAdmin(log, st))

	router.Mount("/api/admin", adminRouter)

	return router
}
