package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"production-ledger/internal/service/evm"
	"production-ledger/internal/storage"
)

type ProjectEVM interface {
	ProjectEVM(ctx context.Context, projectID string) (*evm.Snapshot, error)
}

func GetProjectEVM(log *slog.Logger, calc ProjectEVM) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.evm.get.GetProjectEVM"

		projectID := chi.URLParam(r, "id")
		if projectID == "" {
			http.Error(w, "Missing project id", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		snapshot, err := calc.ProjectEVM(ctx, projectID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.Error(w, "Project not found", http.StatusNotFound)
				return
			}
			if errors.Is(err, evm.ErrInvalidInput) {
				log.Error("invalid EVM inputs", slog.String("op", op), slog.String("project_id", projectID), slog.String("error", err.Error()))
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}
			log.Error("failed to compute project EVM", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, snapshot)
	}
}
