package resolve

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"production-ledger/internal/service/alerts"
)

type AlertResolver interface {
	Resolve(ctx context.Context, alertID string) (alerts.ResolveResult, error)
}

func ResolveAlert(log *slog.Logger, resolver AlertResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.alerts.resolve.ResolveAlert"

		alertID := chi.URLParam(r, "id")
		if alertID == "" {
			http.Error(w, "Missing alert id", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		result, err := resolver.Resolve(ctx, alertID)
		if err != nil {
			if errors.Is(err, alerts.ErrAlertNotFound) {
				http.Error(w, "Alert not found", http.StatusNotFound)
				return
			}
			log.Error("failed to resolve alert", slog.String("op", op), slog.String("alert_id", alertID), slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		switch result.Status {
		case alerts.Resolved:
			log.Info("maintenance alert resolved", slog.String("alert_id", alertID), slog.String("entry_id", result.EntryID))
		case alerts.AlreadyResolved:
			render.Status(r, http.StatusConflict)
		case alerts.NotResolvable:
			render.Status(r, http.StatusUnprocessableEntity)
		}

		render.JSON(w, r, result)
	}
}
