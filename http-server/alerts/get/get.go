package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"production-ledger/internal/service/alerts"
)

type AlertFeed interface {
	Alerts(ctx context.Context) ([]alerts.Alert, error)
}

func GetAlerts(log *slog.Logger, feed AlertFeed) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.alerts.get.GetAlerts"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		list, err := feed.Alerts(ctx)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("failed to aggregate alerts")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		if list == nil {
			list = []alerts.Alert{}
		}

		render.JSON(w, r, list)
	}
}
