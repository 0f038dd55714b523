package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"production-ledger/internal/service/authorize"
	"production-ledger/internal/storage"
)

type TraceLog interface {
	Traceability(ctx context.Context, filter storage.TraceabilityFilter) ([]storage.TraceabilityEntry, error)
}

func GetTraceability(log *slog.Logger, trace TraceLog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.traceability.get.GetTraceability"

		filter := storage.TraceabilityFilter{
			WorkOrderID: r.URL.Query().Get("work_order_id"),
			PartNumber:  r.URL.Query().Get("part_number"),
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		entries, err := trace.Traceability(ctx, filter)
		if err != nil {
			if errors.Is(err, authorize.ErrInvalidRequest) {
				http.Error(w, "Missing required query parameter 'work_order_id' or 'part_number'", http.StatusBadRequest)
				return
			}
			log.Error("failed to read traceability log", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		if entries == nil {
			entries = []storage.TraceabilityEntry{}
		}

		render.JSON(w, r, entries)
	}
}
