package update

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"production-ledger/internal/storage"
)

type FAIRecorder interface {
	RecordFAIStatus(ctx context.Context, partNumber string, status storage.FAIStatus, note string) (*storage.FAIRecord, error)
}

type Request struct {
	Status storage.FAIStatus `json:"status"`
	Note   string            `json:"note"`
}

// RecordFAIStatusAdmin appends a new FAI record for the part, superseding the
// previous one. Corrective-action workflows use it to lift a quality hold.
func RecordFAIStatusAdmin(log *slog.Logger, recorder FAIRecorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.fai.update.RecordFAIStatusAdmin"

		partNumber := strings.TrimSpace(chi.URLParam(r, "partNumber"))
		if partNumber == "" {
			http.Error(w, "Missing part number", http.StatusBadRequest)
			return
		}

		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Bad request: invalid JSON", http.StatusBadRequest)
			return
		}

		if !req.Status.Valid() {
			http.Error(w, "Unknown FAI status", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		record, err := recorder.RecordFAIStatus(ctx, partNumber, req.Status, req.Note)
		if err != nil {
			log.Error("failed to record FAI status", slog.String("op", op), slog.String("part_number", partNumber), slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		log.Info("FAI status recorded", slog.String("part_number", partNumber), slog.String("status", string(req.Status)))

		render.JSON(w, r, record)
	}
}
