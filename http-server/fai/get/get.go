package get

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"production-ledger/internal/storage"
)

type FAIHistory interface {
	FAIHistory(ctx context.Context, partNumber string) ([]storage.FAIRecord, error)
}

type Response struct {
	PartNumber string              `json:"part_number"`
	Current    storage.FAIRecord   `json:"current"`
	Locked     bool                `json:"production_locked"`
	History    []storage.FAIRecord `json:"history"`
}

// GetFAIHistory lists every FAI record written for a part together with the
// one that currently governs production.
func GetFAIHistory(log *slog.Logger, source FAIHistory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.fai.get.GetFAIHistory"

		partNumber := strings.TrimSpace(chi.URLParam(r, "partNumber"))
		if partNumber == "" {
			http.Error(w, "Missing part number", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		history, err := source.FAIHistory(ctx, partNumber)
		if err != nil {
			log.Error("failed to load FAI history", slog.String("op", op), slog.String("part_number", partNumber), slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		if len(history) == 0 {
			http.Error(w, "No FAI records for part", http.StatusNotFound)
			return
		}

		current := history[0]
		for _, rec := range history[1:] {
			if rec.Seq > current.Seq {
				current = rec
			}
		}

		render.JSON(w, r, Response{
			PartNumber: partNumber,
			Current:    current,
			Locked:     current.ProductionLocked(),
			History:    history,
		})
	}
}
