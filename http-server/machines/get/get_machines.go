package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"production-ledger/internal/storage"
)

type Machines interface {
	ListMachines(ctx context.Context) ([]storage.Machine, error)
}

func GetMachines(log *slog.Logger, machines Machines) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.machines.get.GetMachines"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		list, err := machines.ListMachines(ctx)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("failed to list machines")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		if list == nil {
			list = []storage.Machine{}
		}

		render.JSON(w, r, list)
	}
}
