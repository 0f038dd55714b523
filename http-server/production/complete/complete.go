package complete

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"production-ledger/internal/service/authorize"
	"production-ledger/internal/storage"
)

type JobCompleter interface {
	Complete(ctx context.Context, machineID, operatorID string) (string, error)
}

type Request struct {
	OperatorID string `json:"operator_id"`
	MachineID  string `json:"machine_id"`
}

type Response struct {
	MachineID   string `json:"machine_id"`
	WorkOrderID string `json:"work_order_id"`
}

func CompleteJob(log *slog.Logger, completer JobCompleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.production.complete.CompleteJob"

		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Bad request: invalid JSON", http.StatusBadRequest)
			return
		}

		job, err := completer.Complete(r.Context(), req.MachineID, req.OperatorID)
		if err != nil {
			switch {
			case errors.Is(err, authorize.ErrInvalidRequest):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, authorize.ErrUnknownRequest):
				log.Warn("unknown operator on job completion", slog.String("op", op), slog.String("error", err.Error()))
				http.Error(w, "Operator not found", http.StatusNotFound)
			case errors.Is(err, storage.ErrNotFound):
				http.Error(w, "Machine not found", http.StatusNotFound)
			case errors.Is(err, storage.ErrMachineNotRunning):
				http.Error(w, "Machine is not running a job", http.StatusConflict)
			default:
				log.Error("failed to complete job", slog.String("op", op), slog.String("error", err.Error()))
				http.Error(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		log.Info("job completed", slog.String("machine_id", req.MachineID), slog.String("work_order_id", job))

		render.JSON(w, r, Response{MachineID: req.MachineID, WorkOrderID: job})
	}
}
