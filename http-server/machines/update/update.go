package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"production-ledger/internal/storage"
)

type MachineStatusSetter interface {
	SetMachineStatus(ctx context.Context, id string, status storage.MachineStatus, fault string) error
}

type Request struct {
	Status       storage.MachineStatus `json:"status"`
	FaultMessage string                `json:"fault_message"`
}

// UpdateMachineStatusAdmin takes status reports from the machine registry
// feed. Running cannot be set here: only an approved start claims a machine.
func UpdateMachineStatusAdmin(log *slog.Logger, machines MachineStatusSetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.machines.update.UpdateMachineStatusAdmin"

		machineID := chi.URLParam(r, "id")
		if machineID == "" {
			http.Error(w, "Missing machine id", http.StatusBadRequest)
			return
		}

		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Bad request: invalid JSON", http.StatusBadRequest)
			return
		}

		if !req.Status.Valid() || req.Status == storage.MachineRunning {
			http.Error(w, "Status must be idle, error or maintenance", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := machines.SetMachineStatus(ctx, machineID, req.Status, req.FaultMessage); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.Error(w, "Machine not found", http.StatusNotFound)
				return
			}
			log.Error("failed to update machine status", slog.String("op", op), slog.String("machine_id", machineID), slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		log.Info("machine status updated", slog.String("machine_id", machineID), slog.String("status", string(req.Status)))

		render.JSON(w, r, map[string]string{"status": "updated"})
	}
}
