package start

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"production-ledger/internal/service/authorize"
)

type Authorizer interface {
	Start(ctx context.Context, req authorize.Request) (authorize.Decision, error)
}

func StartProduction(log *slog.Logger, auth Authorizer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.production.start.StartProduction"

		var req authorize.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Warn("Invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Bad request: invalid JSON", http.StatusBadRequest)
			return
		}

		decision, err := auth.Start(r.Context(), req)
		if err != nil {
			switch {
			case errors.Is(err, authorize.ErrInvalidRequest):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, authorize.ErrUnknownRequest):
				log.Warn("unknown start request", slog.String("op", op), slog.String("error", err.Error()))
				http.Error(w, "Operator, machine or work order not found", http.StatusNotFound)
			default:
				log.Error("contract violation on production start", slog.String("op", op),
					slog.Any("request", req), slog.String("error", err.Error()))
				http.Error(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		logger := log.With(
			slog.String("op", op),
			slog.String("operator_id", req.OperatorID),
			slog.String("machine_id", req.MachineID),
			slog.String("work_order_id", req.WorkOrderID),
			slog.String("outcome", string(decision.Outcome)),
		)

		switch {
		case decision.Outcome == authorize.Approved:
			logger.Info("production start approved", slog.String("ledger_entry_id", decision.LedgerEntryID))
			render.Status(r, http.StatusOK)
		case decision.Outcome.IsPolicyRejection():
			logger.Info("production start rejected", slog.String("reason", decision.Reason))
			render.Status(r, http.StatusForbidden)
		case decision.Outcome == authorize.MachineBusy:
			logger.Info("machine busy", slog.String("reason", decision.Reason))
			render.Status(r, http.StatusConflict)
		case decision.Outcome == authorize.WorkOrderNotPending:
			logger.Info("work order already started", slog.String("reason", decision.Reason))
			render.Status(r, http.StatusConflict)
		default:
			logger.Warn("production start failed", slog.String("reason", decision.Reason))
			render.Status(r, http.StatusServiceUnavailable)
		}

		render.JSON(w, r, decision)
	}
}
