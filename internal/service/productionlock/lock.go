// Package productionlock derives whether a part number may go into series
// production from its latest First Article Inspection record. Parts are
// locked unless the latest record is approved.
package productionlock

import (
	"context"
	"errors"
	"fmt"

	"production-ledger/internal/storage"
)

type Reason string

const (
	ReasonNone        Reason = ""
	ReasonRejected    Reason = "fai_rejected"
	ReasonNotApproved Reason = "fai_not_approved"
	ReasonNoRecord    Reason = "fai_missing"
)

type State struct {
	Locked    bool              `json:"locked"`
	Reason    Reason            `json:"reason,omitempty"`
	FAIStatus storage.FAIStatus `json:"fai_status,omitempty"`
}

// Evaluate maps the latest FAI record (nil when the part was never
// inspected) to a lock state.
func Evaluate(record *storage.FAIRecord) State {
	if record == nil {
		return State{Locked: true, Reason: ReasonNoRecord}
	}

	switch record.Status {
	case storage.FAIApproved:
		return State{Locked: false, FAIStatus: record.Status}
	case storage.FAIRejected:
		return State{Locked: true, Reason: ReasonRejected, FAIStatus: record.Status}
	default:
		return State{Locked: true, Reason: ReasonNotApproved, FAIStatus: record.Status}
	}
}

type FAIRegistry interface {
	GetFAIStatus(ctx context.Context, partNumber string) (*storage.FAIRecord, error)
}

type Lock struct {
	registry FAIRegistry
}

func New(registry FAIRegistry) *Lock {
	return &Lock{registry: registry}
}

// Check returns an error only when the registry could not answer; a part
// with no record is a locked state, not an error.
func (l *Lock) Check(ctx context.Context, partNumber string) (State, error) {
	const op = "service.productionlock.Check"

	record, err := l.registry.GetFAIStatus(ctx, partNumber)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Evaluate(nil), nil
		}
		return State{}, fmt.Errorf("%s: fai lookup for %q: %w", op, partNumber, err)
	}

	return Evaluate(record), nil
}
