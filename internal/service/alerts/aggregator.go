// Package alerts merges machine faults, open critical/major NCRs and
// predicted maintenance into one ranked feed.
package alerts

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"production-ledger/internal/storage"
)

type Kind string

const (
	KindMachine     Kind = "machine"
	KindNCR         Kind = "ncr"
	KindMaintenance Kind = "maintenance"
)

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityMajor    Severity = "major"
	SeverityWarning  Severity = "warning"
)

type Alert struct {
	SourceID       string           `json:"source_id"`
	Kind           Kind             `json:"kind"`
	Severity       Severity         `json:"severity"`
	Message        string           `json:"message"`
	MachineID      string           `json:"machine_id,omitempty"`
	PartNumber     string           `json:"part_number,omitempty"`
	ProjectID      string           `json:"project_id,omitempty"`
	CostIfResolved *decimal.Decimal `json:"cost_if_resolved,omitempty"`

	rank  int
	dueAt int64
}

// Ranks, lowest first. A machine error means production has stopped.
const (
	rankMachineError = iota
	rankCriticalNCR
	rankMajorNCR
	rankMaintenance
)

// Aggregate builds the ordered, deduplicated alert feed. When two signals
// share a source id the higher-priority one is kept.
func Aggregate(machines []storage.Machine, issues []storage.Issue, maintenance []storage.MaintenanceTask) []Alert {
	bySource := make(map[string]Alert)
	add := func(a Alert) {
		if cur, ok := bySource[a.SourceID]; ok && cur.rank <= a.rank {
			return
		}
		bySource[a.SourceID] = a
	}

	for _, m := range machines {
		if m.Status != storage.MachineError {
			continue
		}
		msg := fmt.Sprintf("Machine %s is in error state", m.Name)
		if m.FaultMessage != "" {
			msg += ": " + m.FaultMessage
		}
		add(Alert{
			SourceID:  m.ID,
			Kind:      KindMachine,
			Severity:  SeverityCritical,
			Message:   msg,
			MachineID: m.ID,
			rank:      rankMachineError,
		})
	}

	for _, i := range issues {
		if i.Status != storage.IssueOpen {
			continue
		}
		var (
			rank     int
			severity Severity
		)
		switch i.Severity {
		case storage.SeverityCritical:
			rank, severity = rankCriticalNCR, SeverityCritical
		case storage.SeverityMajor:
			rank, severity = rankMajorNCR, SeverityMajor
		default:
			continue
		}
		add(Alert{
			SourceID:   i.ID,
			Kind:       KindNCR,
			Severity:   severity,
			Message:    fmt.Sprintf("NCR %s on %s: %s", i.ID, i.PartNumber, i.Title),
			PartNumber: i.PartNumber,
			rank:       rank,
		})
	}

	for _, t := range maintenance {
		cost := t.Cost
		add(Alert{
			SourceID:       t.ID,
			Kind:           KindMaintenance,
			Severity:       SeverityWarning,
			Message:        fmt.Sprintf("Predicted maintenance on %s: %s", t.MachineID, t.Description),
			MachineID:      t.MachineID,
			ProjectID:      t.ProjectID,
			CostIfResolved: &cost,
			rank:           rankMaintenance,
			dueAt:          t.DueAt.Unix(),
		})
	}

	feed := make([]Alert, 0, len(bySource))
	for _, a := range bySource {
		feed = append(feed, a)
	}

	sort.Slice(feed, func(i, j int) bool {
		a, b := feed[i], feed[j]
		if a.rank != b.rank {
			return a.rank < b.rank
		}
		if a.dueAt != b.dueAt {
			return a.dueAt < b.dueAt
		}
		return a.SourceID < b.SourceID
	})

	return feed
}
