package storage

import "time"

type FAIStatus string

const (
	FAIPlanned    FAIStatus = "planned"
	FAIInProgress FAIStatus = "in_progress"
	FAICompleted  FAIStatus = "completed"
	FAIApproved   FAIStatus = "approved"
	FAIRejected   FAIStatus = "rejected"
)

func (s FAIStatus) Valid() bool {
	switch s {
	case FAIPlanned, FAIInProgress, FAICompleted, FAIApproved, FAIRejected:
		return true
	}
	return false
}

// FAIRecord is one First Article Inspection write for a part number. The
// record with the highest Seq governs the part.
type FAIRecord struct {
	Seq        int64     `json:"seq"`
	PartNumber string    `json:"part_number"`
	Status     FAIStatus `json:"status"`
	Note       string    `json:"note,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

func (r FAIRecord) ProductionLocked() bool {
	return r.Status != FAIApproved
}
