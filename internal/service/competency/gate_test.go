package competency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"production-ledger/internal/storage"
)

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name     string
		operator int
		machine  int
		allowed  bool
		required int
	}{
		{name: "below minimum", operator: 1, machine: 3, allowed: false, required: 3},
		{name: "equal to minimum", operator: 3, machine: 3, allowed: true, required: 3},
		{name: "above minimum", operator: 4, machine: 2, allowed: true, required: 2},
		{name: "no minimum configured", operator: 0, machine: 0, allowed: true, required: 0},
		{name: "negative minimum treated as zero", operator: 0, machine: -2, allowed: true, required: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Authorize(
				storage.Operator{ID: "OP-1", CompetencyLevel: tt.operator},
				storage.Machine{ID: "M-1", MinCompetencyLevel: tt.machine},
			)

			assert.Equal(t, tt.allowed, d.Allowed)
			assert.Equal(t, tt.required, d.RequiredLevel)
			assert.Equal(t, tt.operator, d.ActualLevel)
		})
	}
}

func TestAuthorize_DeniesIffMinimumExceedsLevel(t *testing.T) {
	for op := 0; op <= 5; op++ {
		for min := 0; min <= 5; min++ {
			d := Authorize(storage.Operator{CompetencyLevel: op}, storage.Machine{MinCompetencyLevel: min})
			assert.Equal(t, min <= op, d.Allowed, "operator=%d machine=%d", op, min)
		}
	}
}
