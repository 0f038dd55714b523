// Package competency decides whether an operator's certified skill tier is
// enough to run a machine.
package competency

import "production-ledger/internal/storage"

type Decision struct {
	Allowed       bool `json:"allowed"`
	RequiredLevel int  `json:"required_level"`
	ActualLevel   int  `json:"actual_level"`
}

// Authorize denies only when the machine's minimum exceeds the operator's
// level. A machine without a configured minimum (zero or negative) admits
// everyone.
func Authorize(operator storage.Operator, machine storage.Machine) Decision {
	required := machine.MinCompetencyLevel
	if required < 0 {
		required = 0
	}

	return Decision{
		Allowed:       required <= operator.CompetencyLevel,
		RequiredLevel: required,
		ActualLevel:   operator.CompetencyLevel,
	}
}
