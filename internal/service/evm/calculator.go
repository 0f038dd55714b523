// Package evm computes earned-value indicators for a project. Actual cost
// always comes from the ledger at read time.
package evm

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput is a contract violation: every input must be a finite,
// non-negative number.
var ErrInvalidInput = errors.New("evm input must be finite and non-negative")

type Result struct {
	CV  float64  `json:"cv"`
	SV  float64  `json:"sv"`
	CPI *float64 `json:"cpi"`
	SPI *float64 `json:"spi"`

	// CPIEff is the index used for forecasting: CPI, or 1 when AC is zero.
	CPIEff        float64 `json:"cpi_eff"`
	EAC           float64 `json:"eac"`
	VAC           float64 `json:"vac"`
	LowConfidence bool    `json:"low_confidence"`
	IsOverBudget  bool    `json:"is_over_budget"`
}

func Compute(pv, ev, ac, bac float64) (Result, error) {
	const op = "service.evm.Compute"

	inputs := []struct {
		name  string
		value float64
	}{{"pv", pv}, {"ev", ev}, {"ac", ac}, {"bac", bac}}
	for _, in := range inputs {
		if math.IsNaN(in.value) || math.IsInf(in.value, 0) || in.value < 0 {
			return Result{}, fmt.Errorf("%s: %s=%v: %w", op, in.name, in.value, ErrInvalidInput)
		}
	}

	r := Result{
		CV:     ev - ac,
		SV:     ev - pv,
		CPIEff: 1,
	}

	if ac > 0 {
		cpi := ev / ac
		r.CPI = &cpi
		r.CPIEff = cpi
	} else {
		r.LowConfidence = true
	}

	if pv > 0 {
		spi := ev / pv
		r.SPI = &spi
	}

	if r.CPIEff == 0 {
		// No value earned against a positive AC: fall back to the
		// atypical-variance forecast, EAC = AC + (BAC - EV).
		r.EAC = ac + (bac - ev)
		r.LowConfidence = true
	} else {
		r.EAC = bac / r.CPIEff
	}
	r.VAC = bac - r.EAC
	r.IsOverBudget = r.VAC < 0

	return r, nil
}
