package storage

// Project holds the planned figures of a project. Actual cost is not stored
// here; it is always folded from the ledger.
type Project struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	PV   float64 `json:"pv"`
	EV   float64 `json:"ev"`
	BAC  float64 `json:"bac"`
}
