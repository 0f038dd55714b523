package storage

// Operator is a shop-floor operator with a certified competency tier.
type Operator struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	CompetencyLevel int    `json:"competency_level"`
}
