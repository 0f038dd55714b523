package storage

type MachineStatus string

const (
	MachineIdle        MachineStatus = "idle"
	MachineRunning     MachineStatus = "running"
	MachineError       MachineStatus = "error"
	MachineMaintenance MachineStatus = "maintenance"
)

func (s MachineStatus) Valid() bool {
	switch s {
	case MachineIdle, MachineRunning, MachineError, MachineMaintenance:
		return true
	}
	return false
}

type Machine struct {
	ID                 string        `json:"id"`
	Name               string        `json:"name"`
	MinCompetencyLevel int           `json:"min_competency_level"`
	Status             MachineStatus `json:"status"`
	CurrentJob         *string       `json:"current_job"`
	FaultMessage       string        `json:"fault_message,omitempty"`
}
