package authorize

import "production-ledger/internal/storage"

type Outcome string

const (
	Approved               Outcome = "approved"
	RejectedSkillGap       Outcome = "rejected_skill_gap"
	RejectedQualityHold    Outcome = "rejected_quality_hold"
	RejectedNotFAIApproved Outcome = "rejected_not_fai_approved"
	MachineBusy            Outcome = "machine_busy"
	WorkOrderNotPending    Outcome = "work_order_not_pending"
	Failed                 Outcome = "failed"
)

// Remediation tells the operator what to do next.
type Remediation string

const (
	RemediationNone         Remediation = ""
	RemediationTraining     Remediation = "request_training"
	RemediationOpenCAPA     Remediation = "open_capa"
	RemediationCompleteFAI  Remediation = "complete_fai"
	RemediationOtherMachine Remediation = "choose_other_machine"
	RemediationOtherOrder   Remediation = "choose_other_work_order"
	RemediationRetry        Remediation = "retry"
)

// IsPolicyRejection reports the expected, user-facing rejections.
func (o Outcome) IsPolicyRejection() bool {
	switch o {
	case RejectedSkillGap, RejectedQualityHold, RejectedNotFAIApproved:
		return true
	}
	return false
}

type Request struct {
	OperatorID  string `json:"operator_id"`
	MachineID   string `json:"machine_id"`
	WorkOrderID string `json:"work_order_id"`
}

type Decision struct {
	Outcome     Outcome     `json:"outcome"`
	Remediation Remediation `json:"remediation,omitempty"`
	Reason      string      `json:"reason,omitempty"`

	// RejectedSkillGap
	RequiredLevel int `json:"required_level,omitempty"`
	ActualLevel   int `json:"actual_level,omitempty"`

	// RejectedQualityHold / RejectedNotFAIApproved
	PartNumber string            `json:"part_number,omitempty"`
	FAIStatus  storage.FAIStatus `json:"fai_status,omitempty"`

	// MachineBusy
	MachineStatus storage.MachineStatus `json:"machine_status,omitempty"`

	// WorkOrderNotPending
	WorkOrderStatus storage.WorkOrderStatus `json:"work_order_status,omitempty"`

	// Approved
	LedgerEntryID string `json:"ledger_entry_id,omitempty"`
	TraceID       string `json:"trace_id,omitempty"`
}
