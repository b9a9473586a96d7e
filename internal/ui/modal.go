// Package ui implements the client-side state and synchronization model:
// modal state machines that validate before submitting, and page containers
// that own their entity lists and replace them wholesale after mutations.
package ui

// Phase is the lifecycle of a modal instance:
//
//	Closed → Open → Submitting → Closed   (success)
//	                          ↘ Open      (failure, error shown, fields kept)
type Phase int

const (
	PhaseClosed Phase = iota
	PhaseOpen
	PhaseSubmitting
)

func (p Phase) String() string {
	switch p {
	case PhaseOpen:
		return "open"
	case PhaseSubmitting:
		return "submitting"
	default:
		return "closed"
	}
}

// ModalKind identifies which modal a container is showing. Containers keep
// at most one open at a time.
type ModalKind string

const (
	ModalNone        ModalKind = ""
	ModalGoalForm    ModalKind = "goal_form"
	ModalBudgetForm  ModalKind = "budget_form"
	ModalTransaction ModalKind = "transaction"
	ModalReceipt     ModalKind = "receipt"
	ModalMembers     ModalKind = "members"
)
