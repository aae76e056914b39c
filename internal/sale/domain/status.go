package domain

// DealStatus is where a sale sits in its lifecycle. The normal path is
// a straight line; nothing skips a state and commission_paid is final.
type DealStatus string

const (
	StatusDraft          DealStatus = "draft"
	StatusInvoiced       DealStatus = "invoiced"
	StatusPaid           DealStatus = "paid"
	StatusLocked         DealStatus = "locked"
	StatusCommissionPaid DealStatus = "commission_paid"
)

// transitions is the fixed table; there is no dynamic configuration.
var transitions = map[DealStatus][]DealStatus{
	StatusDraft:          {StatusInvoiced},
	StatusInvoiced:       {StatusPaid},
	StatusPaid:           {StatusLocked},
	StatusLocked:         {StatusCommissionPaid},
	StatusCommissionPaid: {},
}

// IsValidStatus reports whether s is a known DealStatus.
func IsValidStatus(s DealStatus) bool {
	_, ok := transitions[s]
	return ok
}

// CanTransition reports whether current → next is in the table.
// Self-loops and skips are not.
func CanTransition(current, next DealStatus) bool {
	for _, allowed := range transitions[current] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ValidNextStatuses returns the statuses reachable from current.
func ValidNextStatuses(current DealStatus) []DealStatus {
	allowed := transitions[current]
	out := make([]DealStatus, len(allowed))
	copy(out, allowed)
	return out
}

// IsTerminal is true iff the status has no outgoing transitions.
func IsTerminal(status DealStatus) bool {
	return len(transitions[status]) == 0
}
