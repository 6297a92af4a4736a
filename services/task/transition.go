package task

import "idops-controlplane/pkg/authz"

// allowedTransition reports whether the state machine permits from -> to.
//
//	pending     -> in-progress (start), completed (complete)
//	in-progress -> pending (pause), completed (complete)
//	completed   -> pending (reopen)
func allowedTransition(from, to Status) bool {
	switch from {
	case StatusPending:
		return to == StatusInProgress || to == StatusCompleted
	case StatusInProgress:
		return to == StatusPending || to == StatusCompleted
	case StatusCompleted:
		return to == StatusPending
	default:
		return false
	}
}

// transitionCapability maps a transition to the capability the oracle must
// grant. Completing and reopening both require complete:task; pause/start are
// plain edits.
func transitionCapability(from, to Status) authz.Capability {
	if to == StatusCompleted || from == StatusCompleted {
		return authz.CapCompleteTask
	}
	return authz.CapEditTask
}

// bulkCapability is the single capability checked for a whole bulk batch.
// Items whose individual transition needs a different capability (reopening
// a completed task under a pending-target batch) are skipped, not escalated.
func bulkCapability(to Status) authz.Capability {
	if to == StatusCompleted {
		return authz.CapCompleteTask
	}
	return authz.CapEditTask
}
