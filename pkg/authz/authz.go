package authz

// Capability is a named permission the oracle can grant or deny to an actor.
type Capability string

const (
	CapCreateTask            Capability = "create:task"
	CapEditTask              Capability = "edit:task"
	CapDeleteTask            Capability = "delete:task"
	CapCompleteTask          Capability = "complete:task"
	CapAcceptRecommendation  Capability = "accept:recommendation"
	CapDismissRecommendation Capability = "dismiss:recommendation"
	CapExportData            Capability = "export:data"
	CapApproveAction         Capability = "approve:action"
	CapRejectAction          Capability = "reject:action"
	CapViewPendingApprovals  Capability = "view:pendingApprovals"
)

// Oracle answers whether an actor may perform a capability. Implementations
// must be synchronous and side-effect free; the caller never inspects the
// policy itself.
type Oracle interface {
	Allow(actor string, cap Capability) bool
}

// AllowAll grants every capability. Used when no policy backend is configured;
// absence of RBAC is a permissive oracle, not a conditional branch.
type AllowAll struct{}

func (AllowAll) Allow(string, Capability) bool { return true }

// DenyAll refuses every capability.
type DenyAll struct{}

func (DenyAll) Allow(string, Capability) bool { return false }
