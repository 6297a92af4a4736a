package recommendation

import (
	"fmt"

	"idops-controlplane/services/snapshot"
	"idops-controlplane/services/task"
)

// rule inspects the environment snapshot and emits at most one
// recommendation. Thresholds are policy, not incidental; they match the
// remediation playbook the console ships with.
type rule func(snapshot.Snapshot) (Recommendation, bool)

// rules is the fixed, ordered evaluation set. Order matters only for ties
// within a priority; ids must stay stable across releases since sessions key
// dismissals on them.
var rules = []rule{
	disabledUsers,
	inactiveSignins,
	guestRatio,
	mfaCoverage,
	riskyUsers,
	unassignedLicenses,
	inactiveLicenses,
	disabledLicenses,
}

func disabledUsers(s snapshot.Snapshot) (Recommendation, bool) {
	n := s.Users.Disabled
	if n == 0 {
		return Recommendation{}, false
	}
	priority := task.PriorityMedium
	if n > 10 {
		priority = task.PriorityHigh
	}
	return Recommendation{
		ID:          "disabled-users",
		Title:       "Review disabled user accounts",
		Description: fmt.Sprintf("%d disabled accounts still exist in the directory. Remove them or reclaim their licenses.", n),
		Priority:    priority,
		Category:    task.CategoryUsers,
		Action:      "Review accounts",
	}, true
}

func inactiveSignins(s snapshot.Snapshot) (Recommendation, bool) {
	n := s.Users.Inactive
	if n == 0 {
		return Recommendation{}, false
	}
	priority := task.PriorityMedium
	if n > 20 {
		priority = task.PriorityHigh
	}
	return Recommendation{
		ID:          "inactive-signins",
		Title:       "Follow up on inactive sign-ins",
		Description: fmt.Sprintf("%d users have not signed in recently. Confirm they still need access.", n),
		Priority:    priority,
		Category:    task.CategoryUsers,
		Action:      "Check activity",
	}, true
}

func guestRatio(s snapshot.Snapshot) (Recommendation, bool) {
	if s.Users.Total == 0 || s.Users.Guests*100 <= s.Users.Total*30 {
		return Recommendation{}, false
	}
	return Recommendation{
		ID:          "guest-ratio",
		Title:       "Audit guest account share",
		Description: fmt.Sprintf("Guests make up %d of %d accounts, above the 30%% threshold. Review external access.", s.Users.Guests, s.Users.Total),
		Priority:    task.PriorityMedium,
		Category:    task.CategoryAccess,
		Action:      "Audit guests",
	}, true
}

func mfaCoverage(s snapshot.Snapshot) (Recommendation, bool) {
	if s.Users.Total == 0 {
		return Recommendation{}, false
	}
	pct := s.Security.MFAEnabled * 100 / s.Users.Total
	if pct >= 100 {
		return Recommendation{}, false
	}

	priority := task.PriorityMedium
	switch {
	case pct < 50:
		priority = task.PriorityCritical
	case pct < 80:
		priority = task.PriorityHigh
	}
	return Recommendation{
		ID:          "mfa-coverage",
		Title:       "Increase MFA coverage",
		Description: fmt.Sprintf("Only %d%% of users have MFA enabled. Register the remainder.", pct),
		Priority:    priority,
		Category:    task.CategorySecurity,
		Action:      "Enforce MFA",
	}, true
}

func riskyUsers(s snapshot.Snapshot) (Recommendation, bool) {
	n := s.Security.RiskyUsers
	if n == 0 {
		return Recommendation{}, false
	}
	return Recommendation{
		ID:          "risky-users",
		Title:       "Remediate risky users",
		Description: fmt.Sprintf("%d users are flagged as risky. Investigate and reset credentials.", n),
		Priority:    task.PriorityCritical,
		Category:    task.CategorySecurity,
		Action:      "Investigate",
	}, true
}

func unassignedLicenses(s snapshot.Snapshot) (Recommendation, bool) {
	n := s.Licenses.Unassigned
	if n <= 5 {
		return Recommendation{}, false
	}
	return Recommendation{
		ID:          "unassigned-licenses",
		Title:       "Assign or shed unused licenses",
		Description: fmt.Sprintf("%d purchased licenses are unassigned. Assign them or reduce the subscription.", n),
		Priority:    task.PriorityMedium,
		Category:    task.CategoryLicenses,
		Action:      "Reclaim licenses",
	}, true
}

func inactiveLicenses(s snapshot.Snapshot) (Recommendation, bool) {
	n := s.Licenses.Inactive
	if n == 0 {
		return Recommendation{}, false
	}
	priority := task.PriorityMedium
	if n > 10 {
		priority = task.PriorityHigh
	}
	return Recommendation{
		ID:          "inactive-licenses",
		Title:       "Reclaim licenses from inactive users",
		Description: fmt.Sprintf("%d licenses are assigned to inactive users. Reassign them before the next renewal.", n),
		Priority:    priority,
		Category:    task.CategoryLicenses,
		Action:      "Reassign licenses",
	}, true
}

func disabledLicenses(s snapshot.Snapshot) (Recommendation, bool) {
	n := s.Licenses.Disabled
	if n == 0 {
		return Recommendation{}, false
	}
	return Recommendation{
		ID:          "disabled-licenses",
		Title:       "Remove licenses from disabled accounts",
		Description: fmt.Sprintf("%d licenses are still assigned to disabled accounts.", n),
		Priority:    task.PriorityHigh,
		Category:    task.CategoryLicenses,
		Action:      "Remove licenses",
	}, true
}

// baseline is returned when no rule fires, so the console is never empty. Ids
// are stable like rule ids; these track good hygiene rather than a detected
// condition.
var baseline = []Recommendation{
	{
		ID:          "baseline-access-review",
		Title:       "Run a quarterly access review",
		Description: "Confirm every account still maps to an active employee or partner.",
		Priority:    task.PriorityMedium,
		Category:    task.CategoryAccess,
		Action:      "Schedule review",
	},
	{
		ID:          "baseline-mfa-policy",
		Title:       "Document the MFA enrollment policy",
		Description: "Write down who must enroll, with what methods, and the exception process.",
		Priority:    task.PriorityMedium,
		Category:    task.CategorySecurity,
		Action:      "Write policy",
	},
	{
		ID:          "baseline-license-audit",
		Title:       "Audit license assignments",
		Description: "Compare purchased seats against assigned seats and flag the gap.",
		Priority:    task.PriorityMedium,
		Category:    task.CategoryLicenses,
		Action:      "Audit licenses",
	},
	{
		ID:          "baseline-offboarding",
		Title:       "Verify the offboarding checklist",
		Description: "Make sure account disablement and license reclaim are part of offboarding.",
		Priority:    task.PriorityLow,
		Category:    task.CategoryCompliance,
		Action:      "Verify checklist",
	},
	{
		ID:          "baseline-guest-expiry",
		Title:       "Set guest account expiry",
		Description: "Expire guest invitations automatically instead of keeping them indefinitely.",
		Priority:    task.PriorityLow,
		Category:    task.CategoryAccess,
		Action:      "Configure expiry",
	},
}
