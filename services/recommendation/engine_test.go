package recommendation

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"idops-controlplane/services/snapshot"
	"idops-controlplane/services/task"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func byID(recs []Recommendation, id string) *Recommendation {
	for i := range recs {
		if recs[i].ID == id {
			return &recs[i]
		}
	}
	return nil
}

func TestEvaluateIsDeterministic(t *testing.T) {
	engine := NewEngine()
	snap := snapshot.Snapshot{Users: snapshot.Users{Disabled: 12}}

	first := engine.Evaluate(snap)
	second := engine.Evaluate(snap)
	require.Equal(t, first, second)

	rec := byID(first, "disabled-users")
	require.NotNil(t, rec)
	require.Equal(t, task.PriorityHigh, rec.Priority) // 12 > 10
}

func TestDisabledUsersThreshold(t *testing.T) {
	engine := NewEngine()

	rec := byID(engine.Evaluate(snapshot.Snapshot{Users: snapshot.Users{Disabled: 3}}), "disabled-users")
	require.NotNil(t, rec)
	require.Equal(t, task.PriorityMedium, rec.Priority)

	recs := engine.Evaluate(snapshot.Snapshot{Users: snapshot.Users{Total: 5}})
	require.Nil(t, byID(recs, "disabled-users"))
}

func TestInactiveSigninsThreshold(t *testing.T) {
	engine := NewEngine()

	rec := byID(engine.Evaluate(snapshot.Snapshot{Users: snapshot.Users{Inactive: 21}}), "inactive-signins")
	require.NotNil(t, rec)
	require.Equal(t, task.PriorityHigh, rec.Priority)

	rec = byID(engine.Evaluate(snapshot.Snapshot{Users: snapshot.Users{Inactive: 20}}), "inactive-signins")
	require.NotNil(t, rec)
	require.Equal(t, task.PriorityMedium, rec.Priority)
}

func TestGuestRatioThreshold(t *testing.T) {
	engine := NewEngine()

	recs := engine.Evaluate(snapshot.Snapshot{Users: snapshot.Users{Total: 100, Guests: 31}})
	require.NotNil(t, byID(recs, "guest-ratio"))

	recs = engine.Evaluate(snapshot.Snapshot{Users: snapshot.Users{Total: 100, Guests: 30}})
	require.Nil(t, byID(recs, "guest-ratio"))
}

func TestMFACoverageTiers(t *testing.T) {
	engine := NewEngine()

	cases := []struct {
		enabled  int
		priority task.Priority
	}{
		{40, task.PriorityCritical},
		{60, task.PriorityHigh},
		{90, task.PriorityMedium},
	}
	for _, tc := range cases {
		snap := snapshot.Snapshot{
			Users:    snapshot.Users{Total: 100},
			Security: snapshot.Security{MFAEnabled: tc.enabled},
		}
		rec := byID(engine.Evaluate(snap), "mfa-coverage")
		require.NotNil(t, rec)
		require.Equal(t, tc.priority, rec.Priority)
	}

	full := snapshot.Snapshot{
		Users:    snapshot.Users{Total: 100},
		Security: snapshot.Security{MFAEnabled: 100},
	}
	require.Nil(t, byID(engine.Evaluate(full), "mfa-coverage"))
}

func TestRiskyUsersIsCritical(t *testing.T) {
	engine := NewEngine()

	recs := engine.Evaluate(snapshot.Snapshot{Security: snapshot.Security{RiskyUsers: 1}})
	rec := byID(recs, "risky-users")
	require.NotNil(t, rec)
	require.Equal(t, task.PriorityCritical, rec.Priority)

	// critical recommendations surface first
	require.Equal(t, "risky-users", recs[0].ID)
}

func TestLicenseRules(t *testing.T) {
	engine := NewEngine()
	snap := snapshot.Snapshot{
		Licenses: snapshot.Licenses{Unassigned: 6, Inactive: 11, Disabled: 2},
	}

	recs := engine.Evaluate(snap)
	require.NotNil(t, byID(recs, "unassigned-licenses"))

	inactive := byID(recs, "inactive-licenses")
	require.NotNil(t, inactive)
	require.Equal(t, task.PriorityHigh, inactive.Priority) // 11 > 10

	disabled := byID(recs, "disabled-licenses")
	require.NotNil(t, disabled)
	require.Equal(t, task.PriorityHigh, disabled.Priority)

	// unassigned stays quiet at the threshold
	recs = engine.Evaluate(snapshot.Snapshot{Licenses: snapshot.Licenses{Unassigned: 5}})
	require.Nil(t, byID(recs, "unassigned-licenses"))
}

func TestEmptySnapshotFallsBackToBaseline(t *testing.T) {
	engine := NewEngine()

	recs := engine.Evaluate(snapshot.Snapshot{})
	require.Len(t, recs, 5)
	for _, rec := range recs {
		require.Contains(t, rec.ID, "baseline-")
	}
}

func TestOrderedByPriorityCriticalFirst(t *testing.T) {
	engine := NewEngine()
	snap := snapshot.Snapshot{
		Users:    snapshot.Users{Total: 100, Disabled: 3},
		Security: snapshot.Security{RiskyUsers: 2, MFAEnabled: 100},
	}

	recs := engine.Evaluate(snap)
	require.GreaterOrEqual(t, len(recs), 2)
	last := task.PriorityCritical
	for _, rec := range recs {
		require.LessOrEqual(t, priorityRank(last), priorityRank(rec.Priority))
		last = rec.Priority
	}
}

func TestFind(t *testing.T) {
	engine := NewEngine()
	snap := snapshot.Snapshot{Users: snapshot.Users{Disabled: 1}}

	rec, ok := engine.Find(snap, "disabled-users")
	require.True(t, ok)
	require.Equal(t, "disabled-users", rec.ID)

	_, ok = engine.Find(snap, "risky-users")
	require.False(t, ok)
}
