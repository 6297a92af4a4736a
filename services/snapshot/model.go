package snapshot

// Snapshot is the read-only view of the identity/license environment the
// recommendation rules evaluate. It is supplied by an external collector;
// absent sections stay zero-valued and are never treated as errors.
type Snapshot struct {
	Users    Users    `json:"users"`
	Security Security `json:"security"`
	Licenses Licenses `json:"licenses"`
}

type Users struct {
	Total    int `json:"total"`
	Disabled int `json:"disabled"`
	Inactive int `json:"inactive"`
	Guests   int `json:"guests"`
}

type Security struct {
	MFAEnabled int `json:"mfaEnabled"`
	RiskyUsers int `json:"riskyUsersCount"`
}

type Licenses struct {
	Unassigned       int     `json:"unassigned"`
	Inactive         int     `json:"inactive"`
	Disabled         int     `json:"disabled"`
	PotentialSavings float64 `json:"potentialSavings"`
}

// Empty reports whether the snapshot carries no signal at all, meaning no
// collector has pushed yet.
func (s Snapshot) Empty() bool {
	return s.Users == Users{} && s.Security == Security{} && s.Licenses == Licenses{}
}
