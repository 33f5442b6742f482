// Package elevation decides where a workout's effective elevation data
// comes from (the source file, a previous computation, or an external
// lookup service) and performs the external lookups.
package elevation

// SourceFile tags elevation data that came from the uploaded file itself
// rather than an external lookup service. Any other source value is the
// service ID that produced the data.
const SourceFile = "file"

// Action is the outcome of the source decision table.
type Action int

const (
	// ActionKeepFile keeps whatever elevation the file carried and
	// records the source as the file. Externally resolved prior values,
	// if any, are discarded.
	ActionKeepFile Action = iota

	// ActionReuseCache reuses per-point values from the prior workout,
	// looked up by (timestamp, lat, lon).
	ActionReuseCache

	// ActionResolve requests values from the external service named in
	// the decision.
	ActionResolve
)

// Input carries everything the decision table consults. It is assembled by
// the orchestrator once per ingestion or refresh; the table itself performs
// no I/O.
type Input struct {
	// IsNew is true for a first ingestion, false for a refresh.
	IsNew bool

	// SupportsElevation is the sport capability flag.
	SupportsElevation bool

	// FileHasGaps is true when any parsed point lacks elevation.
	FileHasGaps bool

	// PriorSource is the source recorded on the workout being refreshed
	// (empty for a new workout).
	PriorSource string

	// ExplicitChange is a caller-requested source override: SourceFile to
	// reset to file elevation, a service ID to force that service, empty
	// for no override.
	ExplicitChange string

	// Preference is the configured service ID, empty when no external
	// service is configured.
	Preference string

	// CacheComplete is true when the prior workout's elevation values
	// exist and have no missing entries.
	CacheComplete bool

	// FetchOnRefresh is the "fetch elevation on refresh" preference.
	FetchOnRefresh bool
}

// Decision names the action to take and, for ActionResolve, the service to
// call. Source is the value to record on the workout if the action succeeds
// (resolution failures degrade to SourceFile regardless).
type Decision struct {
	Action  Action
	Service string
	Source  string
}

// Decide evaluates the source decision table. It is a pure function so the
// full table is unit-testable without any I/O.
func Decide(in Input) Decision {
	if in.IsNew {
		if in.SupportsElevation && in.FileHasGaps && in.Preference != "" {
			return Decision{Action: ActionResolve, Service: in.Preference, Source: in.Preference}
		}
		return Decision{Action: ActionKeepFile, Source: SourceFile}
	}

	switch {
	case in.ExplicitChange == SourceFile:
		return Decision{Action: ActionKeepFile, Source: SourceFile}
	case in.ExplicitChange != "" && in.ExplicitChange != in.PriorSource:
		return Decision{Action: ActionResolve, Service: in.ExplicitChange, Source: in.ExplicitChange}
	case in.ExplicitChange != "":
		// Explicit change to the source already in effect: treat as no
		// change and fall through to the implicit rules.
	}

	switch {
	case in.PriorSource == SourceFile || in.PriorSource == "":
		return Decision{Action: ActionKeepFile, Source: SourceFile}
	case in.CacheComplete && in.Preference == in.PriorSource:
		return Decision{Action: ActionReuseCache, Source: in.PriorSource}
	case !in.FetchOnRefresh:
		return Decision{Action: ActionReuseCache, Source: in.PriorSource}
	case in.Preference != "":
		return Decision{Action: ActionResolve, Service: in.Preference, Source: in.Preference}
	default:
		return Decision{Action: ActionKeepFile, Source: SourceFile}
	}
}
