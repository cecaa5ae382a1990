package session

// Status tags the session state.
type Status int

const (
	StatusRestoring Status = iota
	StatusUnauthenticated
	StatusAuthenticated

	// Restore reports storage failures as StatusUnauthenticated with
	// State.Err set, so the manager does not currently publish StatusError.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusRestoring:
		return "restoring"
	case StatusUnauthenticated:
		return "unauthenticated"
	case StatusAuthenticated:
		return "authenticated"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// State is a snapshot of the session. UserID and Profile are only set when
// Status is StatusAuthenticated. Err carries the failure behind the
// transition, such as an unreadable store during Restore.
type State struct {
	Status  Status
	UserID  string
	Profile Profile
	Err     error
}

// Authenticated reports whether protected operations should be reachable.
func (s State) Authenticated() bool {
	return s.Status == StatusAuthenticated
}

func unauthenticated() State { return State{Status: StatusUnauthenticated} }

func authenticated(userID string, p Profile) State {
	return State{Status: StatusAuthenticated, UserID: userID, Profile: p}
}
