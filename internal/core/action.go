package core

// Action is the implicit feedback sent with a next-track request.
type Action string

const (
	// ActionLiked means the user dwelled on the previous track past the threshold.
	ActionLiked Action = "liked"
	// ActionSkipped means the user left the previous track early.
	ActionSkipped Action = "skipped"
	// ActionSkip is sent for the very first request of a session.
	ActionSkip Action = "skip"
)

// Valid reports whether a is one of the actions the service understands.
func (a Action) Valid() bool {
	switch a {
	case ActionLiked, ActionSkipped, ActionSkip:
		return true
	}
	return false
}

func (a Action) String() string {
	return string(a)
}
