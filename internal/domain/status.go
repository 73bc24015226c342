package domain

// Status represents the lifecycle state of a game
type Status string

const (
	StatusInProgress Status = "IN_PROGRESS" // Accepting rolls
	StatusFinished   Status = "FINISHED"    // Score archived, no more rolls
)

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if a transition from current status to target status is valid
func (s Status) CanTransitionTo(target Status) bool {
	validTransitions := map[Status][]Status{
		StatusInProgress: {StatusFinished},
	}

	allowed, ok := validTransitions[s]
	if !ok {
		return false
	}

	for _, status := range allowed {
		if status == target {
			return true
		}
	}
	return false
}
