package reconcile

// Phase is a step of a sync pass
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseFetching
	PhaseDiffing
	PhaseApplying
	PhaseReporting
	PhaseNotifying
	PhaseDone
	// PhaseErrored is absorbing: a pass that enters it does not leave it
	PhaseErrored
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "IDLE"
	case PhaseFetching:
		return "FETCHING"
	case PhaseDiffing:
		return "DIFFING"
	case PhaseApplying:
		return "APPLYING"
	case PhaseReporting:
		return "REPORTING"
	case PhaseNotifying:
		return "NOTIFYING"
	case PhaseDone:
		return "DONE"
	case PhaseErrored:
		return "ERRORED"
	}
	return "UNKNOWN"
}
