package checkout

// Phase tracks a single checkout attempt. Within one attempt the header
// write strictly precedes the line writes, which precede notification,
// which precedes clearing the cart.
type Phase string

const (
	PhaseValidating   Phase = "VALIDATING"
	PhaseSubmitting   Phase = "SUBMITTING"
	PhaseWritingLines Phase = "WRITING_LINES"
	PhaseNotifying    Phase = "NOTIFYING"
	PhaseCompleted    Phase = "COMPLETED"
	PhaseFailed       Phase = "FAILED"
)

var nextPhase = map[Phase]map[Phase]bool{
	PhaseValidating:   {PhaseSubmitting: true, PhaseFailed: true},
	PhaseSubmitting:   {PhaseWritingLines: true, PhaseFailed: true},
	PhaseWritingLines: {PhaseNotifying: true, PhaseFailed: true},
	PhaseNotifying:    {PhaseCompleted: true},
	PhaseCompleted:    {},
	PhaseFailed:       {},
}

// CanAdvance reports whether an attempt may move to the given phase.
func (p Phase) CanAdvance(to Phase) bool {
	return nextPhase[p][to]
}

// IsTerminal reports whether the attempt is finished. A failed attempt
// is terminal only for that attempt: the cart is left intact and the
// user may retry from VALIDATING.
func (p Phase) IsTerminal() bool {
	return len(nextPhase[p]) == 0
}

func (p Phase) String() string { return string(p) }
