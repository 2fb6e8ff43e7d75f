package pipeline

import "time"

// ProgressStep is one labelled slice of the simulated progress timeline.
type ProgressStep struct {
	Label    string
	Duration time.Duration
}

// DefaultProgressSteps narrates the layout-generation wait. The nominal
// durations sum to roughly a typical optimize call; the real call decides
// when the wait actually ends.
func DefaultProgressSteps() []ProgressStep {
	return []ProgressStep{
		{Label: "Measuring the room", Duration: 4 * time.Second},
		{Label: "Mapping walls, doors and windows", Duration: 6 * time.Second},
		{Label: "Exploring arrangements", Duration: 12 * time.Second},
		{Label: "Scoring walkways and clearances", Duration: 10 * time.Second},
		{Label: "Polishing the best options", Duration: 8 * time.Second},
	}
}

// ProgressSimulator advances through labelled steps on wall-clock time
// while one real operation is in flight. It is purely cosmetic: it never
// completes on its own and never gates the real operation. The operation
// resets it on completion, not the other way around.
type ProgressSimulator struct {
	steps     []ProgressStep
	total     time.Duration
	startedAt time.Time
	running   bool
}

// NewProgressSimulator builds a simulator; nil steps use the defaults.
func NewProgressSimulator(steps []ProgressStep) *ProgressSimulator {
	if len(steps) == 0 {
		steps = DefaultProgressSteps()
	}
	var total time.Duration
	for _, s := range steps {
		total += s.Duration
	}
	return &ProgressSimulator{steps: steps, total: total}
}

// Start begins the timeline at t.
func (p *ProgressSimulator) Start(t time.Time) {
	p.startedAt = t
	p.running = true
}

// Reset snaps back to the first step. Called the instant the real
// operation resolves, success or failure.
func (p *ProgressSimulator) Reset() {
	p.running = false
	p.startedAt = time.Time{}
}

// Running reports whether the timeline is active.
func (p *ProgressSimulator) Running() bool {
	return p.running
}

// StepAt returns the step index and label active at t, plus the overall
// fraction of the nominal timeline. Past the end it stays on the last
// step with the fraction pinned just below one; only the real
// operation's completion ends the wait.
func (p *ProgressSimulator) StepAt(t time.Time) (index int, label string, fraction float64) {
	if !p.running || len(p.steps) == 0 {
		return 0, "", 0
	}
	elapsed := t.Sub(p.startedAt)
	if elapsed < 0 {
		elapsed = 0
	}
	var acc time.Duration
	for i, s := range p.steps {
		acc += s.Duration
		if elapsed < acc {
			return i, s.Label, float64(elapsed) / float64(p.total)
		}
	}
	last := len(p.steps) - 1
	return last, p.steps[last].Label, 0.99
}
