// Package checkin implements the multi-step check-in wizard: a linear
// state machine over a fixed step list that culminates in one agent call.
package checkin

import (
	"fmt"
	"strings"

	"flowstate/pkg/state"
)

type Phase int

const (
	PhaseCollecting Phase = iota
	PhaseSubmitting
	PhaseSucceeded
	PhaseFailed
)

// StepInfo describes one wizard step for display.
type StepInfo struct {
	Title    string
	Subtitle string
}

// Steps is the fixed ordered step list. The last step shows Submit
// instead of Next.
var Steps = []StepInfo{
	{"Sleep Quality", "How well did you sleep last night?"},
	{"Energy Level", "How is your energy right now?"},
	{"Caffeine", "How many cups of coffee/tea today?"},
	{"Alcohol", "How many drinks today?"},
	{"Medications", "Which meds did you take today?"},
	{"Intimacy", "Any intimacy today?"},
	{"Creative Time", "Minutes spent on creative activities"},
	{"Practical Time", "Minutes spent on practical tasks"},
	{"Mood Notes", "How are you feeling? Any notes?"},
}

// Form holds everything collected across the steps. It survives a failed
// submission so the user can retry without re-entering anything.
type Form struct {
	SleepQuality   int
	EnergyLevel    int
	CaffeineIntake int
	AlcoholIntake  int
	MedsTaken      bool
	Medications    []state.MedicationEntry
	Intimacy       bool
	CreativeTime   int
	PracticalTime  int
	MoodNotes      string
}

func defaultForm() Form {
	return Form{SleepQuality: 5, EnergyLevel: 5}
}

type Wizard struct {
	phase Phase
	step  int
	form  Form
	err   string
}

func New() *Wizard {
	return &Wizard{form: defaultForm()}
}

func (w *Wizard) Phase() Phase { return w.phase }
func (w *Wizard) Step() int    { return w.step }
func (w *Wizard) Form() *Form  { return &w.form }
func (w *Wizard) Err() string  { return w.err }

// LastStep reports whether the wizard sits on the final step, where Submit
// replaces Next.
func (w *Wizard) LastStep() bool { return w.step == len(Steps)-1 }

// Next advances one step while collecting. At the last step it is a no-op;
// Submit is the only available action there.
func (w *Wizard) Next() bool {
	if w.phase != PhaseCollecting && w.phase != PhaseFailed {
		return false
	}
	if w.LastStep() {
		return false
	}
	w.step++
	return true
}

// Back moves one step back while collecting; a no-op at step 0.
func (w *Wizard) Back() bool {
	if w.phase != PhaseCollecting && w.phase != PhaseFailed {
		return false
	}
	if w.step == 0 {
		return false
	}
	w.step--
	return true
}

// BeginSubmit transitions into submitting. Only valid from the last step.
func (w *Wizard) BeginSubmit() error {
	if w.phase == PhaseSubmitting {
		return fmt.Errorf("submission already in flight")
	}
	if !w.LastStep() {
		return fmt.Errorf("submit is only available on the last step")
	}
	w.phase = PhaseSubmitting
	w.err = ""
	return nil
}

// Succeed transitions into the result-display phase.
func (w *Wizard) Succeed() {
	w.phase = PhaseSucceeded
}

// Fail records the flow error and returns to a retryable state with all
// collected input intact.
func (w *Wizard) Fail(errMsg string) {
	w.phase = PhaseFailed
	w.err = errMsg
}

// Reset restores all fields to defaults, ready for the next check-in.
func (w *Wizard) Reset() {
	w.phase = PhaseCollecting
	w.step = 0
	w.err = ""
	w.form = defaultForm()
}

// AddMedication appends a dose to the medication sub-flow.
func (w *Wizard) AddMedication(med state.MedicationEntry) {
	w.form.Medications = append(w.form.Medications, med)
	w.form.MedsTaken = true
}

// UpdateMedication edits a dose in place; out-of-range indexes are ignored.
func (w *Wizard) UpdateMedication(idx int, med state.MedicationEntry) {
	if idx < 0 || idx >= len(w.form.Medications) {
		return
	}
	w.form.Medications[idx] = med
}

// RemoveMedication removes a single dose by index.
func (w *Wizard) RemoveMedication(idx int) {
	if idx < 0 || idx >= len(w.form.Medications) {
		return
	}
	w.form.Medications = append(w.form.Medications[:idx], w.form.Medications[idx+1:]...)
	w.form.MedsTaken = len(w.form.Medications) > 0
}

// Summary synthesizes the natural-language check-in message sent to the
// agent, rendering slider values with their qualitative descriptors.
func (f *Form) Summary() string {
	yn := func(b bool) string {
		if b {
			return "yes"
		}
		return "no"
	}

	notes := f.MoodNotes
	if strings.TrimSpace(notes) == "" {
		notes = "No specific notes"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Daily check-in: Sleep quality: %d/10 (%s), Energy: %d/10 (%s), Caffeine: %d cups, Alcohol: %d drinks, Meds: %s",
		f.SleepQuality, SleepDescriptor(f.SleepQuality),
		f.EnergyLevel, EnergyDescriptor(f.EnergyLevel),
		f.CaffeineIntake, f.AlcoholIntake, yn(f.MedsTaken))

	if len(f.Medications) > 0 {
		parts := make([]string, 0, len(f.Medications))
		for _, m := range f.Medications {
			parts = append(parts, fmt.Sprintf("%s %.0fmg at %s", m.Name, m.DosageMg, m.TimeTaken))
		}
		fmt.Fprintf(&b, " (%s)", strings.Join(parts, "; "))
	}

	fmt.Fprintf(&b, ", Intimacy: %s, Creative time: %d min, Practical time: %d min, Mood notes: %s",
		yn(f.Intimacy), f.CreativeTime, f.PracticalTime, notes)
	return b.String()
}
