package checkin

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowstate/pkg/state"
)

func TestWizard_BackAtFirstStepIsNoop(t *testing.T) {
	w := New()
	assert.False(t, w.Back())
	assert.Equal(t, 0, w.Step())
}

func TestWizard_NextStopsAtLastStep(t *testing.T) {
	w := New()
	for i := 0; i < len(Steps)-1; i++ {
		assert.True(t, w.Next())
	}
	assert.True(t, w.LastStep())
	assert.False(t, w.Next())
	assert.Equal(t, len(Steps)-1, w.Step())
}

func TestWizard_SubmitOnlyFromLastStep(t *testing.T) {
	w := New()
	assert.Error(t, w.BeginSubmit())

	for w.Next() {
	}
	require.NoError(t, w.BeginSubmit())
	assert.Equal(t, PhaseSubmitting, w.Phase())

	// No navigation and no double submit while in flight.
	assert.False(t, w.Next())
	assert.False(t, w.Back())
	assert.Error(t, w.BeginSubmit())
}

func TestWizard_FailureRetainsInput(t *testing.T) {
	w := New()
	w.Form().SleepQuality = 8
	w.Form().MoodNotes = "long day"
	for w.Next() {
	}
	require.NoError(t, w.BeginSubmit())

	w.Fail("agent unavailable")
	assert.Equal(t, PhaseFailed, w.Phase())
	assert.Equal(t, "agent unavailable", w.Err())
	assert.Equal(t, 8, w.Form().SleepQuality)
	assert.Equal(t, "long day", w.Form().MoodNotes)

	// Retry path: still on the last step, submit available again.
	assert.True(t, w.LastStep())
	require.NoError(t, w.BeginSubmit())
}

func TestWizard_ResetRestoresDefaults(t *testing.T) {
	w := New()
	w.Form().SleepQuality = 9
	w.Form().CaffeineIntake = 3
	w.Next()
	w.Reset()

	assert.Equal(t, 0, w.Step())
	assert.Equal(t, PhaseCollecting, w.Phase())
	assert.Equal(t, 5, w.Form().SleepQuality)
	assert.Equal(t, 0, w.Form().CaffeineIntake)
}

func TestWizard_MedicationSubFlow(t *testing.T) {
	w := New()
	w.AddMedication(state.MedicationEntry{Name: "Vyvanse", DosageMg: 40, TimeTaken: "08:00"})
	w.AddMedication(state.MedicationEntry{Name: "Ritalin", DosageMg: 10, TimeTaken: "14:00"})
	assert.True(t, w.Form().MedsTaken)

	w.UpdateMedication(1, state.MedicationEntry{Name: "Ritalin", DosageMg: 20, TimeTaken: "14:30"})
	assert.Equal(t, 20.0, w.Form().Medications[1].DosageMg)

	w.RemoveMedication(0)
	require.Len(t, w.Form().Medications, 1)
	assert.Equal(t, "Ritalin", w.Form().Medications[0].Name)

	w.RemoveMedication(0)
	assert.False(t, w.Form().MedsTaken)
}

func TestForm_Summary(t *testing.T) {
	f := Form{
		SleepQuality:   7,
		EnergyLevel:    5,
		CaffeineIntake: 2,
		AlcoholIntake:  1,
		MedsTaken:      true,
		Medications: []state.MedicationEntry{
			{Name: "Vyvanse", DosageMg: 40, TimeTaken: "08:00"},
		},
		Intimacy:      false,
		CreativeTime:  45,
		PracticalTime: 90,
		MoodNotes:     "",
	}

	got := f.Summary()
	assert.True(t, strings.HasPrefix(got, "Daily check-in: "))
	assert.Contains(t, got, "Sleep quality: 7/10 (Good -- mostly solid, refreshing)")
	assert.Contains(t, got, "Energy: 5/10 (Moderate -- steady but unspectacular)")
	assert.Contains(t, got, "Caffeine: 2 cups")
	assert.Contains(t, got, "Meds: yes (Vyvanse 40mg at 08:00)")
	assert.Contains(t, got, "Intimacy: no")
	assert.Contains(t, got, "Mood notes: No specific notes")
}
