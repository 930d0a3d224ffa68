package flows

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowstate/pkg/achievements"
	"flowstate/pkg/agent"
	"flowstate/pkg/bus"
	"flowstate/pkg/checkin"
	"flowstate/pkg/config"
	"flowstate/pkg/state"
)

func agentResponse(t *testing.T, result any) string {
	t.Helper()
	inner, err := json.Marshal(result)
	require.NoError(t, err)
	outer, err := json.Marshal(map[string]any{
		"success":  true,
		"response": map[string]any{"result": string(inner)},
	})
	require.NoError(t, err)
	return string(outer)
}

func newEnv(t *testing.T, handler http.HandlerFunc) (*Coordinator, *state.Store) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store, err := state.Open(filepath.Join(t.TempDir(), "flowstate.db"), achievements.Catalog())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	cfg := config.DefaultConfig()
	client := agent.NewClient("test-key", server.URL)
	coord := NewCoordinator(store, client, cfg, "session-1", achievements.Evaluate)
	return coord, store
}

func TestCompleteCheckInMergesAgentEchoes(t *testing.T) {
	coord, store := newEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(agentResponse(t, map[string]any{
			"streak_count":         6,
			"hp_value":             80,
			"hp_max":               100,
			"shield_count":         2,
			"sleep_quality":        8,
			"energy_level":         7,
			"motivational_message": "Keep going!",
			"mood_assessment":      "steady",
			"pattern_insights": []map[string]any{
				{"pattern": "Morning energy dip", "severity": "watch", "recommendation": "Earlier bedtime"},
			},
		})))
	})

	form := &checkin.Form{SleepQuality: 7, EnergyLevel: 6, CaffeineIntake: 2, CreativeTime: 45}
	entry, err := coord.CompleteCheckIn(context.Background(), form)
	require.NoError(t, err)
	require.NotNil(t, entry.StreakCount)
	assert.Equal(t, 6, *entry.StreakCount)

	snap := store.Snapshot()
	assert.Equal(t, 6, snap.Streak)
	assert.Equal(t, 80, snap.HP)
	assert.Equal(t, 2, snap.Shields)
	require.Len(t, snap.CheckInHistory, 1)
	require.Len(t, snap.PatternHistory, 1)
	assert.Equal(t, "Morning energy dip", snap.PatternHistory[0].Pattern)
	assert.Equal(t, "Keep going!", snap.MotivationalMessage)
	require.NotNil(t, snap.LastCheckIn)

	// Agent echoes win over the raw form values in the stats snapshot.
	require.NotNil(t, snap.Stats.SleepQuality)
	assert.Equal(t, 8, *snap.Stats.SleepQuality)
	require.NotNil(t, snap.Stats.CaffeineIntake)
	assert.Equal(t, 2, *snap.Stats.CaffeineIntake)

	unlocked := map[string]bool{}
	for _, a := range snap.Achievements {
		unlocked[a.ID] = a.Unlocked
	}
	assert.True(t, unlocked["first_checkin"])

	slots := snap.TodayCheckIns
	assert.True(t, slots.Morning || slots.Afternoon || slots.Evening)
}

func TestCompleteCheckInFallsBackOnUnparseableResult(t *testing.T) {
	coord, store := newEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"response":{"result":"not json at all"}}`))
	})

	require.NoError(t, store.Update(func(st *state.AppState) {
		st.Streak = 4
		st.HP = 55
	}))

	form := &checkin.Form{SleepQuality: 5, EnergyLevel: 5}
	entry, err := coord.CompleteCheckIn(context.Background(), form)
	require.NoError(t, err)
	assert.Nil(t, entry.StreakCount)

	snap := store.Snapshot()
	assert.Equal(t, 4, snap.Streak, "streak should fall back to the previous value")
	assert.Equal(t, 55, snap.HP, "hp should fall back to the previous value")
	assert.Len(t, snap.CheckInHistory, 1, "entry is still recorded")

	// Stats fall back to the raw form values.
	require.NotNil(t, snap.Stats.SleepQuality)
	assert.Equal(t, 5, *snap.Stats.SleepQuality)
}

func TestCompleteCheckInAgentErrorLeavesStateUntouched(t *testing.T) {
	coord, store := newEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	form := &checkin.Form{SleepQuality: 5, EnergyLevel: 5}
	_, err := coord.CompleteCheckIn(context.Background(), form)
	require.Error(t, err)

	snap := store.Snapshot()
	assert.Empty(t, snap.CheckInHistory)
	assert.Nil(t, snap.LastCheckIn)
}

func TestFetchSuggestionsReplacesWholesale(t *testing.T) {
	coord, store := newEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(agentResponse(t, map[string]any{
			"suggestions": []map[string]any{
				{"title": "Take a walk", "description": "20 minutes outside", "category": "rest", "done": true},
				{"title": "Sketch", "description": "Loosen up", "category": "creative"},
			},
			"coaching_note": "Pace yourself today.",
		})))
	})

	require.NoError(t, store.Update(func(st *state.AppState) {
		st.Suggestions = []state.Suggestion{{Title: "Old one", Done: true}}
		st.EnergyAssessment = "previous assessment"
	}))

	got, err := coord.FetchSuggestions(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Take a walk", got[0].Title)
	assert.False(t, got[0].Done, "fresh suggestions always start unsettled")

	snap := store.Snapshot()
	require.Len(t, snap.Suggestions, 2)
	assert.Equal(t, "Pace yourself today.", snap.CoachingNote)
	assert.Equal(t, "previous assessment", snap.EnergyAssessment, "missing field keeps the previous value")
}

func TestMarkSuggestion(t *testing.T) {
	coord, store := newEnv(t, func(w http.ResponseWriter, r *http.Request) {})

	require.NoError(t, store.Update(func(st *state.AppState) {
		st.Suggestions = []state.Suggestion{{Title: "A"}, {Title: "B"}}
	}))

	require.NoError(t, coord.MarkSuggestion(0, true))
	require.NoError(t, coord.MarkSuggestion(1, false))
	assert.Error(t, coord.MarkSuggestion(5, true))

	snap := store.Snapshot()
	assert.True(t, snap.Suggestions[0].Done)
	assert.False(t, snap.Suggestions[0].Skipped)
	assert.True(t, snap.Suggestions[1].Skipped)

	unlocked := map[string]bool{}
	for _, a := range snap.Achievements {
		unlocked[a.ID] = a.Unlocked
	}
	assert.True(t, unlocked["suggestion_done"])
}

func TestSendChatAppendsBothSides(t *testing.T) {
	coord, store := newEnv(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		msg, _ := body["message"].(string)
		assert.Contains(t, msg, "[Context: User streak=")

		w.Write([]byte(agentResponse(t, map[string]any{
			"response_text":     "Tell me more about that.",
			"is_intervention":   true,
			"intervention_type": "grounding",
			"conversation_mood": "open",
		})))
	})

	reply, err := coord.SendChat(context.Background(), "I feel scattered today")
	require.NoError(t, err)
	assert.Equal(t, "Tell me more about that.", reply.Content)
	assert.True(t, reply.IsIntervention)
	assert.Equal(t, "grounding", reply.InterventionType)

	snap := store.Snapshot()
	require.Len(t, snap.ChatMessages, 2)
	assert.Equal(t, state.RoleUser, snap.ChatMessages[0].Role)
	assert.Equal(t, state.RoleAssistant, snap.ChatMessages[1].Role)
}

func TestSendChatFallbackText(t *testing.T) {
	coord, _ := newEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(agentResponse(t, map[string]any{"conversation_mood": "quiet"})))
	})

	reply, err := coord.SendChat(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, chatFallbackText, reply.Content)
}

func TestSendChatFailureKeepsOptimisticMessage(t *testing.T) {
	coord, store := newEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := coord.SendChat(context.Background(), "anyone there?")
	require.Error(t, err)

	snap := store.Snapshot()
	require.Len(t, snap.ChatMessages, 1)
	assert.Equal(t, state.RoleUser, snap.ChatMessages[0].Role)
	assert.Equal(t, "anyone there?", snap.ChatMessages[0].Content)
}

func TestFlowErrorRecordsLastFailure(t *testing.T) {
	coord, _ := newEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	assert.Empty(t, coord.FlowError(FlowChat))
	_, err := coord.SendChat(context.Background(), "hello?")
	require.Error(t, err)
	assert.Contains(t, coord.FlowError(FlowChat), "oracle agent")
	assert.Empty(t, coord.FlowError(FlowCheckIn))
}

func TestCheckInAnnouncesUnlocks(t *testing.T) {
	coord, _ := newEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(agentResponse(t, map[string]any{"streak_count": 1})))
	})

	nb := bus.NewNotificationBus()
	defer nb.Close()
	coord.SetNotificationBus(nb)

	_, err := coord.CompleteCheckIn(context.Background(), &checkin.Form{SleepQuality: 6, EnergyLevel: 6})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	n, ok := nb.Consume(ctx)
	require.True(t, ok, "first check-in should announce an unlock")
	assert.Equal(t, "achievement", n.Kind)
	assert.Contains(t, n.Title, "Achievement unlocked")
}
