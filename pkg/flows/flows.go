// Package flows orchestrates the three remote-agent flows: check-in
// completion, suggestion fetch and oracle chat. Each flow talks to its
// agent, folds the parsed result into the store and re-runs the
// achievement evaluator.
package flows

import (
	"context"
	"fmt"
	"sync"
	"time"

	"flowstate/pkg/agent"
	"flowstate/pkg/bus"
	"flowstate/pkg/checkin"
	"flowstate/pkg/config"
	"flowstate/pkg/logger"
	"flowstate/pkg/state"
)

const chatFallbackText = "I hear you. Let me think about that."

// Flow names for in-flight tracking and error slots.
const (
	FlowCheckIn = "checkin"
	FlowSuggest = "suggest"
	FlowChat    = "chat"
)

// Evaluator recomputes achievement unlock state from the current record.
type Evaluator func(st *state.AppState, now time.Time) []state.Achievement

type Coordinator struct {
	store     *state.Store
	client    *agent.Client
	cfg       *config.Config
	sessionID string
	evaluate  Evaluator

	notify *bus.NotificationBus

	mu       sync.Mutex
	inFlight map[string]bool
	lastErr  map[string]string
}

func NewCoordinator(store *state.Store, client *agent.Client, cfg *config.Config, sessionID string, evaluate Evaluator) *Coordinator {
	return &Coordinator{
		store:     store,
		client:    client,
		cfg:       cfg,
		sessionID: sessionID,
		evaluate:  evaluate,
		inFlight:  make(map[string]bool),
		lastErr:   make(map[string]string),
	}
}

// SetNotificationBus attaches a bus for achievement-unlock announcements.
// Without one, unlocks are only reflected in state.
func (c *Coordinator) SetNotificationBus(nb *bus.NotificationBus) {
	c.notify = nb
}

// begin marks a flow in flight; a second concurrent start is refused.
func (c *Coordinator) begin(flow string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight[flow] {
		return fmt.Errorf("%s flow already in flight", flow)
	}
	c.inFlight[flow] = true
	c.lastErr[flow] = ""
	return nil
}

func (c *Coordinator) end(flow string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight[flow] = false
	if err != nil {
		c.lastErr[flow] = err.Error()
	}
}

// FlowError returns the last error recorded for the named flow, or "".
func (c *Coordinator) FlowError(flow string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr[flow]
}

func (c *Coordinator) announceUnlocks(before, after []state.Achievement) {
	if c.notify == nil {
		return
	}
	prev := make(map[string]bool, len(before))
	for _, a := range before {
		prev[a.ID] = a.Unlocked
	}
	for _, a := range after {
		if a.Unlocked && !prev[a.ID] {
			c.notify.Publish(bus.Notification{
				Kind:      "achievement",
				Title:     "Achievement unlocked: " + a.Title,
				Body:      a.Description,
				CreatedAt: time.Now(),
			})
		}
	}
}

// CompleteCheckIn submits the form to the check-in agent and folds the
// echoed fields into the record. Fields the agent omits fall back to the
// previous value, never to zero.
func (c *Coordinator) CompleteCheckIn(ctx context.Context, form *checkin.Form) (out *state.CheckInEntry, retErr error) {
	if err := c.begin(FlowCheckIn); err != nil {
		return nil, err
	}
	defer func() { c.end(FlowCheckIn, retErr) }()

	resp, err := c.client.Call(ctx, form.Summary(), c.cfg.Agents.CheckinID, c.sessionID)
	if err != nil {
		return nil, fmt.Errorf("check-in agent call failed: %w", err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("check-in agent returned error: %s", resp.Error)
	}

	parsed := agent.ParseResult(resp)
	if parsed == nil {
		logger.WarnC("flows", "Check-in agent result was not parseable, keeping previous values")
	}

	now := time.Now()
	entry := state.CheckInEntry{
		ID:             state.NewEntryID(),
		Date:           now,
		SleepQuality:   form.SleepQuality,
		EnergyLevel:    form.EnergyLevel,
		CaffeineIntake: form.CaffeineIntake,
		AlcoholIntake:  form.AlcoholIntake,
		MedsTaken:      form.MedsTaken,
		Intimacy:       form.Intimacy,
		CreativeTime:   form.CreativeTime,
		PracticalTime:  form.PracticalTime,
		MoodNotes:      form.MoodNotes,
	}
	if v, ok := agent.Int(parsed, "streak_count"); ok {
		entry.StreakCount = &v
	}
	if v, ok := agent.Int(parsed, "hp_value"); ok {
		entry.HPValue = &v
	}
	if v, ok := agent.Int(parsed, "hp_max"); ok {
		entry.HPMax = &v
	}
	if v, ok := agent.Int(parsed, "shield_count"); ok {
		entry.ShieldCount = &v
	}
	if v, ok := agent.Str(parsed, "motivational_message"); ok {
		entry.MotivationalMessage = v
	}
	if v, ok := agent.Str(parsed, "stats_summary"); ok {
		entry.StatsSummary = v
	}
	if v, ok := agent.Str(parsed, "mood_assessment"); ok {
		entry.MoodAssessment = v
	}
	entry.PatternInsights = parseInsights(parsed)

	var before, after []state.Achievement
	err = c.store.Update(func(st *state.AppState) {
		if entry.StreakCount != nil {
			st.Streak = *entry.StreakCount
		}
		if entry.HPValue != nil {
			st.HP = *entry.HPValue
		}
		if entry.HPMax != nil {
			st.HPMax = *entry.HPMax
		}
		if entry.ShieldCount != nil {
			st.Shields = *entry.ShieldCount
		}
		st.LastCheckIn = &now
		st.CheckInHistory = append([]state.CheckInEntry{entry}, st.CheckInHistory...)
		st.PatternHistory = append(append([]state.PatternInsight{}, entry.PatternInsights...), st.PatternHistory...)

		st.Stats.SleepQuality = intOr(parsed, "sleep_quality", form.SleepQuality)
		st.Stats.EnergyLevel = intOr(parsed, "energy_level", form.EnergyLevel)
		st.Stats.CaffeineIntake = intOr(parsed, "caffeine_intake", form.CaffeineIntake)
		st.Stats.CreativeTime = intOr(parsed, "creative_time_minutes", form.CreativeTime)
		st.Stats.PracticalTime = intOr(parsed, "practical_time_minutes", form.PracticalTime)
		if v, ok := agent.Str(parsed, "mood_assessment"); ok {
			st.Stats.Mood = &v
		}

		if v, ok := agent.Str(parsed, "motivational_message"); ok {
			st.MotivationalMessage = v
		}
		if form.MedsTaken {
			st.Medications = append([]state.MedicationEntry{}, form.Medications...)
		}

		slots := st.TodaySlots(now)
		switch {
		case now.Hour() < 12:
			slots.Morning = true
		case now.Hour() < 18:
			slots.Afternoon = true
		default:
			slots.Evening = true
		}
		st.TodayCheckIns = slots

		before = st.Achievements
		st.Achievements = c.evaluate(st, now)
		after = st.Achievements
	})
	if err != nil {
		return nil, err
	}
	c.announceUnlocks(before, after)
	return &entry, nil
}

// FetchSuggestions asks the coach agent for a fresh suggestion list and
// replaces the stored list wholesale. Coaching note and energy assessment
// survive when the agent omits them.
func (c *Coordinator) FetchSuggestions(ctx context.Context) (out []state.Suggestion, retErr error) {
	if err := c.begin(FlowSuggest); err != nil {
		return nil, err
	}
	defer func() { c.end(FlowSuggest, retErr) }()

	snap := c.store.Snapshot()
	energy := "unknown"
	if snap.Stats.EnergyLevel != nil {
		energy = fmt.Sprintf("%d", *snap.Stats.EnergyLevel)
	}
	creative := 0
	if snap.Stats.CreativeTime != nil {
		creative = *snap.Stats.CreativeTime
	}
	message := fmt.Sprintf("I need suggestions based on my current state. My recent energy has been %s/10 and I've logged %d min of creative time. What should I focus on right now?", energy, creative)

	resp, err := c.client.Call(ctx, message, c.cfg.Agents.CoachID, c.sessionID)
	if err != nil {
		return nil, fmt.Errorf("coach agent call failed: %w", err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("coach agent returned error: %s", resp.Error)
	}

	parsed := agent.ParseResult(resp)
	suggestions := []state.Suggestion{}
	for _, obj := range agent.Objects(parsed, "suggestions") {
		s := state.Suggestion{Done: false, Skipped: false}
		s.Title, _ = agent.Str(obj, "title")
		s.Description, _ = agent.Str(obj, "description")
		s.TimeEstimate, _ = agent.Str(obj, "time_estimate")
		s.Reasoning, _ = agent.Str(obj, "reasoning")
		s.Category, _ = agent.Str(obj, "category")
		s.Priority, _ = agent.Str(obj, "priority")
		s.TrendingRelevance, _ = agent.Str(obj, "trending_relevance")
		suggestions = append(suggestions, s)
	}

	err = c.store.Update(func(st *state.AppState) {
		st.Suggestions = suggestions
		if v, ok := agent.Str(parsed, "coaching_note"); ok {
			st.CoachingNote = v
		}
		if v, ok := agent.Str(parsed, "overall_energy_assessment"); ok {
			st.EnergyAssessment = v
		}
	})
	if err != nil {
		return nil, err
	}
	return suggestions, nil
}

// MarkSuggestion sets the done or skipped flag on one suggestion and
// re-runs the evaluator. Out-of-range indexes are a no-op error.
func (c *Coordinator) MarkSuggestion(idx int, done bool) error {
	var rangeErr error
	var before, after []state.Achievement
	err := c.store.Update(func(st *state.AppState) {
		if idx < 0 || idx >= len(st.Suggestions) {
			rangeErr = fmt.Errorf("no suggestion at index %d", idx)
			return
		}
		if done {
			st.Suggestions[idx].Done = true
		} else {
			st.Suggestions[idx].Skipped = true
		}
		before = st.Achievements
		st.Achievements = c.evaluate(st, time.Now())
		after = st.Achievements
	})
	if err != nil {
		return err
	}
	if rangeErr != nil {
		return rangeErr
	}
	c.announceUnlocks(before, after)
	return nil
}

// SendChat appends the user message immediately, then asks the oracle
// agent and appends its reply. On agent failure the optimistic user
// message stays and the error is returned.
func (c *Coordinator) SendChat(ctx context.Context, text string) (out *state.ChatMessage, retErr error) {
	if err := c.begin(FlowChat); err != nil {
		return nil, err
	}
	defer func() { c.end(FlowChat, retErr) }()

	now := time.Now()
	userMsg := state.ChatMessage{
		ID:        state.NewEntryID(),
		Role:      state.RoleUser,
		Content:   text,
		Timestamp: now,
	}
	if err := c.store.Update(func(st *state.AppState) {
		st.ChatMessages = append(st.ChatMessages, userMsg)
	}); err != nil {
		return nil, err
	}

	snap := c.store.Snapshot()
	energy := "unknown"
	if snap.Stats.EnergyLevel != nil {
		energy = fmt.Sprintf("%d", *snap.Stats.EnergyLevel)
	}
	full := fmt.Sprintf("[Context: User streak=%d, energy=%s, HP=%d/%d] %s", snap.Streak, energy, snap.HP, snap.HPMax, text)

	resp, err := c.client.Call(ctx, full, c.cfg.Agents.OracleID, c.sessionID)
	if err != nil {
		return nil, fmt.Errorf("oracle agent call failed: %w", err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("oracle agent returned error: %s", resp.Error)
	}

	parsed := agent.ParseResult(resp)
	assistant := state.ChatMessage{
		ID:               state.NewEntryID(),
		Role:             state.RoleAssistant,
		Content:          chatFallbackText,
		Timestamp:        time.Now(),
		InterventionType: "none",
		TopicsExplored:   agent.Strings(parsed, "topics_explored"),
		ActionItems:      agent.Strings(parsed, "action_items"),
	}
	if v, ok := agent.Str(parsed, "response_text"); ok {
		assistant.Content = v
	}
	if v, ok := agent.Bool(parsed, "is_intervention"); ok {
		assistant.IsIntervention = v
	}
	if v, ok := agent.Str(parsed, "intervention_type"); ok {
		assistant.InterventionType = v
	}
	if v, ok := agent.Str(parsed, "intervention_message"); ok {
		assistant.InterventionMessage = v
	}
	if v, ok := agent.Str(parsed, "conversation_mood"); ok {
		assistant.ConversationMood = v
	}

	var before, after []state.Achievement
	err = c.store.Update(func(st *state.AppState) {
		st.ChatMessages = append(st.ChatMessages, assistant)
		before = st.Achievements
		st.Achievements = c.evaluate(st, time.Now())
		after = st.Achievements
	})
	if err != nil {
		return nil, err
	}
	c.announceUnlocks(before, after)
	return &assistant, nil
}

func parseInsights(parsed map[string]any) []state.PatternInsight {
	objs := agent.Objects(parsed, "pattern_insights")
	if len(objs) == 0 {
		return nil
	}
	out := make([]state.PatternInsight, 0, len(objs))
	for _, obj := range objs {
		var p state.PatternInsight
		p.Pattern, _ = agent.Str(obj, "pattern")
		p.Severity, _ = agent.Str(obj, "severity")
		p.Recommendation, _ = agent.Str(obj, "recommendation")
		out = append(out, p)
	}
	return out
}

func intOr(parsed map[string]any, key string, fallback int) *int {
	if v, ok := agent.Int(parsed, key); ok {
		return &v
	}
	return &fallback
}
