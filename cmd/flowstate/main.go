// FlowState - AI-coached habit tracking companion
// License: MIT
//
// Copyright (c) 2026 FlowState contributors

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"flowstate/pkg/achievements"
	"flowstate/pkg/agent"
	"flowstate/pkg/bus"
	"flowstate/pkg/channels"
	"flowstate/pkg/checkin"
	"flowstate/pkg/config"
	"flowstate/pkg/flows"
	"flowstate/pkg/format"
	"flowstate/pkg/logger"
	"flowstate/pkg/meds"
	"flowstate/pkg/reminder"
	"flowstate/pkg/rotation"
	"flowstate/pkg/state"
)

var (
	version   = "dev"
	gitCommit string
	buildTime string
	goVersion string
)

const appName = "flowstate"

// formatVersion returns the version string with optional git commit
func formatVersion() string {
	v := version
	if gitCommit != "" {
		v += fmt.Sprintf(" (git: %s)", gitCommit)
	}
	return v
}

// formatBuildInfo returns build time and go version info
func formatBuildInfo() (build string, goVer string) {
	if buildTime != "" {
		build = buildTime
	}
	goVer = goVersion
	if goVer == "" {
		goVer = runtime.Version()
	}
	return
}

func printVersion() {
	fmt.Printf("%s %s\n", appName, formatVersion())
	build, goVer := formatBuildInfo()
	if build != "" {
		fmt.Printf("  Build: %s\n", build)
	}
	if goVer != "" {
		fmt.Printf("  Go: %s\n", goVer)
	}
}

func main() {
	if len(os.Args) < 2 {
		printHelp()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "onboard":
		onboard()
	case "checkin":
		checkinCmd()
	case "suggest":
		suggestCmd()
	case "chat":
		chatCmd()
	case "status":
		statusCmd()
	case "history":
		historyCmd()
	case "meds":
		medsCmd()
	case "remind":
		remindCmd()
	case "sample":
		sampleCmd()
	case "version", "--version", "-v":
		printVersion()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printHelp()
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Printf("%s - AI-coached habit tracker v%s\n\n", appName, version)
	fmt.Println("Usage: flowstate <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  onboard     Initialize flowstate configuration and data directory")
	fmt.Println("  checkin     Run the daily check-in wizard")
	fmt.Println("  suggest     Fetch coaching suggestions, mark them done or skipped")
	fmt.Println("  chat        Talk to the oracle (interactive or one-shot)")
	fmt.Println("  status      Show streak, HP, stats, and today's mantra")
	fmt.Println("  history     Browse check-in logs, patterns, and achievements")
	fmt.Println("  meds        Show medication wear-off status (add/remove doses)")
	fmt.Println("  remind      Manage check-in reminders")
	fmt.Println("  sample      Preview the dashboard with demo data (nothing persisted)")
	fmt.Println("  version     Show version information")
}

func getConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".flowstate", "config.json")
}

func loadConfig() (*config.Config, error) {
	return config.LoadConfig(getConfigPath())
}

func statePath(cfg *config.Config) string {
	return filepath.Join(cfg.DataDirPath(), "state.db")
}

func remindersPath(cfg *config.Config) string {
	return filepath.Join(cfg.DataDirPath(), "reminders.json")
}

func openStore(cfg *config.Config) (*state.Store, error) {
	return state.Open(statePath(cfg), achievements.Catalog())
}

func validateRuntimeConfig(cfg *config.Config, requireDiscord bool) error {
	configPath := getConfigPath()
	if strings.TrimSpace(cfg.GetAPIKey()) == "" {
		return fmt.Errorf("provider.api_key is required in %s or FLOWSTATE_PROVIDER_API_KEY", configPath)
	}
	if requireDiscord && strings.TrimSpace(cfg.Channels.Discord.Token) == "" {
		return fmt.Errorf("channels.discord.token is required in %s or FLOWSTATE_CHANNELS_DISCORD_TOKEN", configPath)
	}
	return nil
}

func newCoordinator(cfg *config.Config, store *state.Store) (*flows.Coordinator, error) {
	client, err := agent.CreateClient(cfg)
	if err != nil {
		return nil, err
	}
	sessionID, err := store.SessionID()
	if err != nil {
		return nil, err
	}
	return flows.NewCoordinator(store, client, cfg, sessionID, achievements.Evaluate), nil
}

// attachAnnouncer forwards achievement unlocks to Discord when a bot token
// is configured. The returned func flushes and disconnects; it is always
// safe to call.
func attachAnnouncer(cfg *config.Config, coord *flows.Coordinator) func() {
	if strings.TrimSpace(cfg.Channels.Discord.Token) == "" {
		return func() {}
	}
	discord, err := channels.NewDiscordNotifier(cfg.Channels.Discord)
	if err != nil {
		logger.WarnCF("channels", "Unlock announcements disabled", map[string]any{"error": err.Error()})
		return func() {}
	}
	ctx, cancel := context.WithCancel(context.Background())
	if err := discord.Start(ctx); err != nil {
		cancel()
		logger.WarnCF("channels", "Unlock announcements disabled", map[string]any{"error": err.Error()})
		return func() {}
	}

	nb := bus.NewNotificationBus()
	coord.SetNotificationBus(nb)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			n, ok := nb.Consume(ctx)
			if !ok {
				return
			}
			if err := discord.Send(ctx, n); err != nil {
				logger.ErrorCF("channels", "Announcement delivery failed", map[string]any{"error": err.Error()})
			}
		}
	}()
	return func() {
		nb.Close()
		<-done
		cancel()
		_ = discord.Stop(context.Background())
	}
}

func onboard() {
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); err == nil {
		fmt.Printf("Config already exists at %s\n", configPath)
		fmt.Print("Overwrite? (y/n): ")
		reader := bufio.NewReader(os.Stdin)
		response, readErr := reader.ReadString('\n')
		if readErr != nil {
			fmt.Printf("Error reading input: %v\n", readErr)
			fmt.Println("Aborted.")
			return
		}
		response = strings.ToLower(strings.TrimSpace(response))
		if response != "y" && response != "yes" {
			fmt.Println("Aborted.")
			return
		}
	}

	cfg := config.DefaultConfig()
	if err := config.SaveConfig(configPath, cfg); err != nil {
		fmt.Printf("Error saving config: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.DataDirPath(), 0o755); err != nil {
		fmt.Printf("Error creating data directory: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s is ready!\n", appName)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Add your API key to", configPath)
	fmt.Println("  2. (Reminders) Add your Discord bot token to channels.discord.token")
	fmt.Println("  3. First check-in: flowstate checkin")
	fmt.Println("  4. Dashboard: flowstate status")
	fmt.Println("  5. Demo data: flowstate sample")
}

// promptFunc reads one line of input shown behind the given prompt.
type promptFunc func(prompt string) (string, error)

// newPrompter prefers readline with history; falls back to plain bufio when
// the terminal cannot support it.
func newPrompter(historyName string) (promptFunc, func(), error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     filepath.Join(os.TempDir(), historyName),
		HistoryLimit:    100,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err == nil {
		ask := func(prompt string) (string, error) {
			rl.SetPrompt(prompt)
			return rl.Readline()
		}
		return ask, func() { rl.Close() }, nil
	}

	fmt.Printf("Error initializing readline: %v\n", err)
	fmt.Println("Falling back to simple input mode...")
	reader := bufio.NewReader(os.Stdin)
	ask := func(prompt string) (string, error) {
		fmt.Print(prompt)
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", err
		}
		return strings.TrimRight(line, "\n"), nil
	}
	return ask, func() {}, nil
}

func checkinCmd() {
	args := os.Args[2:]
	for _, arg := range args {
		if arg == "--debug" || arg == "-d" {
			logger.SetLevel(logger.DEBUG)
			fmt.Println("🔍 Debug mode enabled")
		}
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := validateRuntimeConfig(cfg, false); err != nil {
		fmt.Printf("Configuration error: %v\n", err)
		os.Exit(1)
	}

	store, err := openStore(cfg)
	if err != nil {
		fmt.Printf("Error opening state: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	coord, err := newCoordinator(cfg, store)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer attachAnnouncer(cfg, coord)()

	ask, closeInput, err := newPrompter(".flowstate_checkin_history")
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer closeInput()

	runWizard(ask, coord, store)
}

// runWizard walks the fixed step list, collecting form input. Typing
// "back" (or "b") returns to the previous step; a failed submission keeps
// every answer for retry.
func runWizard(ask promptFunc, coord *flows.Coordinator, store *state.Store) {
	w := checkin.New()

	fmt.Println("Daily check-in. Type 'back' to revisit a step, Ctrl+C to abort.")
	fmt.Println()

	for w.Phase() == checkin.PhaseCollecting || w.Phase() == checkin.PhaseFailed {
		step := checkin.Steps[w.Step()]
		fmt.Printf("[%d/%d] %s\n", w.Step()+1, len(checkin.Steps), step.Title)
		fmt.Printf("      %s\n", step.Subtitle)

		back, err := collectStep(ask, w)
		if err != nil {
			fmt.Println("\nCheck-in aborted.")
			return
		}
		if back {
			if !w.Back() {
				fmt.Println("Already at the first step.")
			}
			continue
		}

		if !w.LastStep() {
			w.Next()
			continue
		}

		if err := submitCheckIn(ask, w, coord, store); err != nil {
			return
		}
		if w.Phase() == checkin.PhaseSucceeded {
			return
		}
	}
}

func collectStep(ask promptFunc, w *checkin.Wizard) (back bool, err error) {
	form := w.Form()

	switch w.Step() {
	case 0:
		v, back, err := askScale(ask, form.SleepQuality)
		if back || err != nil {
			return back, err
		}
		form.SleepQuality = v
		fmt.Printf("      %s\n\n", checkin.SleepDescriptor(v))
	case 1:
		v, back, err := askScale(ask, form.EnergyLevel)
		if back || err != nil {
			return back, err
		}
		form.EnergyLevel = v
		fmt.Printf("      %s\n\n", checkin.EnergyDescriptor(v))
	case 2:
		v, back, err := askCount(ask, "Cups", form.CaffeineIntake)
		if back || err != nil {
			return back, err
		}
		form.CaffeineIntake = v
	case 3:
		v, back, err := askCount(ask, "Drinks", form.AlcoholIntake)
		if back || err != nil {
			return back, err
		}
		form.AlcoholIntake = v
	case 4:
		return collectMedications(ask, w)
	case 5:
		v, back, err := askYesNo(ask, "  (y/n): ")
		if back || err != nil {
			return back, err
		}
		form.Intimacy = v
	case 6:
		v, back, err := askCount(ask, "Minutes", form.CreativeTime)
		if back || err != nil {
			return back, err
		}
		form.CreativeTime = v
	case 7:
		v, back, err := askCount(ask, "Minutes", form.PracticalTime)
		if back || err != nil {
			return back, err
		}
		form.PracticalTime = v
	case 8:
		line, err := ask("  Notes: ")
		if err != nil {
			return false, err
		}
		if isBack(line) {
			return true, nil
		}
		form.MoodNotes = strings.TrimSpace(line)
	}
	return false, nil
}

func isBack(line string) bool {
	trimmed := strings.ToLower(strings.TrimSpace(line))
	return trimmed == "back" || trimmed == "b"
}

func askScale(ask promptFunc, current int) (int, bool, error) {
	for {
		line, err := ask(fmt.Sprintf("  1-10 [%d]: ", current))
		if err != nil {
			return 0, false, err
		}
		if isBack(line) {
			return 0, true, nil
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			return current, false, nil
		}
		v, convErr := strconv.Atoi(trimmed)
		if convErr != nil || v < 1 || v > 10 {
			fmt.Println("  Please enter a number from 1 to 10.")
			continue
		}
		return v, false, nil
	}
}

func askCount(ask promptFunc, label string, current int) (int, bool, error) {
	for {
		line, err := ask(fmt.Sprintf("  %s [%d]: ", label, current))
		if err != nil {
			return 0, false, err
		}
		if isBack(line) {
			return 0, true, nil
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			return current, false, nil
		}
		v, convErr := strconv.Atoi(trimmed)
		if convErr != nil || v < 0 {
			fmt.Println("  Please enter a non-negative number.")
			continue
		}
		return v, false, nil
	}
}

func askYesNo(ask promptFunc, prompt string) (bool, bool, error) {
	for {
		line, err := ask(prompt)
		if err != nil {
			return false, false, err
		}
		if isBack(line) {
			return false, true, nil
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, false, nil
		case "n", "no", "":
			return false, false, nil
		}
		fmt.Println("  Please answer y or n.")
	}
}

func collectMedications(ask promptFunc, w *checkin.Wizard) (bool, error) {
	catalog := meds.Catalog()
	fmt.Println("  Known medications:")
	for i, entry := range catalog {
		fmt.Printf("    %d. %s (%s, %v-%vh)\n", i+1, entry.Name, entry.Generic, entry.Duration.Min, entry.Duration.Max)
	}
	fmt.Println("  Enter a number or name to add a dose; empty line when done.")

	for {
		line, err := ask("  Med: ")
		if err != nil {
			return false, err
		}
		if isBack(line) {
			return true, nil
		}
		name := strings.TrimSpace(line)
		if name == "" {
			return false, nil
		}

		var entry meds.CatalogEntry
		var known bool
		if idx, convErr := strconv.Atoi(name); convErr == nil && idx >= 1 && idx <= len(catalog) {
			entry, known = catalog[idx-1], true
		} else {
			entry, known = meds.Lookup(name)
		}

		med := state.MedicationEntry{Name: name}
		if known {
			med.Name = entry.Name
			med.Generic = entry.Generic
			med.Duration = entry.Duration
		}

		doseLine, err := ask("  Dose (mg): ")
		if err != nil {
			return false, err
		}
		if dose, convErr := strconv.ParseFloat(strings.TrimSpace(doseLine), 64); convErr == nil {
			med.DosageMg = dose
		}

		timeLine, err := ask("  Time taken (HH:MM) [08:00]: ")
		if err != nil {
			return false, err
		}
		taken := strings.TrimSpace(timeLine)
		if taken == "" {
			taken = "08:00"
		}
		med.TimeTaken = taken

		if !known {
			fmt.Println("  Unknown medication, enter its duration window in hours.")
			minLine, err := ask("  Min hours [4]: ")
			if err != nil {
				return false, err
			}
			maxLine, err := ask("  Max hours [6]: ")
			if err != nil {
				return false, err
			}
			med.Duration = state.Window{Min: 4, Max: 6}
			if v, convErr := strconv.ParseFloat(strings.TrimSpace(minLine), 64); convErr == nil {
				med.Duration.Min = v
			}
			if v, convErr := strconv.ParseFloat(strings.TrimSpace(maxLine), 64); convErr == nil {
				med.Duration.Max = v
			}
		}

		w.AddMedication(med)
		fmt.Printf("  Added %s %smg at %s\n", med.Name, strconv.FormatFloat(med.DosageMg, 'f', -1, 64), med.TimeTaken)
	}
}

func submitCheckIn(ask promptFunc, w *checkin.Wizard, coord *flows.Coordinator, store *state.Store) error {
	if err := w.BeginSubmit(); err != nil {
		fmt.Printf("Error: %v\n", err)
		return err
	}

	fmt.Println("\nSubmitting check-in...")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	entry, err := coord.CompleteCheckIn(ctx, w.Form())
	cancel()

	if err != nil {
		w.Fail(err.Error())
		fmt.Printf("Check-in failed: %v\n", err)
		line, askErr := ask("Retry? (y/n): ")
		if askErr != nil {
			return askErr
		}
		if strings.ToLower(strings.TrimSpace(line)) == "y" {
			// Retry resubmits directly; every answer is still in the form.
			return submitCheckIn(ask, w, coord, store)
		}
		fmt.Println("Your answers were kept in this session only. Run 'flowstate checkin' to try again.")
		return err
	}

	w.Succeed()
	snap := store.Snapshot()
	fmt.Printf("\n✓ Check-in complete. Streak: %d, HP: %d/%d\n", snap.Streak, snap.HP, snap.HPMax)
	if entry.MotivationalMessage != "" {
		fmt.Printf("\n%s\n", entry.MotivationalMessage)
	}
	for _, insight := range entry.PatternInsights {
		fmt.Printf("  [%s] %s\n", format.SeverityStyle(insight.Severity), insight.Pattern)
		if insight.Recommendation != "" {
			fmt.Printf("      → %s\n", insight.Recommendation)
		}
	}
	printFreshUnlocks(snap)
	return nil
}

func printFreshUnlocks(snap state.AppState) {
	cutoff := time.Now().Add(-time.Minute)
	for _, a := range snap.Achievements {
		if a.Unlocked && a.UnlockedAt != nil && a.UnlockedAt.After(cutoff) {
			fmt.Printf("🏆 Achievement unlocked: %s (%s)\n", a.Title, a.Description)
		}
	}
}

func suggestCmd() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	store, err := openStore(cfg)
	if err != nil {
		fmt.Printf("Error opening state: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	args := os.Args[2:]
	if len(args) >= 2 && (args[0] == "done" || args[0] == "skip") {
		idx, convErr := strconv.Atoi(args[1])
		if convErr != nil || idx < 1 {
			fmt.Println("Usage: flowstate suggest done|skip <number>")
			os.Exit(1)
		}
		coord := flows.NewCoordinator(store, nil, cfg, "", achievements.Evaluate)
		flush := attachAnnouncer(cfg, coord)
		if err := coord.MarkSuggestion(idx-1, args[0] == "done"); err != nil {
			flush()
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		flush()
		fmt.Printf("✓ Suggestion %d marked %s\n", idx, map[bool]string{true: "done", false: "skipped"}[args[0] == "done"])
		printSuggestions(store.Snapshot())
		return
	}

	if len(args) > 0 && args[0] == "list" {
		printSuggestions(store.Snapshot())
		return
	}

	if err := validateRuntimeConfig(cfg, false); err != nil {
		fmt.Printf("Configuration error: %v\n", err)
		os.Exit(1)
	}
	coord, err := newCoordinator(cfg, store)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Asking your coach...")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	if _, err := coord.FetchSuggestions(ctx); err != nil {
		fmt.Printf("Error fetching suggestions: %v\n", err)
		os.Exit(1)
	}
	printSuggestions(store.Snapshot())
}

func printSuggestions(snap state.AppState) {
	if len(snap.Suggestions) == 0 {
		fmt.Println("No suggestions yet. Run 'flowstate suggest' to fetch some.")
		return
	}

	if snap.CoachingNote != "" {
		fmt.Printf("\nCoach: %s\n", snap.CoachingNote)
	}
	if snap.EnergyAssessment != "" {
		fmt.Printf("Energy: %s\n", snap.EnergyAssessment)
	}

	fmt.Println("\nSuggestions:")
	for i, s := range snap.Suggestions {
		marker := " "
		switch {
		case s.Done:
			marker = "✓"
		case s.Skipped:
			marker = "✗"
		}
		fmt.Printf("  %d. [%s] %s (%s", i+1, marker, s.Title, format.CategoryLabel(s.Category))
		if s.TimeEstimate != "" {
			fmt.Printf(", %s", s.TimeEstimate)
		}
		fmt.Println(")")
		if s.Description != "" {
			fmt.Printf("     %s\n", s.Description)
		}
	}
	fmt.Println("\nMark with: flowstate suggest done|skip <number>")
}

func chatCmd() {
	message := ""

	args := os.Args[2:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--debug", "-d":
			logger.SetLevel(logger.DEBUG)
			fmt.Println("🔍 Debug mode enabled")
		case "-m", "--message":
			if i+1 < len(args) {
				message = args[i+1]
				i++
			}
		}
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := validateRuntimeConfig(cfg, false); err != nil {
		fmt.Printf("Configuration error: %v\n", err)
		os.Exit(1)
	}

	store, err := openStore(cfg)
	if err != nil {
		fmt.Printf("Error opening state: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	coord, err := newCoordinator(cfg, store)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer attachAnnouncer(cfg, coord)()

	if message != "" {
		ctx := context.Background()
		reply, err := coord.SendChat(ctx, message)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		printOracleReply(reply)
		return
	}

	fmt.Printf("%s Oracle chat (Ctrl+C to exit)\n\n", appName)
	interactiveChat(coord)
}

func interactiveChat(coord *flows.Coordinator) {
	prompt := fmt.Sprintf("%s You: ", appName)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     filepath.Join(os.TempDir(), ".flowstate_chat_history"),
		HistoryLimit:    100,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})

	if err != nil {
		fmt.Printf("Error initializing readline: %v\n", err)
		fmt.Println("Falling back to simple input mode...")
		simpleInteractiveChat(coord)
		return
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt || err == io.EOF {
				fmt.Println("\nGoodbye!")
				return
			}
			fmt.Printf("Error reading input: %v\n", err)
			continue
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		if input == "exit" || input == "quit" {
			fmt.Println("Goodbye!")
			return
		}

		reply, err := coord.SendChat(context.Background(), input)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}
		printOracleReply(reply)
	}
}

func simpleInteractiveChat(coord *flows.Coordinator) {
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Printf("%s You: ", appName)
		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				fmt.Println("\nGoodbye!")
				return
			}
			fmt.Printf("Error reading input: %v\n", err)
			continue
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		if input == "exit" || input == "quit" {
			fmt.Println("Goodbye!")
			return
		}

		reply, err := coord.SendChat(context.Background(), input)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}
		printOracleReply(reply)
	}
}

func printOracleReply(reply *state.ChatMessage) {
	fmt.Printf("\n%s %s\n", appName, reply.Content)
	if reply.IsIntervention && reply.InterventionMessage != "" {
		fmt.Printf("  ⚠ %s\n", reply.InterventionMessage)
	}
	if len(reply.ActionItems) > 0 {
		for _, item := range reply.ActionItems {
			fmt.Printf("  • %s\n", item)
		}
	}
	fmt.Println()
}

func statusCmd() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		return
	}

	configPath := getConfigPath()

	fmt.Printf("%s Status\n", appName)
	fmt.Printf("Version: %s\n", formatVersion())
	fmt.Println()

	if _, err := os.Stat(configPath); err == nil {
		fmt.Println("Config:", configPath, "✓")
	} else {
		fmt.Println("Config:", configPath, "✗")
	}

	dbPath := statePath(cfg)
	if _, err := os.Stat(dbPath); err == nil {
		fmt.Println("State DB:", dbPath, "✓")
	} else {
		fmt.Println("State DB:", dbPath, "not initialized")
	}

	apiReady := strings.TrimSpace(cfg.GetAPIKey()) != ""
	discordReady := strings.TrimSpace(cfg.Channels.Discord.Token) != ""
	ready := func(ok bool) string {
		if ok {
			return "✓"
		}
		return "not set"
	}
	fmt.Println("API key:", ready(apiReady))
	fmt.Println("Discord token:", ready(discordReady))
	fmt.Println()

	store, err := openStore(cfg)
	if err != nil {
		fmt.Printf("Error opening state: %v\n", err)
		return
	}
	defer store.Close()

	printDashboard(store.Snapshot(), time.Now())
}

func hpBar(hp, hpMax int) string {
	const width = 20
	if hpMax <= 0 {
		hpMax = 1
	}
	filled := hp * width / hpMax
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func printDashboard(snap state.AppState, now time.Time) {
	fmt.Printf("🔥 Streak: %d days   🛡 Shields: %d\n", snap.Streak, snap.Shields)
	fmt.Printf("❤ HP: [%s] %d/%d\n", hpBar(snap.HP, snap.HPMax), snap.HP, snap.HPMax)
	fmt.Printf("Last check-in: %s\n", format.Date(snap.LastCheckIn))

	slots := snap.TodaySlots(now)
	slot := func(done bool) string {
		if done {
			return "✓"
		}
		return "·"
	}
	fmt.Printf("Today: morning %s  afternoon %s  evening %s\n",
		slot(slots.Morning), slot(slots.Afternoon), slot(slots.Evening))

	fmt.Println()
	fmt.Printf("Mantra: %s\n", rotation.MantraOfTheDay(now))
	fmt.Printf("Word of the day: %s\n", rotation.WordOfTheDay(now))

	if snap.MotivationalMessage != "" {
		fmt.Printf("\n%s\n", snap.MotivationalMessage)
	}

	if snap.Stats.SleepQuality != nil || snap.Stats.EnergyLevel != nil {
		fmt.Println("\nLatest stats:")
		if snap.Stats.SleepQuality != nil {
			fmt.Printf("  Sleep: %d/10\n", *snap.Stats.SleepQuality)
		}
		if snap.Stats.EnergyLevel != nil {
			fmt.Printf("  Energy: %d/10\n", *snap.Stats.EnergyLevel)
		}
		if snap.Stats.CaffeineIntake != nil {
			fmt.Printf("  Caffeine: %d cups\n", *snap.Stats.CaffeineIntake)
		}
		if snap.Stats.CreativeTime != nil {
			fmt.Printf("  Creative: %s\n", format.Minutes(*snap.Stats.CreativeTime))
		}
		if snap.Stats.PracticalTime != nil {
			fmt.Printf("  Practical: %s\n", format.Minutes(*snap.Stats.PracticalTime))
		}
		if snap.Stats.Mood != nil {
			fmt.Printf("  Mood: %s\n", *snap.Stats.Mood)
		}
	}

	if len(snap.PatternHistory) > 0 {
		p := snap.PatternHistory[0]
		fmt.Printf("\nLatest pattern [%s]: %s\n", format.SeverityStyle(p.Severity), p.Pattern)
		if p.Recommendation != "" {
			fmt.Printf("  → %s\n", p.Recommendation)
		}
	}

	if len(snap.Medications) > 0 {
		fmt.Println("\nMedications:")
		for _, report := range meds.ComputeStatus(snap.Medications, now) {
			printMedReport(report)
		}
	}

	unlocked := 0
	for _, a := range snap.Achievements {
		if a.Unlocked {
			unlocked++
		}
	}
	fmt.Printf("\nAchievements: %d/%d unlocked\n", unlocked, len(snap.Achievements))
}

func printMedReport(report meds.Report) {
	icon := map[meds.Status]string{
		meds.StatusActive:     "●",
		meds.StatusWearingOff: "◐",
		meds.StatusWornOff:    "○",
	}[report.Status]
	med := report.Medication
	fmt.Printf("  %s %s %smg taken %s", icon, med.Name,
		strconv.FormatFloat(med.DosageMg, 'f', -1, 64), med.TimeTaken)
	if report.WindowLabel != "" {
		fmt.Printf(" (%s)", report.WindowLabel)
	}
	fmt.Printf(" - %s\n", report.Status)
}

func historyCmd() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	store, err := openStore(cfg)
	if err != nil {
		fmt.Printf("Error opening state: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()
	snap := store.Snapshot()

	section := "logs"
	if len(os.Args) > 2 {
		section = os.Args[2]
	}

	switch section {
	case "logs":
		if len(snap.CheckInHistory) == 0 {
			fmt.Println("No check-ins yet. Run 'flowstate checkin' to start.")
			return
		}
		fmt.Println("Check-in history (newest first):")
		for _, entry := range snap.CheckInHistory {
			fmt.Printf("  %s  sleep %d/10  energy %d/10  creative %s\n",
				entry.Date.Format("Jan 2, 2006 3:04 PM"),
				entry.SleepQuality, entry.EnergyLevel, format.Minutes(entry.CreativeTime))
			if entry.MoodNotes != "" {
				fmt.Printf("      %s\n", format.Truncate(entry.MoodNotes, 70))
			}
		}
	case "patterns":
		if len(snap.PatternHistory) == 0 {
			fmt.Println("No pattern insights yet.")
			return
		}
		fmt.Println("Pattern insights (newest first):")
		for _, p := range snap.PatternHistory {
			fmt.Printf("  [%s] %s\n", format.SeverityStyle(p.Severity), p.Pattern)
			if p.Recommendation != "" {
				fmt.Printf("      → %s\n", p.Recommendation)
			}
		}
	case "achievements":
		fmt.Println("Achievements:")
		for _, a := range snap.Achievements {
			if a.Unlocked {
				fmt.Printf("  🏆 %s - %s (unlocked %s)\n", a.Title, a.Description, format.Date(a.UnlockedAt))
			} else {
				fmt.Printf("  🔒 %s - %s\n", a.Title, a.Description)
			}
		}
	default:
		fmt.Printf("Unknown history section: %s\n", section)
		fmt.Println("Usage: flowstate history [logs|patterns|achievements]")
	}
}

func medsCmd() {
	if len(os.Args) > 2 && os.Args[2] == "catalog" {
		fmt.Println("Known medications:")
		for _, entry := range meds.Catalog() {
			fmt.Printf("  %s (%s) - %v-%vh\n", entry.Name, entry.Generic, entry.Duration.Min, entry.Duration.Max)
		}
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	store, err := openStore(cfg)
	if err != nil {
		fmt.Printf("Error opening state: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if len(os.Args) > 2 {
		switch os.Args[2] {
		case "add":
			medsAddCmd(store)
			return
		case "remove":
			medsRemoveCmd(store)
			return
		}
	}

	snap := store.Snapshot()
	if len(snap.Medications) == 0 {
		fmt.Println("No medications logged. Add one with 'flowstate meds add' or during 'flowstate checkin'.")
		return
	}

	fmt.Println("Medication status:")
	for i, report := range meds.ComputeStatus(snap.Medications, time.Now()) {
		fmt.Printf("%d.", i+1)
		printMedReport(report)
	}
}

// medsAddCmd logs a dose outside the wizard. Catalog names pick up their
// known window; unknown names fall back to 4-6 hours.
func medsAddCmd(store *state.Store) {
	name := ""
	dose := 0.0
	taken := "08:00"

	args := os.Args[3:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-n", "--name":
			if i+1 < len(args) {
				name = args[i+1]
				i++
			}
		case "--dose":
			if i+1 < len(args) {
				fmt.Sscanf(args[i+1], "%g", &dose)
				i++
			}
		case "--time":
			if i+1 < len(args) {
				taken = args[i+1]
				i++
			}
		}
	}

	if name == "" {
		fmt.Println("Error: --name is required")
		fmt.Println("Usage: flowstate meds add --name <name> [--dose <mg>] [--time HH:MM]")
		return
	}
	if _, err := time.Parse("15:04", taken); err != nil {
		fmt.Printf("Error: --time must be HH:MM, got %q\n", taken)
		return
	}

	entry := state.MedicationEntry{
		Name:      name,
		DosageMg:  dose,
		TimeTaken: taken,
		Duration:  state.Window{Min: 4, Max: 6},
	}
	if known, ok := meds.Lookup(name); ok {
		entry.Generic = known.Generic
		entry.Duration = known.Duration
	}

	if err := store.Update(func(st *state.AppState) {
		st.Medications = append(st.Medications, entry)
	}); err != nil {
		fmt.Printf("Error saving: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✓ Logged %s at %s\n", name, taken)
}

func medsRemoveCmd(store *state.Store) {
	if len(os.Args) < 4 {
		fmt.Println("Usage: flowstate meds remove <number>")
		return
	}
	idx, err := strconv.Atoi(os.Args[3])
	if err != nil || idx < 1 {
		fmt.Println("Usage: flowstate meds remove <number>")
		return
	}

	var removed *state.MedicationEntry
	if err := store.Update(func(st *state.AppState) {
		if idx > len(st.Medications) {
			return
		}
		m := st.Medications[idx-1]
		removed = &m
		st.Medications = append(st.Medications[:idx-1], st.Medications[idx:]...)
	}); err != nil {
		fmt.Printf("Error saving: %v\n", err)
		os.Exit(1)
	}
	if removed == nil {
		fmt.Printf("No medication at number %d\n", idx)
		return
	}
	fmt.Printf("✓ Removed %s\n", removed.Name)
}

func remindCmd() {
	if len(os.Args) < 3 {
		remindHelp()
		return
	}

	subcommand := os.Args[2]

	cfg, err := loadConfig()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		return
	}

	storePath := remindersPath(cfg)

	switch subcommand {
	case "list":
		remindListCmd(storePath)
	case "add":
		remindAddCmd(storePath)
	case "remove":
		if len(os.Args) < 4 {
			fmt.Println("Usage: flowstate remind remove <job_id>")
			return
		}
		remindRemoveCmd(storePath, os.Args[3])
	case "enable":
		remindEnableCmd(storePath, false)
	case "disable":
		remindEnableCmd(storePath, true)
	case "run":
		remindRunCmd(cfg, storePath)
	default:
		fmt.Printf("Unknown remind command: %s\n", subcommand)
		remindHelp()
	}
}

func remindHelp() {
	fmt.Println("\nRemind commands:")
	fmt.Println("  list              List all reminders")
	fmt.Println("  add               Add a new reminder")
	fmt.Println("  remove <id>       Remove a reminder by ID")
	fmt.Println("  enable <id>       Enable a reminder")
	fmt.Println("  disable <id>      Disable a reminder")
	fmt.Println("  run               Run the reminder loop (delivers to console/Discord)")
	fmt.Println()
	fmt.Println("Add options:")
	fmt.Println("  -n, --name        Reminder name")
	fmt.Println("  -m, --message     Reminder message")
	fmt.Println("  -e, --every       Fire every N seconds")
	fmt.Println("  -c, --cron        Cron expression (e.g. '0 9 * * *')")
}

func remindListCmd(storePath string) {
	svc := reminder.NewService(storePath, nil)
	jobs := svc.ListJobs(true)

	if len(jobs) == 0 {
		fmt.Println("No reminders.")
		return
	}

	fmt.Println("\nReminders:")
	fmt.Println("-----------")
	for _, job := range jobs {
		var schedule string
		if job.Schedule.Kind == "every" && job.Schedule.EveryMS != nil {
			schedule = fmt.Sprintf("every %ds", *job.Schedule.EveryMS/1000)
		} else {
			schedule = job.Schedule.Expr
		}

		nextRun := "scheduled"
		if job.State.NextRunAtMS != nil {
			nextRun = time.UnixMilli(*job.State.NextRunAtMS).Format("2006-01-02 15:04")
		}

		status := "enabled"
		if !job.Enabled {
			status = "disabled"
		}

		fmt.Printf("  %s (%s)\n", job.Name, job.ID)
		fmt.Printf("    Schedule: %s\n", schedule)
		fmt.Printf("    Status: %s\n", status)
		fmt.Printf("    Next run: %s\n", nextRun)
	}
}

func remindAddCmd(storePath string) {
	name := ""
	message := ""
	var everySec *int64
	cronExpr := ""

	args := os.Args[3:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-n", "--name":
			if i+1 < len(args) {
				name = args[i+1]
				i++
			}
		case "-m", "--message":
			if i+1 < len(args) {
				message = args[i+1]
				i++
			}
		case "-e", "--every":
			if i+1 < len(args) {
				var sec int64
				fmt.Sscanf(args[i+1], "%d", &sec)
				everySec = &sec
				i++
			}
		case "-c", "--cron":
			if i+1 < len(args) {
				cronExpr = args[i+1]
				i++
			}
		}
	}

	if name == "" {
		fmt.Println("Error: --name is required")
		return
	}
	if message == "" {
		fmt.Println("Error: --message is required")
		return
	}
	if everySec == nil && cronExpr == "" {
		fmt.Println("Error: Either --every or --cron must be specified")
		return
	}

	var schedule reminder.Schedule
	if everySec != nil {
		everyMS := *everySec * 1000
		schedule = reminder.Schedule{Kind: "every", EveryMS: &everyMS}
	} else {
		schedule = reminder.Schedule{Kind: "cron", Expr: cronExpr}
	}

	svc := reminder.NewService(storePath, nil)
	job, err := svc.AddJob(name, message, schedule)
	if err != nil {
		fmt.Printf("Error adding reminder: %v\n", err)
		return
	}

	fmt.Printf("✓ Added reminder '%s' (%s)\n", job.Name, job.ID)
}

func remindRemoveCmd(storePath, jobID string) {
	svc := reminder.NewService(storePath, nil)
	if svc.RemoveJob(jobID) {
		fmt.Printf("✓ Removed reminder %s\n", jobID)
	} else {
		fmt.Printf("✗ Reminder %s not found\n", jobID)
	}
}

func remindEnableCmd(storePath string, disable bool) {
	if len(os.Args) < 4 {
		fmt.Println("Usage: flowstate remind enable/disable <job_id>")
		return
	}

	jobID := os.Args[3]
	svc := reminder.NewService(storePath, nil)

	job := svc.EnableJob(jobID, !disable)
	if job != nil {
		status := "enabled"
		if disable {
			status = "disabled"
		}
		fmt.Printf("✓ Reminder '%s' %s\n", job.Name, status)
	} else {
		fmt.Printf("✗ Reminder %s not found\n", jobID)
	}
}

func remindRunCmd(cfg *config.Config, storePath string) {
	if !cfg.Reminders.Enabled {
		fmt.Println("Reminders are disabled in config (reminders.enabled).")
		return
	}

	nb := bus.NewNotificationBus()
	svc := reminder.NewService(storePath, nb)

	manager, err := channels.NewManager(cfg, nb)
	if err != nil {
		fmt.Printf("Error creating channel manager: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := manager.StartAll(ctx); err != nil {
		fmt.Printf("Error starting channels: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✓ Channels enabled: %s\n", strings.Join(manager.EnabledNames(), ", "))

	if err := svc.Start(); err != nil {
		fmt.Printf("Error starting reminder service: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("✓ Reminder service started")
	fmt.Println("Press Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	<-sigChan

	fmt.Println("\nShutting down...")
	svc.Stop()
	cancel()
	manager.StopAll(context.Background())
	nb.Close()
	fmt.Println("✓ Reminder loop stopped")
}

func sampleCmd() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	store, err := openStore(cfg)
	if err != nil {
		fmt.Printf("Error opening state: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	// Sample mode never touches disk: persistence is suspended before the
	// demo record replaces the in-memory one.
	store.SetPersistence(false)
	now := time.Now()
	sample := state.SampleState(achievements.Catalog(), now)
	if err := store.Update(func(st *state.AppState) { *st = *sample }); err != nil {
		fmt.Printf("Error loading sample data: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Demo data loaded (nothing persisted).")
	fmt.Println()
	printDashboard(store.Snapshot(), now)
	printSuggestions(store.Snapshot())
}
