package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func executeCLI() error {
	root := buildRootCommand()
	if err := root.Execute(); err != nil {
		return err
	}
	return nil
}

func buildRootCommand() *cobra.Command {
	var showVersion bool

	root := &cobra.Command{
		Use:   "flowstate",
		Short: "AI-coached habit tracker with streaks, HP, and a check-in wizard",
		Long: strings.TrimSpace(`flowstate is a terminal companion for daily habit tracking.

Use CLI commands to onboard, run daily check-ins, fetch coaching suggestions,
chat with the oracle, and schedule check-in reminders.`),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				printVersion()
				return nil
			}
			_ = cmd.Help()
			return fmt.Errorf("a subcommand is required")
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.Flags().BoolVarP(&showVersion, "version", "v", false, "Show build/version metadata")

	root.AddCommand(newOnboardCommand())
	root.AddCommand(newCheckinCommand())
	root.AddCommand(newSuggestCommand())
	root.AddCommand(newChatCommand())
	root.AddCommand(newStatusCommand())
	root.AddCommand(newHistoryCommand())
	root.AddCommand(newMedsCommand())
	root.AddCommand(newRemindCommand())
	root.AddCommand(newSampleCommand())
	root.AddCommand(newVersionCommand())

	return root
}

func runLegacyWithArgs(args []string, fn func()) error {
	original := os.Args
	os.Args = append([]string{original[0]}, args...)
	defer func() {
		os.Args = original
	}()
	fn()
	return nil
}

func newOnboardCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "onboard",
		Short:   "Initialize ~/.flowstate config and data directory",
		Long:    "Create the default configuration and data directory for a new flowstate installation.",
		Example: "  flowstate onboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLegacyWithArgs([]string{"onboard"}, onboard)
		},
	}
}

func newCheckinCommand() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:     "checkin",
		Short:   "Run the daily check-in wizard",
		Long:    "Walk through sleep, energy, caffeine, medication, and mood questions, then submit to the check-in agent.",
		Example: "  flowstate checkin",
		RunE: func(cmd *cobra.Command, args []string) error {
			legacyArgs := []string{"checkin"}
			if debug {
				legacyArgs = append(legacyArgs, "--debug")
			}
			return runLegacyWithArgs(legacyArgs, checkinCmd)
		},
	}

	cmd.Flags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")
	return cmd
}

func newSuggestCommand() *cobra.Command {
	suggestRoot := &cobra.Command{
		Use:     "suggest",
		Short:   "Fetch coaching suggestions from the coach agent",
		Example: "  flowstate suggest",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLegacyWithArgs([]string{"suggest"}, suggestCmd)
		},
	}

	suggestRoot.AddCommand(&cobra.Command{
		Use:     "list",
		Short:   "Show the current suggestion list without fetching",
		Example: "  flowstate suggest list",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLegacyWithArgs([]string{"suggest", "list"}, suggestCmd)
		},
	})

	done := &cobra.Command{
		Use:     "done <number>",
		Short:   "Mark a suggestion as completed",
		Args:    cobra.ExactArgs(1),
		Example: "  flowstate suggest done 1",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := strconv.Atoi(args[0]); err != nil {
				return fmt.Errorf("suggestion number must be numeric, got %q", args[0])
			}
			return runLegacyWithArgs([]string{"suggest", "done", args[0]}, suggestCmd)
		},
	}
	suggestRoot.AddCommand(done)

	skip := &cobra.Command{
		Use:     "skip <number>",
		Short:   "Mark a suggestion as skipped",
		Args:    cobra.ExactArgs(1),
		Example: "  flowstate suggest skip 2",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := strconv.Atoi(args[0]); err != nil {
				return fmt.Errorf("suggestion number must be numeric, got %q", args[0])
			}
			return runLegacyWithArgs([]string{"suggest", "skip", args[0]}, suggestCmd)
		},
	}
	suggestRoot.AddCommand(skip)

	return suggestRoot
}

func newChatCommand() *cobra.Command {
	var (
		message string
		debug   bool
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the oracle agent (interactive or one-shot)",
		Example: strings.Join([]string{
			"  flowstate chat",
			"  flowstate chat --message \"why am I so tired today?\"",
		}, "\n"),
		RunE: func(cmd *cobra.Command, args []string) error {
			legacyArgs := []string{"chat"}
			if debug {
				legacyArgs = append(legacyArgs, "--debug")
			}
			if strings.TrimSpace(message) != "" {
				legacyArgs = append(legacyArgs, "--message", message)
			}
			return runLegacyWithArgs(legacyArgs, chatCmd)
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "One-shot message to send to the oracle")
	cmd.Flags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")
	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Short:   "Show streak, HP, today's slots, stats, and medication status",
		Example: "  flowstate status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLegacyWithArgs([]string{"status"}, statusCmd)
		},
	}
}

func newHistoryCommand() *cobra.Command {
	historyRoot := &cobra.Command{
		Use:     "history",
		Short:   "Browse check-in logs, pattern insights, and achievements",
		Example: "  flowstate history logs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLegacyWithArgs([]string{"history"}, historyCmd)
		},
	}

	for _, section := range []string{"logs", "patterns", "achievements"} {
		section := section
		historyRoot.AddCommand(&cobra.Command{
			Use:     section,
			Short:   fmt.Sprintf("Show %s", section),
			Example: fmt.Sprintf("  flowstate history %s", section),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runLegacyWithArgs([]string{"history", section}, historyCmd)
			},
		})
	}

	return historyRoot
}

func newMedsCommand() *cobra.Command {
	medsRoot := &cobra.Command{
		Use:     "meds",
		Short:   "Show wear-off status for today's logged doses",
		Example: "  flowstate meds",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLegacyWithArgs([]string{"meds"}, medsCmd)
		},
	}

	medsRoot.AddCommand(&cobra.Command{
		Use:     "catalog",
		Short:   "List known medications and their duration windows",
		Example: "  flowstate meds catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLegacyWithArgs([]string{"meds", "catalog"}, medsCmd)
		},
	})

	var (
		medName string
		medDose float64
		medTime string
	)

	add := &cobra.Command{
		Use:   "add",
		Short: "Log a dose outside the check-in wizard",
		Example: strings.Join([]string{
			"  flowstate meds add --name Vyvanse --dose 40 --time 08:00",
			"  flowstate meds add --name \"Custom thing\" --dose 5",
		}, "\n"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(medName) == "" {
				return fmt.Errorf("--name is required")
			}
			if _, err := time.Parse("15:04", medTime); err != nil {
				return fmt.Errorf("--time must be HH:MM, got %q", medTime)
			}
			legacyArgs := []string{"meds", "add", "--name", medName,
				"--dose", strconv.FormatFloat(medDose, 'f', -1, 64), "--time", medTime}
			return runLegacyWithArgs(legacyArgs, medsCmd)
		},
	}
	add.Flags().StringVarP(&medName, "name", "n", "", "Medication name")
	add.Flags().Float64Var(&medDose, "dose", 0, "Dose in mg")
	add.Flags().StringVar(&medTime, "time", "08:00", "Time taken (HH:MM)")
	medsRoot.AddCommand(add)

	remove := &cobra.Command{
		Use:     "remove <number>",
		Aliases: []string{"rm"},
		Short:   "Remove a logged dose by its list number",
		Args:    cobra.ExactArgs(1),
		Example: "  flowstate meds remove 1",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := strconv.Atoi(args[0]); err != nil {
				return fmt.Errorf("expected a dose number, got %q", args[0])
			}
			return runLegacyWithArgs([]string{"meds", "remove", args[0]}, medsCmd)
		},
	}
	medsRoot.AddCommand(remove)

	return medsRoot
}

func newRemindCommand() *cobra.Command {
	remindRoot := &cobra.Command{
		Use:   "remind",
		Short: "Manage check-in reminders",
		Long:  "Create and manage recurring or cron-expression based check-in reminders.",
	}

	remindRoot.AddCommand(&cobra.Command{
		Use:     "list",
		Short:   "List reminders",
		Example: "  flowstate remind list",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLegacyWithArgs([]string{"remind", "list"}, remindCmd)
		},
	})

	var (
		name    string
		message string
		every   int64
		expr    string
	)

	add := &cobra.Command{
		Use:   "add",
		Short: "Add a reminder",
		Long:  "Add a recurring reminder with either --every (seconds) or --cron expression.",
		Example: strings.Join([]string{
			"  flowstate remind add --name morning --message \"Time for your check-in\" --cron '0 9 * * *'",
			"  flowstate remind add --name hydrate --message \"Drink water\" --every 3600",
		}, "\n"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(name) == "" {
				return fmt.Errorf("--name is required")
			}
			if strings.TrimSpace(message) == "" {
				return fmt.Errorf("--message is required")
			}
			if every <= 0 && strings.TrimSpace(expr) == "" {
				return fmt.Errorf("either --every or --cron must be provided")
			}
			if every > 0 && strings.TrimSpace(expr) != "" {
				return fmt.Errorf("--every and --cron are mutually exclusive")
			}

			legacyArgs := []string{"remind", "add", "--name", name, "--message", message}
			if every > 0 {
				legacyArgs = append(legacyArgs, "--every", strconv.FormatInt(every, 10))
			}
			if strings.TrimSpace(expr) != "" {
				legacyArgs = append(legacyArgs, "--cron", expr)
			}
			return runLegacyWithArgs(legacyArgs, remindCmd)
		},
	}

	add.Flags().StringVarP(&name, "name", "n", "", "Reminder name")
	add.Flags().StringVarP(&message, "message", "m", "", "Reminder message")
	add.Flags().Int64VarP(&every, "every", "e", 0, "Fire every N seconds")
	add.Flags().StringVarP(&expr, "cron", "c", "", "Cron expression (e.g. '0 9 * * *')")
	remindRoot.AddCommand(add)

	remove := &cobra.Command{
		Use:     "remove <job_id>",
		Aliases: []string{"rm", "delete"},
		Short:   "Remove a reminder",
		Args:    cobra.ExactArgs(1),
		Example: "  flowstate remind remove job_abc123",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLegacyWithArgs([]string{"remind", "remove", args[0]}, remindCmd)
		},
	}
	remindRoot.AddCommand(remove)

	enable := &cobra.Command{
		Use:     "enable <job_id>",
		Short:   "Enable a disabled reminder",
		Args:    cobra.ExactArgs(1),
		Example: "  flowstate remind enable job_abc123",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLegacyWithArgs([]string{"remind", "enable", args[0]}, remindCmd)
		},
	}
	remindRoot.AddCommand(enable)

	disable := &cobra.Command{
		Use:     "disable <job_id>",
		Short:   "Disable a reminder",
		Args:    cobra.ExactArgs(1),
		Example: "  flowstate remind disable job_abc123",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLegacyWithArgs([]string{"remind", "disable", args[0]}, remindCmd)
		},
	}
	remindRoot.AddCommand(disable)

	run := &cobra.Command{
		Use:     "run",
		Short:   "Run the reminder delivery loop (console + Discord)",
		Example: "  flowstate remind run",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLegacyWithArgs([]string{"remind", "run"}, remindCmd)
		},
	}
	remindRoot.AddCommand(run)

	return remindRoot
}

func newSampleCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "sample",
		Short:   "Preview the dashboard with demo data (nothing persisted)",
		Example: "  flowstate sample",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLegacyWithArgs([]string{"sample"}, sampleCmd)
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   "Show build/version metadata",
		Example: "  flowstate version",
		RunE: func(cmd *cobra.Command, args []string) error {
			printVersion()
			return nil
		},
	}
}
