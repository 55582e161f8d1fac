package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"chorely/internal/config"
	"chorely/internal/task"
	"chorely/internal/ui"
)

var (
	addAt   string
	addOn   string
	pinFlag string
)

func init() {
	addCmd.Flags().StringVar(&addAt, "at", "", "Active window, HH:MM-HH:MM")
	addCmd.Flags().StringVar(&addOn, "on", "", "Repeat days: mon,tue,... or all")
	rmCmd.Flags().StringVar(&pinFlag, "pin", "", "PIN confirming the removal")
	clearCmd.Flags().StringVar(&pinFlag, "pin", "", "PIN confirming the removal")
}

var addCmd = &cobra.Command{
	Use:   "add TITLE...",
	Short: "Add a task",
	Long: `Add a task to the end of the list. Trailing at:/on: annotations in
the title are recognized, and the --at/--on flags override them.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		st, tasks, err := loadTasks(cfg)
		if err != nil {
			return err
		}

		t, ok := task.ParseLine(strings.Join(args, " "))
		if !ok || t.Title == "" {
			return errors.New("title cannot be empty")
		}
		if addAt != "" {
			w, err := task.ParseWindow(addAt)
			if err != nil {
				return err
			}
			t.Window = w
		}
		if addOn != "" {
			d, err := task.ParseDays(addOn)
			if err != nil {
				return err
			}
			t.Days = d
		}

		if err := st.Save(append(tasks, t)); err != nil {
			return err
		}
		logger.Debug("task added",
			zap.String("title", t.Title),
			zap.String("file", st.Path()))
		ui.OK("added")
		return nil
	},
}

var doneCmd = &cobra.Command{
	Use:   "done INDEX",
	Short: "Toggle completion for the task at a 1-based index",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		st, tasks, err := loadTasks(cfg)
		if err != nil {
			return err
		}
		idx, err := parseIndex(args[0], len(tasks))
		if err != nil {
			return err
		}

		tasks[idx].Toggle(time.Now())
		if err := st.Save(tasks); err != nil {
			return err
		}
		logger.Debug("task toggled",
			zap.Int("index", idx+1),
			zap.Bool("done", tasks[idx].Done))
		ui.OK("toggled")
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm INDEX",
	Short: "Remove the task at a 1-based index",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		if err := requirePIN(cfg); err != nil {
			return err
		}
		st, tasks, err := loadTasks(cfg)
		if err != nil {
			return err
		}
		idx, err := parseIndex(args[0], len(tasks))
		if err != nil {
			return err
		}

		removed := tasks[idx].Title
		tasks = append(tasks[:idx], tasks[idx+1:]...)
		if err := st.Save(tasks); err != nil {
			return err
		}
		logger.Debug("task removed", zap.String("title", removed))
		ui.OK("removed")
		return nil
	},
}

var editCmd = &cobra.Command{
	Use:   "edit INDEX TITLE...",
	Short: "Retitle the task at a 1-based index",
	Long: `Replace a task's title, keeping its schedule. Trailing at:/on:
annotations in the new title replace the old ones.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		st, tasks, err := loadTasks(cfg)
		if err != nil {
			return err
		}
		idx, err := parseIndex(args[0], len(tasks))
		if err != nil {
			return err
		}

		parsed, ok := task.ParseLine(strings.Join(args[1:], " "))
		if !ok || parsed.Title == "" {
			return errors.New("title cannot be empty")
		}
		tasks[idx].Title = parsed.Title
		if !parsed.Window.IsZero() {
			tasks[idx].Window = parsed.Window
		}
		if !parsed.Days.IsZero() {
			tasks[idx].Days = parsed.Days
		}
		if err := st.Save(tasks); err != nil {
			return err
		}
		ui.OK("edited")
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all completed tasks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		if err := requirePIN(cfg); err != nil {
			return err
		}
		st, tasks, err := loadTasks(cfg)
		if err != nil {
			return err
		}

		now := time.Now()
		kept := make(task.List, 0, len(tasks))
		for _, t := range tasks {
			if !t.DoneAt(now) {
				kept = append(kept, t)
			}
		}
		if err := st.Save(kept); err != nil {
			return err
		}
		logger.Debug("cleared completed tasks", zap.Int("removed", len(tasks)-len(kept)))
		ui.OK(fmt.Sprintf("cleared %d", len(tasks)-len(kept)))
		return nil
	},
}

// parseIndex validates a 1-based index argument against the list
// length and returns it 0-based.
func parseIndex(arg string, n int) (int, error) {
	u, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("not a number: %s", arg)
	}
	if u < 1 || u > n {
		return 0, hintedError{
			err:  fmt.Errorf("index out of range: have %d, got %d", n, u),
			hint: "Hint: run `chorely ls` to see valid indexes",
		}
	}
	return u - 1, nil
}

// requirePIN enforces the configured PIN for destructive commands.
func requirePIN(cfg *config.Config) error {
	if !cfg.HasPIN() {
		return nil
	}
	if pinFlag == "" {
		return hintedError{
			err:  errors.New("a PIN is set"),
			hint: "Hint: pass --pin to confirm",
		}
	}
	if !cfg.CheckPIN(pinFlag) {
		return errors.New("wrong PIN")
	}
	return nil
}
