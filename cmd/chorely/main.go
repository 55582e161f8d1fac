package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"chorely/internal/config"
	"chorely/internal/store/textstore"
	"chorely/internal/task"
	"chorely/internal/tui"
	"chorely/internal/ui"
)

var (
	// Global flags
	fileFlag    string
	profileFlag string
	configFlag  string
	verbose     bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "chorely",
	Short: "chorely - a chore list for the family terminal",
	Long: `chorely keeps a plain-text chore list, one task per line.

Tasks live in tasks.txt in the current directory, or in the file picked
by --file, --profile or the config. Trailing annotations schedule a
task: "dishes at:18:00-19:00 on:mon,wed" is active between 18:00 and
19:00 and only shows up on Mondays and Wednesdays.

Run without arguments to open the interactive list.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The interactive list owns the screen; no logger there.
		if cmd.Name() == "chorely" {
			return nil
		}
		zcfg := zap.NewProductionConfig()
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, cfgPath, err := loadConfig()
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		return tui.Run(st, cfg, cfgPath)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&fileFlag, "file", "f", "", "Task file (default: tasks.txt in the current directory)")
	rootCmd.PersistentFlags().StringVarP(&profileFlag, "profile", "p", "", "Named profile from the config")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Config file (default: ~/.chorely/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(lsCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(pinCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		ui.Fail(err.Error())
		var he hintedError
		if errors.As(err, &he) {
			ui.Hint(he.hint)
		}
		os.Exit(1)
	}
}

// hintedError carries a muted follow-up line printed under the error.
type hintedError struct {
	err  error
	hint string
}

func (e hintedError) Error() string { return e.err.Error() }
func (e hintedError) Unwrap() error { return e.err }

// loadConfig resolves the config path, loads it and applies the theme
// for terminal output.
func loadConfig() (*config.Config, string, error) {
	path := configFlag
	if path == "" {
		var err error
		path, err = config.Path()
		if err != nil {
			return nil, "", err
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	ui.Apply(cfg.Theme)
	return cfg, path, nil
}

// openStore picks the task file from flags, profile and config, in
// that order.
func openStore(cfg *config.Config) (*textstore.Store, error) {
	file, err := cfg.ResolveFile(fileFlag, profileFlag)
	if err != nil {
		return nil, err
	}
	return textstore.New(file)
}

// loadTasks opens the store and loads its list. Stale completions of
// repeating tasks come back reopened.
func loadTasks(cfg *config.Config) (*textstore.Store, task.List, error) {
	st, err := openStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	tasks, err := st.Load()
	if err != nil {
		return nil, nil, err
	}
	return st, tasks.Normalize(time.Now()), nil
}
