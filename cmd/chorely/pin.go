package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"chorely/internal/ui"
)

var pinCmd = &cobra.Command{
	Use:   "pin",
	Short: "Manage the PIN guarding destructive commands",
	Long: `A 6-digit PIN gates rm and clear, and deleting from the interactive
list. It keeps small hands off the delete keys; it is not a security
boundary.`,
}

var pinSetCmd = &cobra.Command{
	Use:   "set [PIN]",
	Short: "Set the PIN",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, cfgPath, err := loadConfig()
		if err != nil {
			return err
		}

		pin := ""
		if len(args) == 1 {
			pin = args[0]
		} else {
			fmt.Print("New PIN (6 digits): ")
			if _, err := fmt.Scanln(&pin); err != nil {
				return fmt.Errorf("read PIN: %w", err)
			}
		}
		if err := cfg.SetPIN(pin); err != nil {
			return err
		}
		if err := cfg.Save(cfgPath); err != nil {
			return err
		}
		ui.OK("PIN set")
		return nil
	},
}

var pinClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the PIN",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, cfgPath, err := loadConfig()
		if err != nil {
			return err
		}
		if !cfg.HasPIN() {
			ui.OK("no PIN was set")
			return nil
		}
		if pinFlag == "" || !cfg.CheckPIN(pinFlag) {
			return errors.New("pass the current PIN with --pin")
		}
		cfg.ClearPIN()
		if err := cfg.Save(cfgPath); err != nil {
			return err
		}
		ui.OK("PIN removed")
		return nil
	},
}

var pinStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a PIN is set",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		if !cfg.HasPIN() {
			fmt.Println(ui.C(ui.Current().Muted, "no PIN set"))
			fmt.Println("Run: chorely pin set")
			return nil
		}
		fmt.Println("PIN: set")
		fmt.Println("rm and clear need --pin; the interactive list asks before deleting")
		return nil
	},
}

func init() {
	pinClearCmd.Flags().StringVar(&pinFlag, "pin", "", "Current PIN")
	pinCmd.AddCommand(pinSetCmd)
	pinCmd.AddCommand(pinClearCmd)
	pinCmd.AddCommand(pinStatusCmd)
}
