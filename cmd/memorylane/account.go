package main

import (
	"context"
	"errors"
	"fmt"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"memorylane/pkg/auth"
	"memorylane/pkg/config"
	"memorylane/pkg/logger"
	"memorylane/pkg/storage"
)

// accountCmd represents the account command
var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage the login account",
}

// setPasswordCmd represents the account set-password command
var setPasswordCmd = &cobra.Command{
	Use:   "set-password [username]",
	Short: "Change the stored account password",
	Long: `Change the password of the stored account.

The password is read from the terminal without echo. When no username is
given, the default account is changed. The account is created if it does
not exist yet.`,
	Example: `  # Change the default account's password
  memorylane account set-password

  # Change a specific account
  memorylane account set-password vuvu`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSetPassword,
}

func init() {
	accountCmd.AddCommand(setPasswordCmd)
	rootCmd.AddCommand(accountCmd)
}

func runSetPassword(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil {
		// no .env file is fine
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if cfg.Database.URL == "" {
		return errors.New("DATABASE_URL is not set; a credential store is required to change passwords")
	}

	username := auth.DefaultUsername
	if len(args) == 1 {
		username = args[0]
	}

	fmt.Print("New password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	fmt.Print("Confirm password: ")
	confirm, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	if string(password) != string(confirm) {
		return errors.New("passwords do not match")
	}
	if len(password) == 0 {
		return errors.New("password must not be empty")
	}

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		return err
	}

	ctx := context.Background()
	store, err := storage.NewPostgresStore(ctx, cfg.Database.URL, log)
	if err != nil {
		return err
	}
	defer store.Close()

	hash, err := auth.HashPassword(string(password))
	if err != nil {
		return err
	}

	existing, err := store.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if existing == nil {
		if _, err := store.Create(ctx, username, hash); err != nil {
			return err
		}
		fmt.Printf("Account %q created\n", username)
		return nil
	}

	if err := store.UpdatePassword(ctx, username, hash); err != nil {
		return err
	}
	fmt.Printf("Password updated for %q\n", username)
	return nil
}
