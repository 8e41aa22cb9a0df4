// Command adduser creates a user account directly against the database,
// bypassing the HTTP API. Intended for operators seeding a fresh install.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"syscall"

	"golang.org/x/term"

	"github.com/dsmirnov/authd/internal/common"
	"github.com/dsmirnov/authd/internal/logging"
	"github.com/dsmirnov/authd/internal/server/auth"
	"github.com/dsmirnov/authd/internal/server/config"
	"github.com/dsmirnov/authd/internal/server/notify"
	"github.com/dsmirnov/authd/internal/server/repositories/repomanager"
	"github.com/dsmirnov/authd/internal/server/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {

	var username, name, email, phone string
	flag.StringVar(&username, "username", "", "username (required)")
	flag.StringVar(&name, "name", "", "display name (required)")
	flag.StringVar(&email, "email", "", "email (optional)")
	flag.StringVar(&phone, "phone", "", "phone (optional)")
	dsn := flag.String("d", "", "database DSN (defaults to server config)")
	flag.Parse()

	if username == "" || name == "" {
		return errors.New("both -username and -name are required")
	}

	cfg := &config.Config{}
	cfg.LoadDefaults()
	if *dsn != "" {
		cfg.DatabaseDSN = *dsn
	}

	password, err := promptPassword()
	if err != nil {
		return err
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("db migration error: %w", err)
	}

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stderr, nil)))
	as := services.NewAuthService(db, rm, auth.NewArgon2idHasher(), notify.NewLogNotifier(logger), logger, cfg)

	var emailPtr, phonePtr *string
	if email != "" {
		emailPtr = &email
	}
	if phone != "" {
		phonePtr = &phone
	}

	user, err := as.Register(ctx, username, password, name, emailPtr, phonePtr)
	if err != nil {
		if errors.Is(err, common.ErrUserAlreadyExists) {
			return fmt.Errorf("user %q already exists", username)
		}
		return err
	}

	fmt.Printf("created user %q (id=%d)\n", user.Username, user.ID)
	return nil
}

func promptPassword() (string, error) {
	fmt.Print("Password: ")
	pw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("error reading password: %w", err)
	}

	fmt.Print("Repeat password: ")
	confirm, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("error reading password: %w", err)
	}

	if string(pw) != string(confirm) {
		return "", errors.New("passwords do not match")
	}
	if len(pw) == 0 {
		return "", errors.New("password must not be empty")
	}

	return string(pw), nil
}
