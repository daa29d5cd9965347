package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"finance-tracker/internal/config"
	"finance-tracker/internal/database"
	"finance-tracker/internal/models"
	"finance-tracker/internal/repositories"
	"finance-tracker/internal/services"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/term"
	"gorm.io/gorm/logger"
)

type userStore struct {
	users     repositories.UserRepositoryInterface
	passwords services.PasswordServiceInterface
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	db, err := database.New(&cfg.Database, logger.Silent)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	userRepo := repositories.NewUserRepository(db.DB)
	store := userStore{
		users:     userRepo,
		passwords: services.NewPasswordService(userRepo, cfg.Security),
	}

	if err := run(context.Background(), os.Args[1:], store, os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, store userStore, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("adduser", flag.ContinueOnError)
	fs.SetOutput(stderr)

	email := fs.String("email", "", "Email address")
	name := fs.String("name", "", "Display name (optional)")
	passwordFlag := fs.String("password", "", "Password (optional, will prompt if omitted)")
	generate := fs.Bool("generate", false, "Generate a random password and print it")

	if err := fs.Parse(args); err != nil {
		return err
	}

	normalized := models.NormalizeEmail(*email)
	if normalized == "" {
		fmt.Fprintln(stdout, "Usage: adduser -email <email> [-name <name>] [-password <password> | -generate]")
		fs.PrintDefaults()
		return errors.New("missing required flags: email")
	}

	password := *passwordFlag
	switch {
	case *generate:
		generated, err := store.passwords.GenerateSecurePassword()
		if err != nil {
			return err
		}
		password = generated
	case password == "":
		fmt.Fprint(stdout, "Password: ")
		read, err := readPassword(stdin)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(stdout)
		password = read
	}

	if err := store.passwords.ValidatePassword(password); err != nil {
		return err
	}

	if existing, err := store.users.GetByEmail(ctx, normalized); err == nil && existing != nil {
		return fmt.Errorf("user %s already exists", normalized)
	} else if err != nil && !errors.Is(err, repositories.ErrUserNotFound) {
		return fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := store.passwords.HashPassword(password)
	if err != nil {
		return err
	}

	user := &models.User{Email: normalized, PasswordHash: &hash}
	if trimmed := strings.TrimSpace(*name); trimmed != "" {
		user.Name = &trimmed
	}

	if err := store.users.CreateWithCategories(ctx, user, models.NewDefaultCategories(uuid.Nil)); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Fprintf(stdout, "User %s created successfully with ID %s\n", user.Email, user.ID)
	if *generate {
		fmt.Fprintf(stdout, "Generated password: %s\n", password)
	}
	return nil
}

func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		raw, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}

	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
