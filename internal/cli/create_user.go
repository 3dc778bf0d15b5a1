package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ndreev/passport/internal/auth"
	"github.com/ndreev/passport/internal/config"
	"github.com/ndreev/passport/internal/database"
	"github.com/ndreev/passport/internal/database/users"
)

// CreateUserCommand registers a user from the command line, bypassing the
// HTTP signup endpoint.
type CreateUserCommand struct {
	Name         string
	Email        string
	Password     string
	DatabasePath string
}

func NewCreateUserCommand() *CreateUserCommand {
	return &CreateUserCommand{}
}

func (cmd *CreateUserCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("create-user", flag.ExitOnError)

	fs.StringVar(&cmd.Name, "name", "", "Display name of the user (required)")
	fs.StringVar(&cmd.Email, "email", "", "Email address, must be unique (required)")
	fs.StringVar(&cmd.Password, "password", "", "Password, at least 8 characters (required)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s create-user -name <name> -email <email> -password <password> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Register a new user directly in the database.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Name == "" || cmd.Email == "" || cmd.Password == "" {
		return fmt.Errorf("flags -name, -email and -password are all required")
	}
	if len(cmd.Password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	return nil
}

func (cmd *CreateUserCommand) Run() error {
	cfg := config.NewConfig()

	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	service := auth.NewService(users.NewRepository(db.DB), cfg.Auth)

	user, err := service.Signup(context.Background(), cmd.Name, cmd.Email, cmd.Password)
	if err != nil {
		return err
	}

	fmt.Printf("Created user %s (%s) with id %s\n", user.Name, user.Email, user.ID)
	return nil
}
