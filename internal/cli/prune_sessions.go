package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ndreev/passport/internal/config"
	"github.com/ndreev/passport/internal/database"
	"github.com/ndreev/passport/internal/database/sessions"
)

// PruneSessionsCommand deletes expired sessions from the database.
type PruneSessionsCommand struct {
	DatabasePath string
}

func NewPruneSessionsCommand() *PruneSessionsCommand {
	return &PruneSessionsCommand{}
}

func (cmd *PruneSessionsCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("prune-sessions", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s prune-sessions [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Delete all expired sessions.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *PruneSessionsCommand) Run() error {
	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	repo := sessions.NewRepository(db.DB)

	pruned, err := repo.DeleteExpired(context.Background(), time.Now())
	if err != nil {
		return fmt.Errorf("failed to prune sessions: %w", err)
	}

	fmt.Printf("Pruned %d expired sessions\n", pruned)
	return nil
}
