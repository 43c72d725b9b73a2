package burn

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/axeeeh/tempmail/config"
	"github.com/axeeeh/tempmail/internal/app"
)

// BurnCommand discards the active session: the mailbox, the pinned
// provider state and any stored fallback credentials go together.
var BurnCommand = &cli.Command{
	Name:    "burn",
	Aliases: []string{"logout", "reset"},
	Usage:   "Discard the active disposable address and its credentials",
	Action:  burnAction,
}

func burnAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load("")
	if err != nil {
		return err
	}

	store, err := app.OpenStorage(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	if !store.HasSession() {
		fmt.Println("No active address to burn.")
		return nil
	}

	if err := store.DeleteSession(); err != nil {
		return err
	}

	fmt.Println("🔥 Address burned. Run 'tempmail address' to get a fresh one.")
	return nil
}
