package address

import (
	"context"
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/urfave/cli/v3"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"golang.org/x/term"

	"github.com/axeeeh/tempmail/config"
	"github.com/axeeeh/tempmail/internal/app"
	"github.com/axeeeh/tempmail/internal/storage"
	"github.com/axeeeh/tempmail/internal/tempmail"
)

const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

// AddressCommand prints the active disposable address, provisioning one
// through the fallback chain when no session exists.
var AddressCommand = &cli.Command{
	Name:    "address",
	Aliases: []string{"addr", "email"},
	Usage:   "Show or provision your disposable email address",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    "new",
			Aliases: []string{"n"},
			Usage:   "Provision a new address, replacing any stored one",
		},
		&cli.BoolFlag{
			Name:    "copy",
			Aliases: []string{"c"},
			Usage:   "Copy the address to the clipboard",
		},
		&cli.StringFlag{
			Name:  "provider",
			Usage: "Pin a provider (1secmail or mailtm) instead of running the fallback chain",
		},
		&cli.BoolFlag{
			Name:    "debug",
			Aliases: []string{"d"},
			Usage:   "Enable debug output",
		},
	},
	Action: addressAction,
}

func addressAction(ctx context.Context, cmd *cli.Command) error {
	debug := cmd.Bool("debug")

	cfg, err := config.Load("")
	if err != nil {
		return err
	}

	store, err := app.OpenStorage(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	var sess *tempmail.Session
	if !cmd.Bool("new") {
		stored, err := store.LoadSession()
		if err != nil {
			fmt.Printf("%s⚠ Stored session unreadable, provisioning a new address%s\n", paint(colorYellow), paint(colorReset))
		} else if stored != nil {
			sess, err = app.Restore(cfg, stored, debug)
			if err != nil {
				fmt.Printf("%s⚠ %v%s\n", paint(colorYellow), err, paint(colorReset))
				sess = nil
			}
		}
	}

	if sess == nil {
		sess, err = Provision(ctx, cfg, store, cmd.String("provider"), debug)
		if err != nil {
			return err
		}
	}

	fmt.Printf("%sYour email:%s %s%s%s%s\n",
		paint(colorBold), paint(colorReset),
		paint(colorBold), paint(colorCyan), sess.Mailbox.Address, paint(colorReset))
	if sess.Provider() == tempmail.ProviderMailTM {
		fmt.Printf("%sUsing mail.tm backend (fallback)%s\n", paint(colorYellow), paint(colorReset))
	}

	if cmd.Bool("copy") {
		CopyAddress(sess.Mailbox.Address)
	}

	return nil
}

// Provision runs the fallback chain with a spinner and stores the
// resulting session. A failed save is a warning, not a failure: the
// mailbox is live either way.
func Provision(ctx context.Context, cfg *config.Config, store *storage.Storage, pin string, debug bool) (*tempmail.Session, error) {
	providers, err := app.Providers(cfg, pin, debug)
	if err != nil {
		return nil, err
	}

	var progress *mpb.Progress
	var spinner *mpb.Bar
	if isTerminal() {
		progress = mpb.New(mpb.WithWidth(16))
		spinner = progress.AddSpinner(1,
			mpb.PrependDecorators(decor.Name("Provisioning mailbox...")),
			mpb.BarRemoveOnComplete(),
		)
	}

	sess, perr := tempmail.NewSelector(providers...).Provision(ctx)

	if spinner != nil {
		spinner.Increment()
		progress.Wait()
	}

	if perr != nil {
		return nil, perr
	}

	if err := store.SaveSession(app.Snapshot(sess)); err != nil {
		fmt.Printf("%s⚠ Failed to save session: %v%s\n", paint(colorYellow), err, paint(colorReset))
	}

	return sess, nil
}

// CopyAddress puts the address on the clipboard, degrading to a manual
// copy hint on headless systems.
func CopyAddress(address string) {
	if err := clipboard.WriteAll(address); err != nil {
		fmt.Printf("%sCopy failed (%v). Copy manually.%s\n", paint(colorYellow), err, paint(colorReset))
		return
	}
	fmt.Printf("%s✓ Address copied to clipboard%s\n", paint(colorGreen), paint(colorReset))
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// paint returns the ANSI code only when stdout is a terminal, so piped
// output stays clean.
func paint(code string) string {
	if !isTerminal() {
		return ""
	}
	return code
}
