package inbox

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/axeeeh/tempmail/actions/address"
	"github.com/axeeeh/tempmail/config"
	"github.com/axeeeh/tempmail/internal/app"
	"github.com/axeeeh/tempmail/internal/storage"
	"github.com/axeeeh/tempmail/internal/tempmail"
)

const (
	colorReset   = "\033[0m"
	colorBold    = "\033[1m"
	colorDim     = "\033[2m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
	colorWhite   = "\033[37m"
)

const banner = `
 _____                    __  __       _ _
|_   _|__ _ __ ___  _ __ |  \/  | __ _(_) |
  | |/ _ \ '_ ` + "`" + ` _ \| '_ \| |\/| |/ _` + "`" + ` | | |
  | |  __/ | | | | | |_) | |  | | (_| | | |
  |_|\___|_| |_| |_| .__/|_|  |_|\__,_|_|_|
                   |_|`

// saveAllConcurrency bounds parallel body fetches during "save all".
const saveAllConcurrency = 4

var InboxCommand = &cli.Command{
	Name:    "inbox",
	Aliases: []string{"in", "mailbox"},
	Usage:   "Open the interactive inbox for your disposable address",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "provider",
			Usage: "Pin a provider (1secmail or mailtm) instead of running the fallback chain",
		},
		&cli.BoolFlag{
			Name:    "debug",
			Aliases: []string{"d"},
			Usage:   "Enable debug mode",
		},
	},
	Action: inboxAction,
}

func inboxAction(ctx context.Context, cmd *cli.Command) error {
	debug := cmd.Bool("debug")
	pin := cmd.String("provider")

	cfg, err := config.Load("")
	if err != nil {
		return err
	}

	store, err := app.OpenStorage(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	sess, err := ensureSession(ctx, cfg, store, pin, debug)
	if err != nil {
		return err
	}

	refresher := app.NewRefresher(cfg)
	return runInteractiveMode(ctx, cfg, store, sess, refresher, pin, debug)
}

// ensureSession resumes the stored mailbox or provisions a new one.
func ensureSession(ctx context.Context, cfg *config.Config, store *storage.Storage, pin string, debug bool) (*tempmail.Session, error) {
	stored, err := store.LoadSession()
	if err == nil && stored != nil {
		sess, rerr := app.Restore(cfg, stored, debug)
		if rerr == nil {
			return sess, nil
		}
		fmt.Printf("%s⚠ %v%s\n", colorYellow, rerr, colorReset)
	}

	return address.Provision(ctx, cfg, store, pin, debug)
}

func runInteractiveMode(ctx context.Context, cfg *config.Config, store *storage.Storage, sess *tempmail.Session, refresher *tempmail.Refresher, pin string, debug bool) error {
	reader := bufio.NewReader(os.Stdin)

	for {
		clearScreen()
		printBanner()
		fmt.Printf("Your email: %s%s%s%s  %s[%s]%s\n\n",
			colorBold, colorCyan, sess.Mailbox.Address, colorReset,
			colorDim, sess.Provider(), colorReset)

		view := sess.Inbox(ctx, refresher)
		if view.Err != nil {
			fmt.Printf("%s⚠ Inbox temporarily unavailable: %v%s\n", colorYellow, view.Err, colorReset)
		}
		displayInbox(view.Messages)
		if view.Updated {
			fmt.Printf("%s✦ Inbox updated while fetching%s\n", colorGreen, colorReset)
		}

		fmt.Printf("\n%sCommands:%s [number] Read message • %sr%s Refresh • %sn%s New address • %sc%s Copy • %ss%s Save • %sa%s Save all • %sq%s Quit\n",
			colorCyan, colorReset, colorGreen, colorReset, colorMagenta, colorReset,
			colorCyan, colorReset, colorYellow, colorReset, colorYellow, colorReset, colorRed, colorReset)
		fmt.Printf("%s➜ %s", colorGreen, colorReset)

		input, _ := reader.ReadString('\n')
		input = strings.TrimSpace(input)

		switch strings.ToLower(input) {
		case "q", "quit", "exit":
			fmt.Printf("\n%s👋 Goodbye!%s\n", colorCyan, colorReset)
			return nil

		case "r", "refresh":
			doRefresh(ctx, sess)
			pause(reader)

		case "n", "new":
			fresh, err := address.Provision(ctx, cfg, store, pin, debug)
			if err != nil {
				if errors.Is(err, tempmail.ErrProvisioningFailed) {
					return err
				}
				fmt.Printf("%s✗ %v%s\n", colorRed, err, colorReset)
				pause(reader)
				continue
			}
			sess = fresh

		case "c", "copy":
			address.CopyAddress(sess.Mailbox.Address)
			pause(reader)

		case "s", "save":
			saveOne(ctx, store, sess, view.Messages, reader)

		case "a", "saveall", "save all":
			saveAll(ctx, store, sess, view.Messages)
			pause(reader)

		case "":
			continue

		default:
			num, err := strconv.Atoi(input)
			if err != nil || num < 1 || num > len(view.Messages) {
				fmt.Printf("%s✗ Invalid selection. Enter a number 1-%d%s\n", colorRed, len(view.Messages), colorReset)
				time.Sleep(1 * time.Second)
				continue
			}
			readMessage(ctx, sess, view.Messages[num-1], reader)
		}
	}
}

// doRefresh performs the explicit authoritative fetch and reports
// arrivals by count comparison. Same-count churn reads as "no change";
// that is a known limit of the check.
func doRefresh(ctx context.Context, sess *tempmail.Session) {
	msgs, newMail, err := sess.Refresh(ctx)
	if err != nil {
		fmt.Printf("%s⚠ Refresh failed: %v%s\n", colorYellow, err, colorReset)
		return
	}

	if newMail {
		fmt.Printf("%s📬 New messages arrived!%s\n", colorGreen, colorReset)
	} else {
		fmt.Printf("%sNo new messages (%d total)%s\n", colorDim, len(msgs), colorReset)
	}
}

func readMessage(ctx context.Context, sess *tempmail.Session, summary tempmail.MessageSummary, reader *bufio.Reader) {
	msg, err := sess.Read(ctx, summary.ID)
	if err != nil {
		if errors.Is(err, tempmail.ErrNotFound) {
			fmt.Printf("%s✗ Message no longer exists (expired or mailbox replaced)%s\n", colorRed, colorReset)
		} else {
			fmt.Printf("%s✗ Failed to read message: %v%s\n", colorRed, err, colorReset)
		}
		pause(reader)
		return
	}

	clearScreen()
	fmt.Printf("%s%s── Message ──────────────────────────────────────%s\n", colorBold, colorMagenta, colorReset)
	fmt.Printf("%sFrom:%s    %s\n", colorCyan, colorReset, msg.From)
	fmt.Printf("%sSubject:%s %s\n", colorCyan, colorReset, msg.Subject)
	fmt.Printf("%sDate:%s    %s\n\n", colorCyan, colorReset, formatDate(msg.Date))
	fmt.Println(msg.Body)
	fmt.Printf("\n%s─────────────────────────────────────────────────%s\n", colorDim, colorReset)
	pause(reader)
}

func saveOne(ctx context.Context, store *storage.Storage, sess *tempmail.Session, msgs []tempmail.MessageSummary, reader *bufio.Reader) {
	if len(msgs) == 0 {
		fmt.Printf("%sNothing to save%s\n", colorDim, colorReset)
		pause(reader)
		return
	}

	fmt.Printf("Message number to save: ")
	input, _ := reader.ReadString('\n')
	num, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || num < 1 || num > len(msgs) {
		fmt.Printf("%s✗ Invalid selection%s\n", colorRed, colorReset)
		pause(reader)
		return
	}

	msg, err := sess.Read(ctx, msgs[num-1].ID)
	if err != nil {
		fmt.Printf("%s✗ Failed to fetch message: %v%s\n", colorRed, err, colorReset)
		pause(reader)
		return
	}

	path, err := store.SaveMessage(sess.Mailbox.Address, msg)
	if err != nil {
		fmt.Printf("%s✗ %v%s\n", colorRed, err, colorReset)
		pause(reader)
		return
	}

	fmt.Printf("%s✓ Saved to %s%s\n", colorGreen, path, colorReset)
	pause(reader)
}

// saveAll fetches every message body concurrently and writes each one
// to disk. Messages that vanished mid-flight are skipped, not fatal.
func saveAll(ctx context.Context, store *storage.Storage, sess *tempmail.Session, msgs []tempmail.MessageSummary) {
	if len(msgs) == 0 {
		fmt.Printf("%sNothing to save%s\n", colorDim, colorReset)
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(saveAllConcurrency)

	for _, summary := range msgs {
		summary := summary
		g.Go(func() error {
			msg, err := sess.Read(gctx, summary.ID)
			if err != nil {
				if errors.Is(err, tempmail.ErrNotFound) {
					return nil
				}
				return err
			}
			_, err = store.SaveMessage(sess.Mailbox.Address, msg)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		fmt.Printf("%s⚠ Some messages could not be saved: %v%s\n", colorYellow, err, colorReset)
		return
	}
	fmt.Printf("%s✓ Saved %d message(s)%s\n", colorGreen, len(msgs), colorReset)
}

func displayInbox(msgs []tempmail.MessageSummary) {
	if len(msgs) == 0 {
		fmt.Printf("%s📭 Inbox empty%s\n", colorDim, colorReset)
		return
	}

	fmt.Printf("%s%-4s %-28s %-38s %s%s\n", colorBold, "#", "FROM", "SUBJECT", "TIME", colorReset)
	fmt.Printf("%s%s%s\n", colorDim, strings.Repeat("─", 80), colorReset)

	for i, m := range msgs {
		fmt.Printf("%s%-4d%s %s%-28s%s %s%-38s%s %s%s%s\n",
			colorDim, i+1, colorReset,
			colorWhite, truncateString(m.From, 26), colorReset,
			colorGreen, truncateString(m.Subject, 36), colorReset,
			colorDim, formatDate(m.Date), colorReset)
	}
}

func clearScreen() {
	fmt.Print("\033[H\033[2J")
}

func printBanner() {
	fmt.Printf("%s%s%s%s\n\n", colorBold, colorRed, banner, colorReset)
}

func pause(reader *bufio.Reader) {
	fmt.Printf("%sEnter to continue...%s", colorDim, colorReset)
	reader.ReadString('\n')
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// formatDate renders whichever timestamp shape the provider returned.
func formatDate(date string) string {
	layouts := []string{time.RFC3339, "2006-01-02 15:04:05"}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, date); err == nil {
			return t.Local().Format("Jan 2 15:04")
		}
	}
	if len(date) > 16 {
		return date[:16]
	}
	return date
}
