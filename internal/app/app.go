// Package app wires configuration, storage and the provider chain
// together for the CLI commands.
package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/axeeeh/tempmail/config"
	"github.com/axeeeh/tempmail/internal/platform/mailtm"
	"github.com/axeeeh/tempmail/internal/platform/onesecmail"
	"github.com/axeeeh/tempmail/internal/storage"
	"github.com/axeeeh/tempmail/internal/tempmail"
)

// Providers builds the fallback chain in priority order: 1secmail
// first, mail.tm second. A non-empty pin narrows the chain to a single
// named provider, bypassing fallback entirely.
func Providers(cfg *config.Config, pin string, debug bool) ([]tempmail.Provider, error) {
	primary := onesecmail.NewClient()
	if cfg.Providers.OneSecMailURL != "" {
		primary.BaseURL = cfg.Providers.OneSecMailURL
	}
	primary.Debug = debug

	fallback := mailtm.NewClient()
	if cfg.Providers.MailTMURL != "" {
		fallback.BaseURL = cfg.Providers.MailTMURL
	}
	fallback.Debug = debug

	switch pin {
	case "":
		return []tempmail.Provider{primary, fallback}, nil
	case string(tempmail.ProviderOneSecMail):
		return []tempmail.Provider{primary}, nil
	case string(tempmail.ProviderMailTM):
		return []tempmail.Provider{fallback}, nil
	default:
		return nil, fmt.Errorf("unknown provider %q", pin)
	}
}

func OpenStorage(cfg *config.Config) (*storage.Storage, error) {
	sessionDir := cfg.Storage.SessionDir
	messagesDir := cfg.Storage.MessagesDir
	if sessionDir == "" && messagesDir == "" {
		return storage.NewStorage()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	if sessionDir == "" {
		sessionDir = filepath.Join(homeDir, storage.SessionDir)
	}
	if messagesDir == "" {
		messagesDir = filepath.Join(homeDir, storage.MessagesDir)
	}
	return storage.NewStorageAt(sessionDir, messagesDir)
}

func NewRefresher(cfg *config.Config) *tempmail.Refresher {
	r := tempmail.NewRefresher()
	if cfg.Refresh.Delay.Duration > 0 {
		r.Delay = cfg.Refresh.Delay.Duration
	}
	if cfg.Refresh.Window.Duration > 0 {
		r.Window = cfg.Refresh.Window.Duration
	}
	return r
}

// Restore rebuilds a live session from its stored form, resuming the
// fallback provider's account state where present.
func Restore(cfg *config.Config, stored *storage.StoredSession, debug bool) (*tempmail.Session, error) {
	mb, err := tempmail.NewMailbox(stored.Address, stored.Provider)
	if err != nil {
		return nil, fmt.Errorf("stored session is corrupt: %w", err)
	}

	switch stored.Provider {
	case tempmail.ProviderOneSecMail:
		c := onesecmail.NewClient()
		if cfg.Providers.OneSecMailURL != "" {
			c.BaseURL = cfg.Providers.OneSecMailURL
		}
		c.Debug = debug
		return tempmail.NewSession(mb, c), nil
	case tempmail.ProviderMailTM:
		c := mailtm.NewClient()
		if cfg.Providers.MailTMURL != "" {
			c.BaseURL = cfg.Providers.MailTMURL
		}
		c.Debug = debug
		c.Resume(stored.Address, stored.Password, stored.Token)
		return tempmail.NewSession(mb, c), nil
	default:
		return nil, fmt.Errorf("stored session references unknown provider %q", stored.Provider)
	}
}

// Snapshot converts a live session into its persisted form.
func Snapshot(s *tempmail.Session) *storage.StoredSession {
	stored := &storage.StoredSession{
		Provider: s.Provider(),
		Address:  s.Mailbox.Address,
	}

	if c, ok := s.Backend().(interface{ Credentials() (string, string) }); ok {
		stored.Password, stored.Token = c.Credentials()
	}

	return stored
}
