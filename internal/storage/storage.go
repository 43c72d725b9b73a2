// Package storage persists the active session and saves messages to
// disk. The session file carries fallback-provider credentials, so it
// is encrypted with a locally generated key; saved messages are plain
// text files the user is meant to open.
package storage

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/axeeeh/tempmail/internal/tempmail"
)

const (
	SessionDir  = ".local/tempmail/db"
	MessagesDir = ".local/tempmail/messages"
	SessionFile = "session.enc"
	KeyFile     = ".key"
)

func NewStorage() (*Storage, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return NewStorageAt(filepath.Join(homeDir, SessionDir), filepath.Join(homeDir, MessagesDir))
}

// NewStorageAt roots the storage at explicit directories, used by tests
// and by configs that relocate the state dir.
func NewStorageAt(basePath, messagePath string) (*Storage, error) {
	if err := os.MkdirAll(basePath, 0700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	s := &Storage{
		basePath:    basePath,
		messagePath: messagePath,
	}

	if err := s.loadOrGenerateKey(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Storage) loadOrGenerateKey() error {
	keyPath := filepath.Join(s.basePath, KeyFile)

	keyData, err := os.ReadFile(keyPath)
	if err == nil && len(keyData) == 32 {
		s.key = keyData
		return nil
	}

	s.key = make([]byte, 32)
	if _, err := rand.Read(s.key); err != nil {
		return fmt.Errorf("failed to generate encryption key: %w", err)
	}

	if err := os.WriteFile(keyPath, s.key, 0600); err != nil {
		return fmt.Errorf("failed to save encryption key: %w", err)
	}

	return nil
}

func (s *Storage) encrypt(plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(s.key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func (s *Storage) decrypt(ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(s.key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce, ciphertext := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]
	return gcm.Open(nil, nonce, ciphertext, nil)
}

func (s *Storage) SaveSession(session *StoredSession) error {
	session.CreatedAt = time.Now().Unix()

	jsonData, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	encrypted, err := s.encrypt(jsonData)
	if err != nil {
		return fmt.Errorf("failed to encrypt session: %w", err)
	}

	sessionPath := filepath.Join(s.basePath, SessionFile)
	if err := os.WriteFile(sessionPath, encrypted, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}

// LoadSession returns the stored session, or nil when none exists.
func (s *Storage) LoadSession() (*StoredSession, error) {
	sessionPath := filepath.Join(s.basePath, SessionFile)

	encrypted, err := os.ReadFile(sessionPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	decrypted, err := s.decrypt(encrypted)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt session: %w", err)
	}

	var stored StoredSession
	if err := json.Unmarshal(decrypted, &stored); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &stored, nil
}

func (s *Storage) HasSession() bool {
	sessionPath := filepath.Join(s.basePath, SessionFile)
	_, err := os.Stat(sessionPath)
	return err == nil
}

func (s *Storage) DeleteSession() error {
	sessionPath := filepath.Join(s.basePath, SessionFile)
	err := os.Remove(sessionPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// SaveMessage writes one message as a plain text file keyed by the
// sanitized mailbox address and message id, and returns the path.
func (s *Storage) SaveMessage(address string, msg *tempmail.Message) (string, error) {
	dir := filepath.Join(s.messagePath, sanitize(address))
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create message directory: %w", err)
	}

	path := filepath.Join(dir, sanitize(msg.ID)+".txt")
	content := fmt.Sprintf("From: %s\nSubject: %s\nDate: %s\n\n%s\n",
		msg.From, msg.Subject, msg.Date, msg.Body)

	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return "", fmt.Errorf("failed to write message file: %w", err)
	}

	return path, nil
}

// sanitize keeps file names safe across platforms: anything outside a
// conservative character set becomes an underscore.
func sanitize(name string) string {
	if name == "" {
		return "_"
	}

	out := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			out = append(out, c)
		case c == '.' || c == '-' || c == '_' || c == '@':
			out = append(out, c)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}
