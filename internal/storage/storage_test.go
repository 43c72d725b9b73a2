package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/axeeeh/tempmail/internal/tempmail"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	base := t.TempDir()
	s, err := NewStorageAt(filepath.Join(base, "db"), filepath.Join(base, "messages"))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestSessionRoundTrip(t *testing.T) {
	s := newTestStorage(t)

	in := &StoredSession{
		Provider: tempmail.ProviderMailTM,
		Address:  "x9y8z7@mailsac.com",
		Password: "secret",
		Token:    "tok123",
	}
	if err := s.SaveSession(in); err != nil {
		t.Fatalf("SaveSession returned error: %v", err)
	}
	if !s.HasSession() {
		t.Fatal("HasSession = false after save")
	}

	out, err := s.LoadSession()
	if err != nil {
		t.Fatalf("LoadSession returned error: %v", err)
	}
	if out.Provider != in.Provider || out.Address != in.Address || out.Password != in.Password || out.Token != in.Token {
		t.Errorf("loaded session = %+v; want %+v", out, in)
	}
	if out.CreatedAt == 0 {
		t.Error("CreatedAt not stamped on save")
	}
}

func TestSessionFileIsEncrypted(t *testing.T) {
	base := t.TempDir()
	dbDir := filepath.Join(base, "db")
	s, err := NewStorageAt(dbDir, filepath.Join(base, "messages"))
	if err != nil {
		t.Fatal(err)
	}

	if err := s.SaveSession(&StoredSession{Address: "x@y.com", Password: "hunter2"}); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(filepath.Join(dbDir, SessionFile))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(raw), "hunter2") {
		t.Error("password stored in plaintext")
	}
}

func TestLoadSessionMissing(t *testing.T) {
	s := newTestStorage(t)

	out, err := s.LoadSession()
	if err != nil {
		t.Fatalf("LoadSession returned error: %v", err)
	}
	if out != nil {
		t.Errorf("got %+v; want nil when no session exists", out)
	}
}

func TestDeleteSession(t *testing.T) {
	s := newTestStorage(t)

	if err := s.SaveSession(&StoredSession{Address: "x@y.com"}); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteSession(); err != nil {
		t.Fatalf("DeleteSession returned error: %v", err)
	}
	if s.HasSession() {
		t.Error("HasSession = true after delete")
	}
	// Deleting twice is fine.
	if err := s.DeleteSession(); err != nil {
		t.Errorf("second DeleteSession returned error: %v", err)
	}
}

func TestSaveMessage(t *testing.T) {
	s := newTestStorage(t)

	msg := &tempmail.Message{
		MessageSummary: tempmail.MessageSummary{
			ID:      "7",
			From:    "x@y.com",
			Subject: "Hi",
			Date:    "2024-05-01 10:00:00",
		},
		Body: "hello there",
	}

	path, err := s.SaveMessage("a1b2c3@1secmail.com", msg)
	if err != nil {
		t.Fatalf("SaveMessage returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	for _, want := range []string{"From: x@y.com", "Subject: Hi", "hello there"} {
		if !strings.Contains(content, want) {
			t.Errorf("saved file missing %q:\n%s", want, content)
		}
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a1b2c3@1secmail.com", "a1b2c3@1secmail.com"},
		{"msg/../../etc", "msg_.._.._etc"},
		{"id with spaces", "id_with_spaces"},
		{"", "_"},
	}
	for _, tc := range tests {
		if got := sanitize(tc.in); got != tc.want {
			t.Errorf("sanitize(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}
}
