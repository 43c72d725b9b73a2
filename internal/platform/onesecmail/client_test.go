package onesecmail

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/axeeeh/tempmail/internal/tempmail"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	c := NewClient()
	c.BaseURL = srv.URL + "/"
	return c, srv
}

func TestCreateMailbox(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("action"); got != "genRandomMailbox" {
			t.Errorf("action = %q; want genRandomMailbox", got)
		}
		if got := r.URL.Query().Get("count"); got != "1" {
			t.Errorf("count = %q; want 1", got)
		}
		w.Write([]byte(`["a1b2c3@1secmail.com"]`))
	})
	defer srv.Close()

	mb, err := c.CreateMailbox(context.Background())
	if err != nil {
		t.Fatalf("CreateMailbox returned error: %v", err)
	}
	if mb.Login != "a1b2c3" || mb.Domain != "1secmail.com" {
		t.Errorf("mailbox = %q/%q; want a1b2c3/1secmail.com", mb.Login, mb.Domain)
	}
	if mb.Provider != tempmail.ProviderOneSecMail {
		t.Errorf("provider = %q; want %q", mb.Provider, tempmail.ProviderOneSecMail)
	}
}

func TestCreateMailboxMalformedAddress(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`["not-an-address"]`))
	})
	defer srv.Close()

	if _, err := c.CreateMailbox(context.Background()); err == nil {
		t.Fatal("CreateMailbox accepted an address without @")
	}
}

func TestListMessagesAppliesPlaceholders(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("login"); got != "a1b2c3" {
			t.Errorf("login = %q; want a1b2c3", got)
		}
		w.Write([]byte(`[
			{"id":7,"from":"x@y.com","subject":"Hi","date":"2024-05-01 10:00:00"},
			{"id":8}
		]`))
	})
	defer srv.Close()

	mb, _ := tempmail.NewMailbox("a1b2c3@1secmail.com", tempmail.ProviderOneSecMail)
	msgs, err := c.ListMessages(context.Background(), mb)
	if err != nil {
		t.Fatalf("ListMessages returned error: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("got %d messages; want 2", len(msgs))
	}
	if msgs[0].ID != "7" || msgs[0].From != "x@y.com" || msgs[0].Subject != "Hi" {
		t.Errorf("first message = %+v", msgs[0])
	}
	if msgs[1].From != tempmail.UnknownSender {
		t.Errorf("missing from = %q; want %q", msgs[1].From, tempmail.UnknownSender)
	}
	if msgs[1].Subject != tempmail.NoSubject {
		t.Errorf("missing subject = %q; want %q", msgs[1].Subject, tempmail.NoSubject)
	}
}

func TestReadMessageBodyPreference(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		wantBody string
	}{
		{
			name:     "text body preferred",
			payload:  `{"id":7,"from":"x@y.com","subject":"Hi","textBody":"plain","htmlBody":"<p>hi</p>"}`,
			wantBody: "plain",
		},
		{
			name:     "html fallback",
			payload:  `{"id":7,"from":"x@y.com","subject":"Hi","htmlBody":"<p>hi</p>"}`,
			wantBody: "<p>hi</p>",
		},
		{
			name:     "placeholder when all bodies missing",
			payload:  `{"id":7,"from":"x@y.com","subject":"Hi"}`,
			wantBody: tempmail.NoBody,
		},
	}

	for _, tc := range tests {
		c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(tc.payload))
		})

		mb, _ := tempmail.NewMailbox("a1b2c3@1secmail.com", tempmail.ProviderOneSecMail)
		msg, err := c.ReadMessage(context.Background(), mb, "7")
		srv.Close()
		if err != nil {
			t.Errorf("%s: ReadMessage returned error: %v", tc.name, err)
			continue
		}
		if msg.Body != tc.wantBody {
			t.Errorf("%s: body = %q; want %q", tc.name, msg.Body, tc.wantBody)
		}
	}
}

func TestNon200ClassifiesAsFetchFailure(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	defer srv.Close()

	mb, _ := tempmail.NewMailbox("a1b2c3@1secmail.com", tempmail.ProviderOneSecMail)
	_, err := c.ListMessages(context.Background(), mb)
	if !errors.Is(err, tempmail.ErrFetchFailed) {
		t.Errorf("error = %v; want ErrFetchFailed", err)
	}
	// 1secmail cannot distinguish missing ids; reads never map to
	// ErrNotFound here.
	_, err = c.ReadMessage(context.Background(), mb, "999")
	if errors.Is(err, tempmail.ErrNotFound) {
		t.Errorf("read error classified as ErrNotFound; want uniform fetch failure")
	}
}

func TestMalformedJSONClassifiesAsFetchFailure(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`Message not found`))
	})
	defer srv.Close()

	mb, _ := tempmail.NewMailbox("a1b2c3@1secmail.com", tempmail.ProviderOneSecMail)
	_, err := c.ReadMessage(context.Background(), mb, "7")
	if !errors.Is(err, tempmail.ErrFetchFailed) {
		t.Errorf("error = %v; want ErrFetchFailed", err)
	}
}
