package alert

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubNotifier struct {
	name string
	err  error
	sent int
}

func (s *stubNotifier) Name() string { return s.name }

func (s *stubNotifier) Send(_ context.Context, _ *Notification) error {
	s.sent++
	return s.err
}

func TestManagerBroadcast(t *testing.T) {
	ok := &stubNotifier{name: "ok"}
	bad := &stubNotifier{name: "bad", err: assert.AnError}
	m := NewManager([]Notifier{ok, bad})

	err := m.Broadcast(context.Background(), &Notification{Title: "t"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad")
	assert.Equal(t, 1, ok.sent, "a failing notifier does not block the others")
	assert.Equal(t, 1, bad.sent)
}

func TestManagerHasNotifiers(t *testing.T) {
	assert.False(t, NewManager(nil).HasNotifiers())
	assert.True(t, NewManager([]Notifier{&stubNotifier{}}).HasNotifiers())
}

func TestWebhookSignsPayload(t *testing.T) {
	secret := "hunter2"
	var gotSig string
	var gotBody []byte

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSig = r.Header.Get("X-Signature-256")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	wh := NewWebhook(ts.URL, secret)
	err := wh.Send(context.Background(), &Notification{Title: "hot leads"})
	require.NoError(t, err)

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(gotBody)
	assert.Equal(t, "sha256="+hex.EncodeToString(mac.Sum(nil)), gotSig)
}

func TestWebhookNon2xxIsError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	err := NewWebhook(ts.URL, "").Send(context.Background(), &Notification{})
	require.Error(t, err)
}
