// ABOUTME: Tests for the authentication flow
// ABOUTME: Runs login, reset and logout against an httptest API server

package authflow

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boter/boter-console/internal/client"
	"github.com/boter/boter-console/internal/nav"
	"github.com/boter/boter-console/internal/notify"
	"github.com/boter/boter-console/internal/session"
)

type scheduled struct {
	delay time.Duration
	fn    func()
}

type harness struct {
	flow    *Flow
	tokens  *session.Memory
	notes   *notify.Recorder
	confirm *notify.StaticConfirmer
	navs    *nav.Recorder
	pending []scheduled
	resets  atomic.Int32
}

func newHarness(t *testing.T, confirm bool) *harness {
	t.Helper()
	h := &harness{
		tokens:  session.NewMemory(),
		notes:   &notify.Recorder{},
		confirm: &notify.StaticConfirmer{Answer: confirm},
		navs:    &nav.Recorder{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/login", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.PostForm.Get("username") == "admin" && r.PostForm.Get("password") == "correct":
			_, _ = w.Write([]byte(`{"access_token":"abc123","token_type":"bearer"}`))
		case r.PostForm.Get("username") == "nobody":
			w.WriteHeader(http.StatusBadRequest)
		default:
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"detail":"Incorrect username or password"}`))
		}
	})
	mux.HandleFunc("POST /api/reset-password", func(w http.ResponseWriter, r *http.Request) {
		h.resets.Add(1)
		if r.Header.Get("Authorization") != "Bearer abc123" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Could not validate credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"status":"success","username":"admin"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	api := client.New(srv.URL, h.tokens)
	h.flow = New(api, h.tokens, h.notes, h.confirm, h.navs,
		WithScheduler(func(d time.Duration, fn func()) {
			h.pending = append(h.pending, scheduled{delay: d, fn: fn})
		}))
	return h
}

func (h *harness) runPending() {
	for _, p := range h.pending {
		p.fn()
	}
	h.pending = nil
}

func TestLogin_StoresTokenAndSchedulesNavigation(t *testing.T) {
	h := newHarness(t, true)
	assert.Equal(t, Anonymous, h.flow.State())

	require.NoError(t, h.flow.Login(context.Background(), "admin", "correct"))

	token, ok := h.tokens.Get()
	require.True(t, ok)
	assert.Equal(t, "abc123", token)
	assert.Equal(t, Authenticated, h.flow.State())
	assert.Equal(t, notify.Message{Kind: notify.KindSuccess, Text: MsgLoggedIn}, h.notes.Last())

	require.Len(t, h.pending, 1)
	assert.Equal(t, DefaultNavigationDelay, h.pending[0].delay)
	assert.Empty(t, h.navs.Paths(), "navigation waits for the delay")
	h.runPending()
	assert.Equal(t, []string{nav.Dashboard}, h.navs.Paths())
}

func TestLogin_FailureLeavesSessionUntouched(t *testing.T) {
	h := newHarness(t, true)

	err := h.flow.Login(context.Background(), "admin", "wrong")
	require.Error(t, err)
	var httpErr *client.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.StatusCode)

	_, ok := h.tokens.Get()
	assert.False(t, ok)
	assert.Equal(t, Anonymous, h.flow.State())
	assert.Empty(t, h.pending)
	assert.Equal(t, notify.Message{Kind: notify.KindError, Text: "Incorrect username or password"}, h.notes.Last())
}

func TestLogin_GenericMessageWithoutDetail(t *testing.T) {
	h := newHarness(t, true)

	require.Error(t, h.flow.Login(context.Background(), "nobody", "x"))
	assert.Equal(t, MsgBadCredentials, h.notes.Last().Text)
}

func TestLogin_RequiresBothFields(t *testing.T) {
	h := newHarness(t, true)

	assert.ErrorIs(t, h.flow.Login(context.Background(), "", "correct"), ErrMissingCredentials)
	assert.ErrorIs(t, h.flow.Login(context.Background(), "admin", ""), ErrMissingCredentials)
	_, ok := h.tokens.Get()
	assert.False(t, ok)
}

func TestResetPassword(t *testing.T) {
	h := newHarness(t, true)
	require.NoError(t, h.tokens.Set("abc123"))

	username, err := h.flow.ResetPassword(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "admin", username)
	assert.Equal(t, []string{ResetPrompt}, h.confirm.Prompts())

	token, _ := h.tokens.Get()
	assert.Equal(t, "abc123", token, "reset stores no new credential")

	msgs := h.notes.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, MsgResetDone, msgs[0].Text)
	assert.Contains(t, msgs[1].Text, "PASSWORD RESET")
	assert.Contains(t, msgs[1].Text, "admin")
}

func TestResetPassword_DeclinedSendsNothing(t *testing.T) {
	h := newHarness(t, false)

	_, err := h.flow.ResetPassword(context.Background())
	assert.ErrorIs(t, err, ErrCancelled)
	assert.Zero(t, h.resets.Load())
	assert.Empty(t, h.notes.Messages())
}

func TestResetPassword_ServerDetail(t *testing.T) {
	h := newHarness(t, true)

	_, err := h.flow.ResetPassword(context.Background())
	require.Error(t, err)
	assert.True(t, client.IsUnauthorized(err))
	assert.Equal(t, notify.Message{Kind: notify.KindError, Text: "Could not validate credentials"}, h.notes.Last())
	assert.Equal(t, Anonymous, h.flow.State())
}

type failingStore struct{ *session.Memory }

func (failingStore) Clear() error { return errors.New("disk full") }

func TestLogout_NeverFails(t *testing.T) {
	h := newHarness(t, true)
	require.NoError(t, h.flow.Login(context.Background(), "admin", "correct"))

	h.flow.Logout()
	_, ok := h.tokens.Get()
	assert.False(t, ok)
	assert.Equal(t, Anonymous, h.flow.State())
	assert.Equal(t, nav.Login, h.navs.Last())

	store := failingStore{session.NewMemory()}
	require.NoError(t, store.Set("x"))
	navs := &nav.Recorder{}
	f := New(nil, store, &notify.Recorder{}, notify.AutoConfirm{}, navs)
	assert.Equal(t, Authenticated, f.State())
	f.Logout()
	assert.Equal(t, Anonymous, f.State())
	assert.Equal(t, []string{nav.Login}, navs.Paths())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "resetting", Resetting.String())
}
