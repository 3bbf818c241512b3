// ABOUTME: Tests for the console router, views and shell
// ABOUTME: Runs scripted sessions against the in-process fake API

package console

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boter/boter-console/internal/auth"
	"github.com/boter/boter-console/internal/authflow"
	"github.com/boter/boter-console/internal/client"
	"github.com/boter/boter-console/internal/fakeapi"
	"github.com/boter/boter-console/internal/gate"
	"github.com/boter/boter-console/internal/nav"
	"github.com/boter/boter-console/internal/notify"
	"github.com/boter/boter-console/internal/resource"
	"github.com/boter/boter-console/internal/session"
	"github.com/boter/boter-console/internal/store"
)

func init() {
	color.NoColor = true
}

type fakeView struct {
	name    string
	mounted int
	onMount func()
}

func (v *fakeView) Mount(context.Context) error {
	v.mounted++
	if v.onMount != nil {
		v.onMount()
	}
	return nil
}

func (v *fakeView) Render(w io.Writer) {
	io.WriteString(w, "["+v.name+"]\n")
}

func newScanner(input string) *bufio.Scanner {
	return bufio.NewScanner(strings.NewReader(input))
}

func newTestRouter(tokens *session.Memory) (*Router, *bytes.Buffer, map[string]*fakeView) {
	out := &bytes.Buffer{}
	r := NewRouter(context.Background(), gate.New(tokens), out)
	views := map[string]*fakeView{}
	for _, p := range []string{nav.Setup, nav.Login, nav.Dashboard, nav.Groups, nav.Settings} {
		v := &fakeView{name: p}
		views[p] = v
		r.Register(p, v)
	}
	return r, out, views
}

func TestRouter_GateRedirectsWithoutSession(t *testing.T) {
	r, out, views := newTestRouter(session.NewMemory())

	r.Navigate(nav.Groups)

	assert.Equal(t, nav.Login, r.Current())
	assert.Equal(t, 0, views[nav.Groups].mounted, "denied view must not fetch")
	assert.Equal(t, "[/login]\n", out.String())
}

func TestRouter_AdmitsWithSession(t *testing.T) {
	tokens := session.NewMemory()
	require.NoError(t, tokens.Set("tok"))
	r, _, views := newTestRouter(tokens)

	r.Navigate(nav.Settings)

	assert.Equal(t, nav.Settings, r.Current())
	assert.Equal(t, 1, views[nav.Settings].mounted)
}

func TestRouter_UnknownPathGoesToSetup(t *testing.T) {
	r, _, _ := newTestRouter(session.NewMemory())

	r.Navigate("/")
	assert.Equal(t, nav.Setup, r.Current())

	r.Navigate("/nope/at/all")
	assert.Equal(t, nav.Setup, r.Current())
}

func TestRouter_NavigationFromMountIsQueued(t *testing.T) {
	tokens := session.NewMemory()
	require.NoError(t, tokens.Set("tok"))
	r, out, views := newTestRouter(tokens)
	views[nav.Setup].onMount = func() { r.Navigate(nav.Dashboard) }

	r.Navigate(nav.Setup)

	assert.Equal(t, nav.Dashboard, r.Current())
	assert.Equal(t, "[/dashboard]\n", out.String(), "setup view is skipped once it navigated away")
}

func TestRouter_RedrawDoesNotRemount(t *testing.T) {
	tokens := session.NewMemory()
	require.NoError(t, tokens.Set("tok"))
	r, out, views := newTestRouter(tokens)

	r.Navigate(nav.Groups)
	r.Redraw()
	assert.Equal(t, 1, views[nav.Groups].mounted)
	assert.Equal(t, "[/dashboard/groups]\n[/dashboard/groups]\n", out.String())

	r.Refresh()
	assert.Equal(t, 2, views[nav.Groups].mounted)
}

func TestRenderGroups_Empty(t *testing.T) {
	var buf bytes.Buffer
	RenderGroups(&buf, nil)
	assert.Equal(t, resource.MsgNoGroups+"\n", buf.String())
}

func TestRenderGroups_Table(t *testing.T) {
	var buf bytes.Buffer
	RenderGroups(&buf, []client.Group{
		{ID: "g1", Title: "Support", Settings: client.GroupSettings{ChatID: "-100", IsActive: true}},
		{ID: "g2", Title: "Archive", Settings: client.GroupSettings{ChatID: "-200"}},
	})
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "Support")
	assert.Contains(t, lines[1], "active")
	assert.Contains(t, lines[2], "inactive")
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "", MaskSecret(""))
	assert.Equal(t, "***", MaskSecret("abc"))
	assert.Equal(t, "*****:xyz", MaskSecret("12345:xyz"))
	assert.Equal(t, "****6789", MaskSecret("12346789"))
}

type scripted struct {
	out    *bytes.Buffer
	rec    *notify.Recorder
	tokens *session.Memory
	shell  *Shell
	store  *store.SQLiteStore
}

func newSession(t *testing.T, script string) *scripted {
	t.Helper()
	return newSessionWith(t, script, func(o *Options) { o.Scheduler = nav.Immediate })
}

func newSessionWith(t *testing.T, script string, configure func(*Options)) *scripted {
	t.Helper()
	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	verifier, err := auth.NewJWTVerifier([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)
	srv := httptest.NewServer(fakeapi.New(st, verifier).Handler())
	t.Cleanup(srv.Close)

	out := &bytes.Buffer{}
	rec := &notify.Recorder{}
	tokens := session.NewMemory()
	opts := Options{
		Client:   client.New(srv.URL, tokens),
		Tokens:   tokens,
		In:       strings.NewReader(script),
		Out:      out,
		Notifier: rec,
	}
	configure(&opts)
	sh := New(context.Background(), opts)
	return &scripted{out: out, rec: rec, tokens: tokens, shell: sh, store: st}
}

func (s *scripted) texts() []string {
	var out []string
	for _, m := range s.rec.Messages() {
		out = append(out, m.Text)
	}
	return out
}

func TestShell_SetupLoginAndManageGroups(t *testing.T) {
	script := strings.Join([]string{
		"/setup admin mongodb://db 123:abc",
		"hunter2",
		"/login admin",
		"hunter2",
		"/groups",
		"/quit",
	}, "\n")
	s := newSession(t, script)

	require.NoError(t, s.shell.Run(context.Background()))

	token, ok := s.tokens.Get()
	assert.True(t, ok)
	assert.NotEmpty(t, token)
	assert.Equal(t, nav.Groups, s.shell.Router.Current())
	assert.Contains(t, s.texts(), resource.MsgSetupComplete)
	assert.Contains(t, s.texts(), authflow.MsgLoggedIn)
	assert.Contains(t, s.out.String(), resource.MsgNoGroups)
}

func TestShell_ToggleAndDeleteWithConfirmation(t *testing.T) {
	s := newSession(t, "")
	ctx := context.Background()
	require.NoError(t, s.shell.Setup.Submit(ctx, client.SetupRequest{
		AdminUsername: "admin", AdminPassword: "pw", MongoURI: "mongodb://db", BotToken: "t",
	}))
	require.NoError(t, s.shell.Auth.Login(ctx, "admin", "pw"))
	ids, err := fakeapi.SeedGroups(ctx, s.store, fakeapi.DemoGroups()...)
	require.NoError(t, err)

	s.shell.scanner = newScanner("n\ny\n")
	s.shell.Router.Navigate(nav.Groups)

	require.NoError(t, s.shell.Exec(ctx, "/toggle "+ids[0]))
	assert.Equal(t, resource.MsgGroupDeactivated, s.rec.Last().Text)

	require.NoError(t, s.shell.Exec(ctx, "/delete "+ids[1]))
	assert.Equal(t, "Cancelled", s.rec.Last().Text)
	_, found := s.shell.Groups.Find(ids[1])
	assert.True(t, found)

	require.NoError(t, s.shell.Exec(ctx, "/delete "+ids[1]))
	assert.Equal(t, resource.MsgGroupDeleted, s.rec.Last().Text)
	_, found = s.shell.Groups.Find(ids[1])
	assert.False(t, found)
	assert.Contains(t, s.out.String(), resource.DeleteGroupPrompt)
}

func TestShell_SettingsDraftAndSave(t *testing.T) {
	s := newSession(t, "")
	ctx := context.Background()
	require.NoError(t, s.shell.Setup.Submit(ctx, client.SetupRequest{
		AdminUsername: "admin", AdminPassword: "pw", MongoURI: "mongodb://db", BotToken: "old-token",
	}))
	require.NoError(t, s.shell.Auth.Login(ctx, "admin", "pw"))
	s.shell.Router.Navigate(nav.Settings)

	require.NoError(t, s.shell.Exec(ctx, "/set bot_token new-token"))
	assert.Error(t, s.shell.Exec(ctx, "/set support_group_id group-one"))
	assert.Equal(t, resource.MsgInvalidChatID, s.rec.Last().Text)
	require.NoError(t, s.shell.Exec(ctx, "/set support_group_id -1001"))
	require.NoError(t, s.shell.Exec(ctx, "/admin add 42"))
	assert.Error(t, s.shell.Exec(ctx, "/admin add 42"))
	assert.Equal(t, resource.MsgDuplicateAdminID, s.rec.Last().Text)
	assert.Error(t, s.shell.Exec(ctx, "/admin add abc"))
	assert.Equal(t, resource.MsgInvalidAdminID, s.rec.Last().Text)
	assert.Contains(t, s.out.String(), "Unsaved changes")

	require.NoError(t, s.shell.Exec(ctx, "/save"))
	assert.Equal(t, resource.MsgSettingsSaved, s.rec.Last().Text)

	cfg, err := s.store.GetBotConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new-token", cfg.BotToken)
	assert.Equal(t, "-1001", cfg.SupportGroupID)
	assert.Equal(t, []int64{42}, cfg.AdminIDs)
}

func TestNew_ZeroDelaysNavigateImmediately(t *testing.T) {
	s := newSessionWith(t, "", func(o *Options) {})
	ctx := context.Background()

	require.NoError(t, s.shell.Setup.Submit(ctx, client.SetupRequest{
		AdminUsername: "admin", AdminPassword: "pw", MongoURI: "mongodb://db", BotToken: "1:a",
	}))
	assert.Equal(t, nav.Login, s.shell.Router.Current(), "setup redirect is not delayed")

	require.NoError(t, s.shell.Auth.Login(ctx, "admin", "pw"))
	assert.Equal(t, nav.Dashboard, s.shell.Router.Current(), "login navigation is not delayed")
}

func TestShell_LogoutReturnsToLogin(t *testing.T) {
	s := newSession(t, "")
	ctx := context.Background()
	require.NoError(t, s.tokens.Set("stale"))
	s.shell.Router.Navigate(nav.Dashboard)
	assert.Equal(t, nav.Dashboard, s.shell.Router.Current())

	require.NoError(t, s.shell.Exec(ctx, "/logout"))
	_, ok := s.tokens.Get()
	assert.False(t, ok)
	assert.Equal(t, nav.Login, s.shell.Router.Current())

	require.NoError(t, s.shell.Exec(ctx, "/go settings"))
	assert.Equal(t, nav.Login, s.shell.Router.Current())
}

func TestShell_CancelledReadKeepsNextLine(t *testing.T) {
	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })
	sh := NewShell(pr, io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := sh.readLine(ctx)
	require.ErrorIs(t, err, context.Canceled)

	go func() { _, _ = io.WriteString(pw, "first\nsecond\n") }()

	for _, want := range []string{"first", "second"} {
		readCtx, stop := context.WithTimeout(context.Background(), 2*time.Second)
		line, err := sh.readLine(readCtx)
		stop()
		require.NoError(t, err)
		assert.Equal(t, want, line)
	}

	require.NoError(t, pw.Close())
	_, err = sh.readLine(context.Background())
	assert.ErrorIs(t, err, io.EOF)
	_, err = sh.readLine(context.Background())
	assert.ErrorIs(t, err, io.EOF, "reads after the end of input keep reporting EOF")
}

func TestShell_UnknownCommand(t *testing.T) {
	s := newSession(t, "")
	require.NoError(t, s.shell.Exec(context.Background(), "/frobnicate"))
	assert.Equal(t, notify.KindError, s.rec.Last().Kind)
	assert.Contains(t, s.rec.Last().Text, "/frobnicate")
}
