// ABOUTME: Console views for setup, login, dashboard, groups and settings
// ABOUTME: Each view mounts its controller and renders tables with tabwriter and color

package console

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/boter/boter-console/internal/client"
	"github.com/boter/boter-console/internal/resource"
)

var (
	headerColor = color.New(color.Bold)
	activeColor = color.New(color.FgGreen)
	offColor    = color.New(color.FgRed)
	dimColor    = color.New(color.Faint)
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func title(w io.Writer, s string) {
	headerColor.Fprintln(w, s)
	fmt.Fprintln(w, strings.Repeat("─", len([]rune(s))))
}

// RenderStats prints the dashboard counters.
func RenderStats(w io.Writer, st client.DashboardStats) {
	tw := newTable(w)
	fmt.Fprintf(tw, "Active groups\t%d\n", st.ActiveGroups)
	fmt.Fprintf(tw, "Messages processed\t%d\n", st.MessagesProcessed)
	fmt.Fprintf(tw, "Bans\t%d\n", st.Bans)
	tw.Flush()
}

// RenderGroups prints the group table, or the empty-state message when the
// list is empty.
func RenderGroups(w io.Writer, groups []client.Group) {
	if len(groups) == 0 {
		dimColor.Fprintln(w, resource.MsgNoGroups)
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tTITLE\tCHAT ID\tSTATUS")
	for _, g := range groups {
		status := offColor.Sprint("inactive")
		if g.Settings.IsActive {
			status = activeColor.Sprint("active")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", g.ID, g.Title, g.Settings.ChatID, status)
	}
	tw.Flush()
}

// RenderConfig prints the configuration with the bot token masked.
func RenderConfig(w io.Writer, cfg client.Configuration) {
	tw := newTable(w)
	fmt.Fprintf(tw, "bot_token\t%s\n", MaskSecret(cfg.BotToken))
	fmt.Fprintf(tw, "support_group_id\t%s\n", orDash(string(cfg.SupportGroupID)))
	fmt.Fprintf(tw, "log_channel_id\t%s\n", orDash(string(cfg.LogChannelID)))
	fmt.Fprintf(tw, "mongo_uri\t%s\n", orDash(cfg.MongoURI))
	fmt.Fprintf(tw, "mongo_db_name\t%s\n", orDash(cfg.MongoDBName))
	ids := make([]string, len(cfg.TelegramAdminIDs))
	for i, id := range cfg.TelegramAdminIDs {
		ids[i] = strconv.FormatInt(id, 10)
	}
	fmt.Fprintf(tw, "telegram_admin_ids\t%s\n", orDash(strings.Join(ids, ", ")))
	tw.Flush()
}

// MaskSecret keeps the last four characters of s.
func MaskSecret(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// SetupView checks whether setup already ran and otherwise shows the setup form.
type SetupView struct {
	Setup *resource.Setup
}

func (v *SetupView) Mount(ctx context.Context) error {
	_, err := v.Setup.CheckStatus(ctx)
	return err
}

func (v *SetupView) Render(w io.Writer) {
	title(w, "Initial setup")
	fmt.Fprintln(w, "Create the administrator and connect the bot:")
	fmt.Fprintln(w, "  /setup <username> <mongo_uri> <bot_token>   (password is prompted)")
}

// LoginView shows how to sign in.
type LoginView struct{}

func (LoginView) Mount(context.Context) error { return nil }

func (LoginView) Render(w io.Writer) {
	title(w, "Admin login")
	fmt.Fprintln(w, "  /login <username>   (password is prompted)")
	fmt.Fprintln(w, "  /reset-password     forgot the password")
}

// DashboardView shows the counters.
type DashboardView struct {
	Stats *resource.Stats
}

func (v *DashboardView) Mount(ctx context.Context) error {
	return v.Stats.Load(ctx)
}

func (v *DashboardView) Render(w io.Writer) {
	title(w, "Dashboard")
	snap := v.Stats.Snapshot()
	if !snap.Loaded {
		dimColor.Fprintln(w, "Stats unavailable.")
		return
	}
	RenderStats(w, snap.Stats)
}

// GroupsView shows the moderated chats.
type GroupsView struct {
	Groups *resource.Groups
}

func (v *GroupsView) Mount(ctx context.Context) error {
	return v.Groups.Load(ctx)
}

func (v *GroupsView) Render(w io.Writer) {
	title(w, "Groups")
	snap := v.Groups.Snapshot()
	if !snap.Loaded {
		dimColor.Fprintln(w, "Groups unavailable. /refresh to retry.")
		return
	}
	RenderGroups(w, snap.Groups)
}

// SettingsView shows the configuration draft.
type SettingsView struct {
	Settings *resource.Settings
}

func (v *SettingsView) Mount(ctx context.Context) error {
	return v.Settings.Load(ctx)
}

func (v *SettingsView) Render(w io.Writer) {
	title(w, "Settings")
	snap := v.Settings.Snapshot()
	if !snap.Loaded {
		dimColor.Fprintln(w, "Settings unavailable. /refresh to retry.")
		return
	}
	RenderConfig(w, snap.Draft)
	if snap.Dirty {
		color.New(color.FgYellow).Fprintln(w, "Unsaved changes. /save to apply.")
	}
}
