// ABOUTME: Tests for the access gate
// ABOUTME: Covers admit/redirect decisions for protected and public paths

package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boter/boter-console/internal/session"
)

func TestCheck_NoSessionRedirects(t *testing.T) {
	g := New(session.NewMemory())

	for _, path := range []string{"/dashboard", "/dashboard/groups", "/dashboard/settings"} {
		d := g.Check(path)
		assert.False(t, d.Admit, path)
		assert.Equal(t, LoginPath, d.Redirect, path)
	}
}

func TestCheck_SessionAdmits(t *testing.T) {
	store := session.NewMemory()
	require.NoError(t, store.Set("whatever-even-if-expired"))
	g := New(store)

	d := g.Check("/dashboard/groups")
	assert.True(t, d.Admit)
	assert.Empty(t, d.Redirect)
}

func TestCheck_PublicPaths(t *testing.T) {
	g := New(session.NewMemory())

	for _, path := range []string{"/login", "/setup", "/dashboards-are-not-a-prefix"} {
		assert.True(t, g.Check(path).Admit, path)
	}
}

func TestCheck_AfterClear(t *testing.T) {
	store := session.NewMemory()
	require.NoError(t, store.Set("abc"))
	g := New(store)
	require.True(t, g.Check("/dashboard").Admit)

	require.NoError(t, store.Clear())
	assert.False(t, g.Check("/dashboard").Admit)
}

func TestNew_CustomPrefixes(t *testing.T) {
	g := New(session.NewMemory(), "/admin/")
	assert.True(t, g.Protected("/admin"))
	assert.True(t, g.Protected("/admin/x"))
	assert.False(t, g.Protected("/dashboard"))
}
