// ABOUTME: Access gate deciding whether a navigation may enter a protected view
// ABOUTME: Presence-only check against the session store; never contacts the server

// Package gate guards the console's protected views.
//
// The check is deliberately presence-only: a stored token admits the
// navigation and the remote API remains the only authority on whether the
// token is still valid. A stale token is discovered when a request fails.
package gate

import (
	"strings"

	"github.com/boter/boter-console/internal/nav"
)

// LoginPath is where denied navigations are sent.
const LoginPath = nav.Login

// DefaultProtected lists the path prefixes guarded by default.
var DefaultProtected = []string{nav.Dashboard}

// TokenSource reports whether a session token is present.
type TokenSource interface {
	Get() (string, bool)
}

// Decision is the outcome of one gate check.
type Decision struct {
	Admit    bool
	Redirect string
}

// Gate evaluates navigations.
type Gate struct {
	tokens    TokenSource
	protected []string
}

// New creates a gate over the given prefixes. With no prefixes, DefaultProtected is used.
func New(tokens TokenSource, protected ...string) *Gate {
	if len(protected) == 0 {
		protected = DefaultProtected
	}
	return &Gate{tokens: tokens, protected: protected}
}

// Protected reports whether path needs a session.
func (g *Gate) Protected(path string) bool {
	for _, prefix := range g.protected {
		prefix = strings.TrimSuffix(prefix, "/")
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// Check admits unprotected paths and protected paths when a token is present.
// Everything else is redirected to LoginPath.
func (g *Gate) Check(path string) Decision {
	if !g.Protected(path) {
		return Decision{Admit: true}
	}
	if _, ok := g.tokens.Get(); ok {
		return Decision{Admit: true}
	}
	return Decision{Admit: false, Redirect: LoginPath}
}
