// Package session holds the bearer token of the console's single administrator.
//
// # Overview
//
// A session is either present (a token is stored) or absent. The token is
// opaque: nothing in this package inspects its structure or expiry. The remote
// API is the only authority on whether a token is still valid.
//
// # Stores
//
//   - Memory: process-local, used by tests and short-lived tools
//   - File: durable token file under the XDG config directory, survives restarts
//     and is removed on logout
//
// Both are safe for concurrent use.
//
// # Environment Override
//
// WithEnvToken wraps a store so that BOTER_TOKEN (when set) takes precedence for
// reads, mirroring how the admin tools accept a token from the environment:
//
//	store := session.WithEnvToken(session.NewFile(session.DefaultPath()), "BOTER_TOKEN")
//	token, ok := store.Get()
package session
