// Package fakeapi is a local stand-in for the bot management API.
//
// It serves the same JSON endpoints the console calls, backed by
// internal/store and guarded by internal/auth bearer tokens:
//
//	GET    /api/status
//	POST   /api/setup
//	POST   /api/login                      (form: username, password)
//	POST   /api/reset-password             (auth)
//	GET    /api/dashboard/stats            (auth)
//	GET    /api/dashboard/groups           (auth)
//	POST   /api/dashboard/groups/{id}/toggle (auth)
//	DELETE /api/dashboard/groups/{id}      (auth)
//	GET    /api/config/get                 (auth)
//	POST   /api/config/update              (auth)
//	GET    /metrics
//
// Errors are JSON objects with a "detail" field. Validation failures carry a
// list of {loc, msg, type} entries instead.
//
// # Password reset
//
// A reset replaces the administrator password with a random one and logs it
// at warn level under the message "PASSWORD RESET". The response only
// carries the username.
//
// # Testing
//
// Tests run the server with httptest:
//
//	st, _ := store.NewSQLiteStore(filepath.Join(t.TempDir(), "api.db"))
//	verifier, _ := auth.NewJWTVerifier(secret)
//	srv := httptest.NewServer(fakeapi.New(st, verifier).Handler())
package fakeapi
