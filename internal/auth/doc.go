// Package auth authenticates the fake management API's administrator.
//
// # Tokens
//
// Login issues an HS256 JWT whose subject is the administrator's username:
//
//	v, err := NewJWTVerifier(secret) // secret >= MinSecretLength bytes
//	token, err := v.Generate("admin", 24*time.Hour)
//	username, err := v.Verify(token)
//
// # Passwords
//
// Passwords are stored as bcrypt hashes. GeneratePassword produces the random
// replacement used by credential reset.
//
// # HTTP Middleware
//
// HTTPAuthMiddleware guards the protected routes. A missing, malformed,
// expired or foreign token gets 401 with
//
//	{"detail": "Could not validate credentials"}
//
// and a WWW-Authenticate: Bearer header.
package auth
