// Package client is the console's HTTP client for the bot management API.
//
// # Overview
//
// A single Client is shared by every controller. Before each request it asks
// its TokenSource (normally a session.Store) for a bearer token and, when one
// is present, sends it as:
//
//	Authorization: Bearer <token>
//
// When no token is present the header is omitted; setup, status and login are
// meant to be called anonymously.
//
// The client never retries, caches or deduplicates. Callers own latency and
// failure handling.
//
// # Errors
//
//   - *TransportError: the request never produced a response
//   - *HTTPError: non-2xx response, with the server's detail message if any
//   - *DecodeError: a 2xx response whose body does not match the endpoint shape
//
// IsUnauthorized reports 401/403 responses. UserMessage turns any of these
// into the text shown to the operator.
//
// # Endpoints
//
//	Status          GET    /api/status
//	Setup           POST   /api/setup
//	Login           POST   /api/login                      (form-encoded)
//	ResetPassword   POST   /api/reset-password
//	DashboardStats  GET    /api/dashboard/stats
//	ListGroups      GET    /api/dashboard/groups
//	ToggleGroup     POST   /api/dashboard/groups/{id}/toggle
//	DeleteGroup     DELETE /api/dashboard/groups/{id}
//	GetConfig       GET    /api/config/get
//	UpdateConfig    POST   /api/config/update
package client
