// Package authflow drives login, credential reset and logout.
//
// Login stores the server's token in the session store and, after a short
// delay so the success message can be read, moves the console to the
// dashboard. A failed login never touches the session.
//
// Credential reset is destructive and asks for confirmation first. The new
// password is never sent to the console; the operator is told to read it from
// the server log.
//
// Logout clears the session and returns to the login view. It cannot fail.
package authflow
