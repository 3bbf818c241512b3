// Package resource holds the console's resource controllers.
//
// # Controllers
//
// Each controller exclusively owns one cached resource and keeps it in step
// with the server:
//
//   - Groups: the moderated chat list, with toggle and delete
//   - Settings: the configuration draft, edited locally until Save
//   - Stats: the read-only dashboard counters
//   - Setup: first-run status check and setup submission
//
// Controllers never mutate their cache optimistically. Toggle and delete
// apply only what the server confirmed; admin-id edits are local to the
// draft until it is saved.
//
// # Ordering
//
// Every operation draws a number from the controller's sequencer under a
// key naming the resource it touches ("list", "group/<id>", "settings",
// "stats"). When the response arrives and a newer operation has since been
// issued for the same key, the response is dropped and the call returns
// ErrStale. A list load also keeps deletes and toggles that were applied
// after the load was issued.
//
// # Errors
//
// Failures are reported to the notify.Notifier at the point of the call and
// returned wrapped. Local validation failures are *ValidationError and never
// reach the network.
package resource
