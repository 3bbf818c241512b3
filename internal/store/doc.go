// Package store persists the fake management API's state in SQLite.
//
// # Tables
//
//   - system_config: key/value pairs for the setup flag, the administrator's
//     credentials, the bot configuration and the dashboard counters
//   - groups: the moderated chats with their settings
//
// The schema is created on open and migrations are idempotent.
//
// # Usage
//
//	s, err := store.NewSQLiteStore("boter-fake.db")
//	if err != nil {
//		return err
//	}
//	defer s.Close()
//
//	done, err := s.SetupComplete(ctx)
//
// SQLiteStore implements Store. Missing rows are reported as ErrNotFound.
package store
