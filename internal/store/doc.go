// Package store persists the doubleblind configuration.
//
// The backend is BoltDB, an embedded key-value store, kept in
// doubleblind.bolt under the application directory. Only the configuration
// (including the session credential) is stored; repository and project
// records live in memory for the lifetime of a command.
//
//	db, err := store.Open()
//	if err != nil {
//		return err
//	}
//	defer db.Close()
//
//	cfg, err := db.GetConfig()
package store
