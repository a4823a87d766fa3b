// Package session provides session management for Egyptian Spider.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Pluggable persistence with file and Redis backends
//   - An engine.Store adapter per session, so every settled game state is
//     written through to the backend
//   - Change notification for live transports
//
// Persisted Form:
//
// Each session is one PersistedSessionData record: metadata, the rule
// settings, and the engine's serialized game (state plus undo history).
// A record or game that cannot be decoded never fails a lookup; the session
// starts a fresh game instead.
//
// Usage:
//
//	persistence, err := session.NewFilePersistence("sessions")
//	manager := session.NewManager(
//		session.WithPersistence(persistence),
//		session.WithConfigs(configManager),
//		session.WithLogger(logger),
//	)
//
//	sess, err := manager.Create("", "classic", configManager.GetDefault())
//	sess, err = manager.Get(sess.ID)
//	sessions := manager.List()
package session
