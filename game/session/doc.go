// Package session provides session management for the Maze Runner game.
//
// Manager keeps every live session in memory, keyed by a case-insensitive
// 8-character hex ID, and writes through to an optional SessionPersistence.
// Each session owns its own engine and maze.
//
// Persistence:
//
// Two stores are available. FilePersistence writes one JSON document per
// session into a directory. RedisPersistence keeps the same document under a
// "mazerunner:session:" key and guards writes with a redsync mutex so several
// server instances can share it. Stored sessions carry the maze, the player's
// progress, the config ID and a snapshot of the config used when the preset
// has since been removed.
//
// Usage:
//
//	persistence, _ := session.NewFilePersistence("sessions", configManager)
//	manager := session.NewManagerWithPersistence(persistence)
//	_ = manager.LoadPersistedSessions()
//
//	// Create a new session on a pinned maze
//	seed := uint64(7)
//	sess, err := manager.Create("", config, &seed)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Retrieve existing session, falling back to storage
//	sess, err = manager.Get(sess.ID)
package session
