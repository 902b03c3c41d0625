// Package vault implements the client-side persisted state described in
// §3.8/§5/§9: a FIFO outbound queue of encrypted-to-CoverNode messages that
// survives restarts, and the one-time setup bundle a journalist client
// consumes on first connection. It is backed by SQLite
// (github.com/mattn/go-sqlite3) under a single-writer, serializable-
// transaction discipline matching the "only one worker may pop at a time"
// requirement of §5.
package vault

import "github.com/sirupsen/logrus"

func pkgLogger(function string) *logrus.Entry {
	return logrus.WithFields(logrus.Fields{
		"function": function,
		"package":  "vault",
	})
}
