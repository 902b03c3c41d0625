// Package deaddrop implements the immutable, append-only dead-drop
// container the CoverNode mixer publishes and both users and journalists
// poll: deterministic per-direction serialization of a batch of already
// fixed-size encrypted messages, plus the V1 and V2 CoverNode identity-key
// signatures over that serialization.
package deaddrop

import "github.com/sirupsen/logrus"

func pkgLogger(function string) *logrus.Entry {
	return logrus.WithFields(logrus.Fields{
		"function": function,
		"package":  "deaddrop",
	})
}
