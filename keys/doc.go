// Package keys implements the CoverDrop trust graph: role-tagged public
// keys, certificates, the canonical epoch registry, key rotation, and the
// on-disk key file envelope. Go generics stand in for the role enum a
// dynamically typed implementation would carry at runtime — a
// PublicKey[JournalistId] and a PublicKey[CoverNodeId] are different types
// at compile time even though both wrap a [32]byte and a signature.
package keys

import "github.com/sirupsen/logrus"

func pkgLogger(function string) *logrus.Entry {
	return logrus.WithFields(logrus.Fields{
		"function": function,
		"package":  "keys",
	})
}
