// Package protocol implements the layered message formats that carry
// CoverDrop traffic between users, the CoverNode, and journalists: the
// plaintext encodings (U2J, J2U), the CoverNode-bound outer wrapping (U2C,
// J2C), the CoverNode-to-journalist relay layer (C2J), recipient-tag
// routing, and indistinguishable cover message generation.
//
// Every layer is a fixed-size wire container independent of payload
// content; the package never branches on plaintext length when deciding
// what to emit.
package protocol

import "github.com/sirupsen/logrus"

func pkgLogger(function string) *logrus.Entry {
	return logrus.WithFields(logrus.Fields{
		"function": function,
		"package":  "protocol",
	})
}
