// Package mixer implements the CoverNode mixing engine (Component D):
// per-direction decrypt pools that try every known messaging key, a
// threshold-or-timeout buffer that accumulates real messages and fills the
// remainder with cover to a constant output size, a dead-drop publisher
// with exponential back-off, and the checkpoint-advancement rule that ties
// publish success to upstream offset acknowledgement.
package mixer

import "github.com/sirupsen/logrus"

func pkgLogger(function string) *logrus.Entry {
	return logrus.WithFields(logrus.Fields{
		"function": function,
		"package":  "mixer",
	})
}
