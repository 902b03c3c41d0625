// Package config loads the absolute constants the key hierarchy and
// mixer need but never enforce themselves: per-role validity/rotation
// windows (§3.5) and the mixer's threshold-or-timeout parameters (§4.4).
// Only the relative invariants between these numbers are checked in code;
// the numbers themselves come from YAML, following the config-loading
// convention used throughout the Chartly2.0 reference repo
// (gopkg.in/yaml.v3, a struct tagged with `yaml:"..."`, loaded from a path
// with compiled-in defaults applied first).
package config

import "github.com/sirupsen/logrus"

func pkgLogger(function string) *logrus.Entry {
	return logrus.WithFields(logrus.Fields{
		"function": function,
		"package":  "config",
	})
}
