// Package taskrunner implements the client-side cooperative scheduler
// described in §5: one goroutine advancing a registry of named,
// independently-intervalled tasks (rotation, dead-drop poll, outbound
// send, vault GC), each jittered the way the teacher's
// async.RetrievalScheduler jitters its own retrieval interval, so that an
// external observer of task timing cannot distinguish one client's
// schedule from another's.
package taskrunner

import "github.com/sirupsen/logrus"

func pkgLogger(function string) *logrus.Entry {
	return logrus.WithFields(logrus.Fields{
		"function": function,
		"package":  "taskrunner",
	})
}
