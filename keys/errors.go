package keys

import "errors"

// ErrCertificateInvalid is returned when a certificate's signature does not
// verify against its claimed parent.
var ErrCertificateInvalid = errors.New("keys: certificate does not verify against parent")

// ErrExpired is returned when a key's not_valid_after has passed, distinct
// from a certificate signature failure (testable property 9).
var ErrExpired = errors.New("keys: key has expired")

// ErrUnknownParent is returned when verification is attempted against a
// parent that is not itself verified or anchored.
var ErrUnknownParent = errors.New("keys: parent key is not verified")

// ErrPermissionsTooOpen is returned when a secret key file on disk has a
// filesystem mode wider than 0600.
var ErrPermissionsTooOpen = errors.New("keys: secret key file permissions are wider than 0600")

// ErrNoCandidateIdentity is returned when a journalist vault attempts to
// promote a published identity key without a matching candidate on file.
var ErrNoCandidateIdentity = errors.New("keys: no candidate identity key pending publication")
