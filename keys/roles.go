// Package keys implements the CoverDrop key hierarchy: role-tagged public
// keys, certificates, the verified trust graph, epoch assignment, and the
// rotation protocol for messaging and identity keys.
//
// Roles are compile-time markers (Go generics), not a runtime enum: a
// signing key of one role can never be substituted for another at a type
// level, matching the source's phantom-typed key design (§9).
package keys

// Role is the closed set of key roles in the CoverDrop hierarchy. The
// unexported method seals the interface so only the marker types declared
// in this file can satisfy it — no other package may introduce a new role.
type Role interface {
	isCoverDropRole()
}

// Organization is the root signing role below the trust anchor.
type Organization struct{}

// AnchorOrganization marks an Organization key promoted to a trust root.
type AnchorOrganization struct{}

// CoverNodeProvisioning signs CoverNode identity keys.
type CoverNodeProvisioning struct{}

// CoverNodeId is a CoverNode's registered identity key.
type CoverNodeId struct{}

// UnregisteredCoverNodeId is a CoverNode identity key generated locally,
// not yet countersigned and published by the Identity API.
type UnregisteredCoverNodeId struct{}

// CoverNodeMessaging is a CoverNode's X25519 messaging key.
type CoverNodeMessaging struct{}

// JournalistProvisioning signs journalist identity keys.
type JournalistProvisioning struct{}

// JournalistId is a journalist's registered identity key.
type JournalistId struct{}

// UnregisteredJournalistId is a journalist identity key pair generated and
// persisted as a vault candidate, not yet published.
type UnregisteredJournalistId struct{}

// JournalistMessaging is a journalist's X25519 messaging key.
type JournalistMessaging struct{}

// User is an anonymous source's ephemeral X25519 reply key.
type User struct{}

// Mailbox marks material stored inside a user's local mailbox, distinct
// from the wire-facing User role.
type Mailbox struct{}

// Test is used only by test vectors and this module's own tests.
type Test struct{}

func (Organization) isCoverDropRole()              {}
func (AnchorOrganization) isCoverDropRole()         {}
func (CoverNodeProvisioning) isCoverDropRole()      {}
func (CoverNodeId) isCoverDropRole()                {}
func (UnregisteredCoverNodeId) isCoverDropRole()    {}
func (CoverNodeMessaging) isCoverDropRole()         {}
func (JournalistProvisioning) isCoverDropRole()     {}
func (JournalistId) isCoverDropRole()               {}
func (UnregisteredJournalistId) isCoverDropRole()   {}
func (JournalistMessaging) isCoverDropRole()        {}
func (User) isCoverDropRole()                       {}
func (Mailbox) isCoverDropRole()                    {}
func (Test) isCoverDropRole()                       {}
