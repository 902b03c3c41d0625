package keys

// RoleTaggedKey pairs raw key bytes with a compile-time role marker for
// material that never carries a Certificate — the anonymous source's
// ephemeral reply key (role User) and its persisted counterpart inside a
// user's local mailbox (role Mailbox, §3.1) are the same 32 bytes, but
// the role parameter keeps "this came off the wire" and "this is stored
// in the local mailbox" from being interchangeable at a type level, the
// way Certificate[R]/PublicKey[R] already do for certified roles.
type RoleTaggedKey[R Role] struct {
	Bytes [32]byte
}
