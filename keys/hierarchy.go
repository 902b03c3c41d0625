package keys

import "iter"

// CoverNodeKeyFamily groups one CoverNode's identity and messaging keys.
// Multiple concurrent keys may exist at each level during rotation (§3.3).
type CoverNodeKeyFamily struct {
	IdentityKeys  []VerifiedPublicKey[CoverNodeId]
	MessagingKeys []VerifiedPublicKey[CoverNodeMessaging] // oldest first, latest last
}

// JournalistKeyFamily groups one journalist's identity and messaging keys.
type JournalistKeyFamily struct {
	JournalistID  string
	IdentityKeys  []VerifiedPublicKey[JournalistId]
	MessagingKeys []VerifiedPublicKey[JournalistMessaging] // oldest first, latest last
}

// Hierarchy is the polymorphic tree of verified public keys rooted at one or
// more anchors (multiple anchors coexist during org-key rotation, §4.2). It
// is assembled bottom-up from an API snapshot (§4.2 "Hierarchy snapshot").
//
// Iterators returned by Hierarchy methods borrow against this value; callers
// must not retain them past the next hierarchy refresh.
type Hierarchy struct {
	Anchors                []AnchorOrganizationPublicKey
	CoverNodeProvisioning  []VerifiedPublicKey[CoverNodeProvisioning]
	JournalistProvisioning []VerifiedPublicKey[JournalistProvisioning]
	CoverNodes             []CoverNodeKeyFamily
	Journalists            []JournalistKeyFamily
}

// NewHierarchy returns an empty hierarchy with the given anchor set.
func NewHierarchy(anchors ...AnchorOrganizationPublicKey) *Hierarchy {
	return &Hierarchy{Anchors: anchors}
}

// LatestCoverNodeMsgPKIter yields the newest messaging key of every known
// CoverNode — the set a client should address real traffic's U2C wrapping
// and cover traffic to.
func (h *Hierarchy) LatestCoverNodeMsgPKIter() iter.Seq[VerifiedPublicKey[CoverNodeMessaging]] {
	return func(yield func(VerifiedPublicKey[CoverNodeMessaging]) bool) {
		for _, cn := range h.CoverNodes {
			if len(cn.MessagingKeys) == 0 {
				continue
			}
			if !yield(cn.MessagingKeys[len(cn.MessagingKeys)-1]) {
				return
			}
		}
	}
}

// CoverNodeIdPKIter yields every known CoverNode identity key, across all
// CoverNodes and all concurrently valid keys per CoverNode.
func (h *Hierarchy) CoverNodeIdPKIter() iter.Seq[VerifiedPublicKey[CoverNodeId]] {
	return func(yield func(VerifiedPublicKey[CoverNodeId]) bool) {
		for _, cn := range h.CoverNodes {
			for _, id := range cn.IdentityKeys {
				if !yield(id) {
					return
				}
			}
		}
	}
}

// LatestJournalistMsgPK returns the newest messaging key for journalistID.
func (h *Hierarchy) LatestJournalistMsgPK(journalistID string) (VerifiedPublicKey[JournalistMessaging], bool) {
	for _, j := range h.Journalists {
		if j.JournalistID != journalistID || len(j.MessagingKeys) == 0 {
			continue
		}
		return j.MessagingKeys[len(j.MessagingKeys)-1], true
	}
	return VerifiedPublicKey[JournalistMessaging]{}, false
}

// FindCoverNodeIdPKFromRawEd25519PK looks up a CoverNode identity key by its
// raw bytes, used when a dead-drop signer must be resolved back to a known
// CoverNode.
func (h *Hierarchy) FindCoverNodeIdPKFromRawEd25519PK(raw [32]byte) (VerifiedPublicKey[CoverNodeId], bool) {
	for _, cn := range h.CoverNodes {
		for _, id := range cn.IdentityKeys {
			if id.Bytes == raw {
				return id, true
			}
		}
	}
	return VerifiedPublicKey[CoverNodeId]{}, false
}

// FindJournalistIdPKFromRawEd25519PK looks up a journalist identity key by
// its raw bytes.
func (h *Hierarchy) FindJournalistIdPKFromRawEd25519PK(raw [32]byte) (VerifiedPublicKey[JournalistId], bool) {
	for _, j := range h.Journalists {
		for _, id := range j.IdentityKeys {
			if id.Bytes == raw {
				return id, true
			}
		}
	}
	return VerifiedPublicKey[JournalistId]{}, false
}

// MaxEpoch returns the highest epoch witnessed anywhere in the hierarchy,
// used to detect dead-drop staleness (testable property 8).
func (h *Hierarchy) MaxEpoch() uint64 {
	var max uint64
	bump := func(e uint64) {
		if e > max {
			max = e
		}
	}
	for _, cn := range h.CoverNodes {
		for _, id := range cn.IdentityKeys {
			bump(id.Epoch)
		}
		for _, m := range cn.MessagingKeys {
			bump(m.Epoch)
		}
	}
	for _, j := range h.Journalists {
		for _, id := range j.IdentityKeys {
			bump(id.Epoch)
		}
		for _, m := range j.MessagingKeys {
			bump(m.Epoch)
		}
	}
	return max
}

// NeedsRefresh reports whether a dead drop carrying maxEpochWitness was
// signed against a hierarchy view fresher than this one (testable property
// 8): the caller should refresh before trusting the dead drop.
func (h *Hierarchy) NeedsRefresh(maxEpochWitness uint64) bool {
	return maxEpochWitness > h.MaxEpoch()
}
