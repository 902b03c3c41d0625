package mixer

import (
	"errors"
	"time"

	"github.com/guardian/coverdrop-core/crypto"
)

// ErrNoValidIdentityKey is the one documented panic condition of this
// package (§7 "Invariant violation | no valid identity key present at
// dead-drop time | Fatal; panic to force operator intervention", and §4.4
// "Lack of any valid CoverNode messaging key pair: the mixer deliberately
// panics"): continuing to emit cover-only dead drops indefinitely would
// silently corrode the anonymity set, so the operator must restart after
// manual remediation instead.
var ErrNoValidIdentityKey = errors.New("mixer: no valid CoverNode identity key present")

// IdentityCandidate pairs an identity signing key pair with the expiry of
// its certificate.
type IdentityCandidate struct {
	KeyPair       *crypto.SigningKeyPair
	NotValidAfter time.Time
	Epoch         uint64
}

// OwnKeys is the CoverNode's own key material: the messaging secret keys it
// holds (latest-valid first, used to open incoming U2C/J2C layers) and its
// identity signing key candidates (used to sign outgoing dead drops).
type OwnKeys struct {
	MessagingSecretKeys [][32]byte
	IdentityKeys        []IdentityCandidate // any order
}

// LatestValidIdentityKeyPair returns the newest identity key pair whose
// certificate has not expired as of now, preferring the highest epoch among
// still-valid candidates (§4.2 "the old ID key continues to sign dead drops"
// until a rotation form round-trips, so multiple identity keys may be
// simultaneously valid).
func (k OwnKeys) LatestValidIdentityKeyPair(now time.Time) (IdentityCandidate, bool) {
	best := IdentityCandidate{}
	found := false
	for _, c := range k.IdentityKeys {
		if now.After(c.NotValidAfter) {
			continue
		}
		if !found || c.Epoch > best.Epoch {
			best = c
			found = true
		}
	}
	return best, found
}

// PruneExpiredIdentityKeys drops every identity candidate whose certificate
// has expired as of now, securely wiping its private key before releasing
// it. A running CoverNode holds at most two identity keys at once (§4.2:
// the old key keeps signing until a rotation form round-trips), so this is
// meant to be called periodically, e.g. from a taskrunner.Task, to retire
// the old candidate once the new one has taken over. It returns the number
// of candidates pruned.
func (k *OwnKeys) PruneExpiredIdentityKeys(now time.Time) int {
	kept := k.IdentityKeys[:0]
	pruned := 0
	for _, c := range k.IdentityKeys {
		if now.After(c.NotValidAfter) {
			if err := crypto.WipeSigningKeyPair(c.KeyPair); err != nil {
				pkgLogger("PruneExpiredIdentityKeys").WithError(err).Warn("failed to wipe expired identity key pair")
			}
			pruned++
			continue
		}
		kept = append(kept, c)
	}
	k.IdentityKeys = kept
	return pruned
}
