package keys

import "sync"

// Registry is the canonical key registry: it assigns a strictly increasing
// epoch to every distinct public key inserted, and is idempotent for
// repeated inserts of the same key bytes (testable property 7). A
// production deployment backs this with the identity API's database (out of
// scope, §1); this type exposes the contract a DB-backed implementation
// would need.
type Registry struct {
	mu        sync.Mutex
	nextEpoch uint64
	epochOf   map[[32]byte]uint64
}

// NewRegistry creates an empty registry; the first inserted key is assigned
// epoch 0.
func NewRegistry() *Registry {
	return &Registry{epochOf: make(map[[32]byte]uint64)}
}

// Insert assigns pubKey an epoch, or returns its existing epoch if it was
// already inserted.
func (r *Registry) Insert(pubKey [32]byte) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	if epoch, ok := r.epochOf[pubKey]; ok {
		return epoch
	}

	epoch := r.nextEpoch
	r.nextEpoch++
	r.epochOf[pubKey] = epoch
	return epoch
}

// Epoch returns the epoch assigned to pubKey, if any.
func (r *Registry) Epoch(pubKey [32]byte) (uint64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	epoch, ok := r.epochOf[pubKey]
	return epoch, ok
}

// MaxEpoch returns the highest epoch assigned so far, and false if the
// registry is empty.
func (r *Registry) MaxEpoch() (uint64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.nextEpoch == 0 {
		return 0, false
	}
	return r.nextEpoch - 1, true
}
