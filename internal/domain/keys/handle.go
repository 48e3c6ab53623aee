package keys

import "sync/atomic"

// Handle shares a private key between holders with explicit lifetime: each
// holder retains the handle, and the last release zeroizes the secret
// material. This replaces raw up-ref/destroy pairs with single-owner-with-
// explicit-sharing semantics.
type Handle struct {
	key  *PrivateKey
	refs atomic.Int32
}

// NewHandle wraps key in a handle with a reference count of one.
func NewHandle(key *PrivateKey) *Handle {
	h := &Handle{key: key}
	h.refs.Store(1)
	return h
}

// Retain adds a holder and returns the handle for chaining.
func (h *Handle) Retain() *Handle {
	h.refs.Add(1)
	return h
}

// Release drops a holder. When the last holder releases, the private key is
// zeroized and the handle becomes unusable. Release reports whether this
// call destroyed the key.
func (h *Handle) Release() bool {
	if h.refs.Add(-1) > 0 {
		return false
	}
	h.key.Zeroize()
	h.key = nil
	return true
}

// Key returns the shared private key, or nil after destruction.
func (h *Handle) Key() *PrivateKey {
	return h.key
}
