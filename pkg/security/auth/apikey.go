package auth

import (
	"crypto/sha256"
	"crypto/subtle"
)

// KeySet holds the configured API keys in a form suitable for constant-time
// matching. Loaded once at startup; immutable and safe for concurrent use.
type KeySet struct {
	hashes [][sha256.Size]byte
}

// NewKeySet builds a key set from the configured keys. Duplicates are
// harmless. An empty or nil slice produces a disabled set.
func NewKeySet(keys []string) *KeySet {
	ks := &KeySet{}
	for _, key := range keys {
		if key == "" {
			continue
		}
		ks.hashes = append(ks.hashes, sha256.Sum256([]byte(key)))
	}
	return ks
}

// Enabled reports whether any keys are configured. A disabled set admits
// every request.
func (ks *KeySet) Enabled() bool {
	return len(ks.hashes) > 0
}

// Len returns the number of configured keys.
func (ks *KeySet) Len() int {
	return len(ks.hashes)
}

// Match reports whether candidate matches one of the configured keys.
// Both sides are hashed before comparison so inputs of different lengths
// compare in constant time, and every configured key is always examined so
// the match position does not influence timing.
func (ks *KeySet) Match(candidate string) bool {
	candidateHash := sha256.Sum256([]byte(candidate))

	matched := 0
	for i := range ks.hashes {
		matched |= subtle.ConstantTimeCompare(candidateHash[:], ks.hashes[i][:])
	}
	return matched == 1
}
