// Package determinism provides content hashes for recipe datasets.
// Two datasets with the same fingerprint resolve every query identically.
package determinism

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"strconv"

	"recipe-cost/core/types"
)

// ContentHash is a SHA-256 hash for content integrity
type ContentHash [32]byte

// ComputeHash computes a content hash from bytes
func ComputeHash(data []byte) ContentHash {
	return sha256.Sum256(data)
}

// Hex returns the hash as a hex string
func (h ContentHash) Hex() string {
	return hex.EncodeToString(h[:])
}

// String returns the short form used in reports
func (h ContentHash) String() string {
	return h.Hex()[:16]
}

// Fingerprint hashes entries in input order.
// Order is part of the identity since it decides recipe tie-breaks.
// Costs are hashed by value, so "3" and "3.00" fingerprint alike.
func Fingerprint(entries []types.Entry) ContentHash {
	h := sha256.New()
	for _, e := range entries {
		field(h, string(e.Kind))
		field(h, e.Name)
		if e.Kind == types.KindAtomic {
			field(h, e.Cost.String())
		}
		for _, ing := range e.Ingredients {
			field(h, ing.Name)
			field(h, strconv.FormatInt(ing.Quantity, 10))
		}
		h.Write([]byte{1}) // record separator
	}

	var sum ContentHash
	copy(sum[:], h.Sum(nil))
	return sum
}

func field(h hash.Hash, s string) {
	h.Write([]byte(s))
	h.Write([]byte{0})
}
