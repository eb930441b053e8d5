// Package cache keeps generated output between runs of a long-lived process,
// such as watch mode, so an unchanged configuration is not rendered again.
package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// Key hashes parts into a cache key. Each part is length-prefixed, so
// ("ab", "c") and ("a", "bc") give different keys.
func Key(parts ...[]byte) string {
	h := sha256.New()
	var size [8]byte
	for _, p := range parts {
		binary.LittleEndian.PutUint64(size[:], uint64(len(p)))
		h.Write(size[:])
		h.Write(p)
	}
	return hex.EncodeToString(h.Sum(nil)[:16])
}
