package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Short returns the first 16 hex characters, enough for an ETag
func (h Hash) Short() string {
	if len(h) <= 16 {
		return string(h)
	}
	return string(h[:16])
}

// ComputeKeyedHash hashes key/value parts independently of map iteration
// order. Keys are sorted and every part is length-prefixed, so ("ab","c")
// and ("a","bc") never collide.
func ComputeKeyedHash(parts map[string][]string) Hash {
	keys := make([]string, 0, len(parts))
	for k := range parts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var data strings.Builder
	for _, key := range keys {
		values := parts[key]
		fmt.Fprintf(&data, "%d:%s%d;", len(key), key, len(values))
		for _, v := range values {
			fmt.Fprintf(&data, "%d:%s", len(v), v)
		}
	}
	return NewHash([]byte(data.String()))
}
