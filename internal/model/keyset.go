package model

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// KeySet is the set of top-level keys present in one JSON object.
// The zero value is an empty set. Values built with NewKeySet are sorted
// and free of duplicates, which makes two sets with the same members equal
// element by element regardless of the order the keys appeared in.
type KeySet []string

// NewKeySet returns the canonical KeySet for keys.
// The input slice is not modified.
func NewKeySet(keys ...string) KeySet {
	set := make(KeySet, len(keys))
	copy(set, keys)
	slices.Sort(set)
	return slices.Compact(set)
}

// Len returns the number of keys in the set.
func (s KeySet) Len() int {
	return len(s)
}

// Contains reports whether key is a member of s.
func (s KeySet) Contains(key string) bool {
	_, found := slices.BinarySearch(s, key)
	return found
}

// Equal reports whether s and other have exactly the same members.
func (s KeySet) Equal(other KeySet) bool {
	return slices.Equal(s, other)
}

// IsSubsetOf reports whether every key of s is also in other.
func (s KeySet) IsSubsetOf(other KeySet) bool {
	if len(s) > len(other) {
		return false
	}
	for _, key := range s {
		if !other.Contains(key) {
			return false
		}
	}
	return true
}

// Difference returns the keys of s that are not in other.
func (s KeySet) Difference(other KeySet) KeySet {
	diff := KeySet{}
	for _, key := range s {
		if !other.Contains(key) {
			diff = append(diff, key)
		}
	}
	return diff
}

// Union returns the keys present in either s or other.
func (s KeySet) Union(other KeySet) KeySet {
	merged := make([]string, 0, len(s)+len(other))
	merged = append(merged, s...)
	merged = append(merged, other...)
	return NewKeySet(merged...)
}

// Compare orders key sets lexicographically by their sorted key sequence.
// A set that is a prefix of another sorts first.
func (s KeySet) Compare(other KeySet) int {
	return slices.Compare(s, other)
}

// Key returns a string that identifies the set's members and can be used
// as a map key. Each member is length-prefixed so that keys containing any
// byte sequence cannot collide.
func (s KeySet) Key() string {
	var sb strings.Builder
	for _, key := range s {
		sb.WriteString(strconv.Itoa(len(key)))
		sb.WriteByte(':')
		sb.WriteString(key)
	}
	return sb.String()
}

// Fingerprint returns a short stable hex identifier for the set.
func (s KeySet) Fingerprint() string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(s.Key()))
}

// String renders the set as "(a, b, c)".
func (s KeySet) String() string {
	return "(" + strings.Join(s, ", ") + ")"
}

// RowKeys pairs a zero-based row index with the keys found in that row.
type RowKeys struct {
	Row  int    `json:"row" yaml:"row"`
	Keys KeySet `json:"keys" yaml:"keys"`
}
