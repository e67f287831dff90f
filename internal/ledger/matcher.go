package ledger

import (
	"contabot/internal/core"
	"contabot/internal/textnorm"
)

// mostRecentRef is the normalized form of the ULTIMO sentinel.
const mostRecentRef = "ultimo"

// Match is a resolved ledger row together with its position, which is
// the identity used for mutation.
type Match struct {
	Index int
	Entry core.Entry
}

// Resolve maps a user-supplied item reference to a concrete ledger row.
//
// The sentinel ULTIMO resolves to the last entry in insertion order.
// Any other reference is matched by scanning from most recent to
// oldest and returning the first entry whose item contains the
// reference as a substring, case and accent insensitively. Recency
// wins ties: a newer partial match beats an older exact one.
func Resolve(reference string, entries []core.Entry) (Match, bool) {
	if len(entries) == 0 {
		return Match{}, false
	}
	ref := textnorm.Normalize(reference)
	if ref == "" {
		return Match{}, false
	}
	if ref == mostRecentRef {
		last := len(entries) - 1
		return Match{Index: last, Entry: entries[last]}, true
	}
	for i := len(entries) - 1; i >= 0; i-- {
		if textnorm.Contains(entries[i].Item, ref) {
			return Match{Index: i, Entry: entries[i]}, true
		}
	}
	return Match{}, false
}
