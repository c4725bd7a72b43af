package domain

import (
	"iter"
	"slices"
)

// Quotes is an ordered collection. Insertion order is significant.
type Quotes []Quote

// Clone returns an independent copy.
func (qs Quotes) Clone() Quotes {
	if qs == nil {
		return Quotes{}
	}

	return slices.Clone(qs)
}

// Categories yields distinct category names in first-seen order.
// The sequence is computed lazily and can be ranged over any number of times.
func (qs Quotes) Categories() iter.Seq[string] {
	return func(yield func(string) bool) {
		seen := make(map[string]struct{}, len(qs))

		for _, q := range qs {
			if _, ok := seen[q.Category]; ok {
				continue
			}

			seen[q.Category] = struct{}{}

			if !yield(q.Category) {
				return
			}
		}
	}
}

// Filter returns the quotes selected by filter, preserving order.
func (qs Quotes) Filter(filter string) Quotes {
	if filter == FilterAll {
		return qs.Clone()
	}

	out := make(Quotes, 0, len(qs))

	for _, q := range qs {
		if q.MatchesFilter(filter) {
			out = append(out, q)
		}
	}

	return out
}

// Partition splits the collection into user-authored and server-tagged quotes.
func (qs Quotes) Partition() (user, server Quotes) {
	user = make(Quotes, 0, len(qs))
	server = make(Quotes, 0)

	for _, q := range qs {
		if q.IsServer() {
			server = append(server, q)
		} else {
			user = append(user, q)
		}
	}

	return user, server
}

// ReplaceServer drops every server-tagged quote and appends fetched in order.
// Non-server quotes keep their relative order and always come first.
// An empty fetched slice leaves no server quotes behind.
func (qs Quotes) ReplaceServer(fetched []Quote) Quotes {
	user, _ := qs.Partition()

	merged := make(Quotes, 0, len(user)+len(fetched))
	merged = append(merged, user...)
	merged = append(merged, fetched...)

	return merged
}

// Append returns a new collection with extra appended.
func (qs Quotes) Append(extra ...Quote) Quotes {
	merged := make(Quotes, 0, len(qs)+len(extra))
	merged = append(merged, qs...)

	return append(merged, extra...)
}
