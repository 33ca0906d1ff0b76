// Package cache implements the bounded LRU cache core: a recency index
// (component F) and a single-writer/many-reader coordinator (component G)
// that sits in front of a durable store.
package cache

import "container/list"

// indexEntry is the payload carried by each node of the recency list.
type indexEntry[K comparable] struct {
	token uint64
	key   K
}

// index is the ordered-by-recency mapping recency_token -> key described
// in spec component F. It is backed by a doubly linked list kept in
// strictly increasing token order: every insert appends to the back, so
// the front is always the least-recently-used entry. A side table keyed
// by token turns delete(token) into an O(1) average operation, which
// satisfies (and beats) the O(log n) bound the design calls for.
//
// index is not safe for concurrent use; it is owned exclusively by the
// Cache's single coordinator goroutine.
type index[K comparable] struct {
	order   *list.List
	byToken map[uint64]*list.Element
}

func newIndex[K comparable]() *index[K] {
	return &index[K]{
		order:   list.New(),
		byToken: make(map[uint64]*list.Element),
	}
}

// insert records a new (token, key) pair as the most recently used entry.
func (idx *index[K]) insert(token uint64, key K) {
	el := idx.order.PushBack(&indexEntry[K]{token: token, key: key})
	idx.byToken[token] = el
}

// delete removes the entry for token, if present. Deleting an unknown
// token is a no-op, since a key may already have been evicted by a
// concurrent prune before a stale touch is processed.
func (idx *index[K]) delete(token uint64) {
	el, ok := idx.byToken[token]
	if !ok {
		return
	}
	idx.order.Remove(el)
	delete(idx.byToken, token)
}

// popOldest removes and returns up to n entries in ascending recency
// order (oldest first). Fewer than n may be returned if the index holds
// fewer entries.
func (idx *index[K]) popOldest(n int) []indexEntry[K] {
	if n <= 0 {
		return nil
	}
	out := make([]indexEntry[K], 0, n)
	for i := 0; i < n; i++ {
		front := idx.order.Front()
		if front == nil {
			break
		}
		entry := front.Value.(*indexEntry[K])
		idx.order.Remove(front)
		delete(idx.byToken, entry.token)
		out = append(out, *entry)
	}
	return out
}

func (idx *index[K]) len() int {
	return idx.order.Len()
}
