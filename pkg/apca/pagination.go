package apca

import (
	"context"
)

// PageFunc fetches one page of an enumeration. An empty token requests the
// first page; a non-empty token must reach the server verbatim.
type PageFunc[T any] func(ctx context.Context, pageToken string) (items []T, nextToken *string, err error)

// PageIterator drives the cursor protocol for a list endpoint: each fetched
// page's token is copied unchanged into the next request, and the walk ends
// when the server returns no token. The iterator never reorders or
// deduplicates items and never issues a fetch past an absent token. A single
// iterator is sequential by nature; independent iterators may run
// concurrently.
type PageIterator[T any] struct {
	fetch PageFunc[T]
	token string
	done  bool
}

// NewPageIterator creates an iterator over the enumeration served by fetch.
func NewPageIterator[T any](fetch PageFunc[T]) *PageIterator[T] {
	return &PageIterator[T]{fetch: fetch}
}

// HasNext reports whether another page can be requested.
func (it *PageIterator[T]) HasNext() bool {
	return !it.done
}

// NextPage fetches the next page. After an error, or once the server signals
// the end, the iterator is exhausted and further calls return ErrNoMorePages.
func (it *PageIterator[T]) NextPage(ctx context.Context) ([]T, error) {
	if it.done {
		return nil, ErrNoMorePages
	}

	items, next, err := it.fetch(ctx, it.token)
	if err != nil {
		it.done = true

		return nil, err
	}

	if next == nil || *next == "" {
		it.done = true
		it.token = ""
	} else {
		it.token = *next
	}

	return items, nil
}

// All drains the remaining pages into a single slice, in server order. On
// error the items fetched so far are returned alongside it. The walk is not
// time-bounded; callers wanting a page cap drive NextPage themselves.
func (it *PageIterator[T]) All(ctx context.Context) ([]T, error) {
	var all []T

	for it.HasNext() {
		items, err := it.NextPage(ctx)
		if err != nil {
			return all, err
		}

		all = append(all, items...)
	}

	return all, nil
}
