// Copyright 2026 The rql Authors.
// Licensed under Apache 2.0, see LICENCE file for details.

package rql

import (
	"sync"
)

// cacheSize bounds the number of parsed queries kept by queryCache.
const cacheSize = 512

// queryCache stores the queries returned by Parse indexed by their text.
// Queries are immutable, so the same value can be handed to every caller
// parsing the same text.
var queryCache = newParseCache()

// parseCache is a bounded map from RQL text to parsed queries. When full, the
// oldest entry is evicted.
//
// The mutex must be locked when accessing entries or order.
type parseCache struct {
	entries map[string]*Query
	// order holds the keys of entries from oldest to newest.
	order []string
	size  int
	mutex sync.RWMutex
}

var once sync.Once
var singleParseCache *parseCache

// newParseCache returns the single instance of the parse cache.
func newParseCache() *parseCache {
	once.Do(func() {
		singleParseCache = &parseCache{
			entries: map[string]*Query{},
			size:    cacheSize,
		}
	})
	return singleParseCache
}

// get returns the query cached for text.
func (pc *parseCache) get(text string) (*Query, bool) {
	pc.mutex.RLock()
	q, ok := pc.entries[text]
	pc.mutex.RUnlock()
	return q, ok
}

// put stores q for text and returns the cached query. If another goroutine
// stored a query for text since get was called, that query is returned
// instead so all callers share one value.
func (pc *parseCache) put(text string, q *Query) *Query {
	pc.mutex.Lock()
	defer pc.mutex.Unlock()
	// Check if a query has been inserted by someone else since we last
	// checked.
	if qAlt, ok := pc.entries[text]; ok {
		return qAlt
	}
	if len(pc.order) >= pc.size {
		oldest := pc.order[0]
		pc.order = pc.order[1:]
		delete(pc.entries, oldest)
	}
	pc.entries[text] = q
	pc.order = append(pc.order, text)
	return q
}

// reset empties the cache.
func (pc *parseCache) reset() {
	pc.mutex.Lock()
	defer pc.mutex.Unlock()
	pc.entries = map[string]*Query{}
	pc.order = nil
}
