// Package refmodel provides a deliberately simple, in-memory reference
// model of the cache's observable behavior: a plain map plus expirations,
// with none of the blob/WAL/index machinery. Property tests drive the same
// operations against both the model and a real [blobcache.Cache] and assert
// the observable results agree.
package refmodel

// Entry is a live key's modeled state.
type Entry struct {
	Value   any
	Expires int64 // Unix seconds; 0 means never expires.
}

// Model is the reference state: keys present, and at what time each
// expires.
type Model struct {
	Entries map[string]Entry
}

// New returns an empty model.
func New() *Model {
	return &Model{Entries: make(map[string]Entry)}
}

// Set installs key unconditionally, overwriting any previous entry.
func (m *Model) Set(key string, value any, expires int64) {
	m.Entries[key] = Entry{Value: value, Expires: expires}
}

// Delete removes key if present; a no-op otherwise.
func (m *Model) Delete(key string) {
	delete(m.Entries, key)
}

// DeletePrefix removes every key with the given prefix.
func (m *Model) DeletePrefix(prefix string) {
	for key := range m.Entries {
		if hasPrefix(key, prefix) {
			delete(m.Entries, key)
		}
	}
}

// Get reports the value stored under key, given the current time, honoring
// expiration the same way the real cache does: live only while now <
// expires.
func (m *Model) Get(key string, now int64) (any, bool) {
	entry, ok := m.Entries[key]
	if !ok {
		return nil, false
	}

	if entry.Expires != 0 && now >= entry.Expires {
		delete(m.Entries, key)
		return nil, false
	}

	return entry.Value, true
}

// Has reports liveness without returning the value.
func (m *Model) Has(key string, now int64) bool {
	_, ok := m.Get(key, now)
	return ok
}

// Keys returns the keys currently present, live or not - mirroring
// [blobcache.Cache.Keys], which snapshots the index without evicting
// expired entries.
func (m *Model) Keys() []string {
	keys := make([]string, 0, len(m.Entries))
	for key := range m.Entries {
		keys = append(keys, key)
	}

	return keys
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}
