// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

// MemoryKeyValue is an in-process [INatsKeyValue] used for local development without a
// NATS server and by the repository tests. Revisions are global across keys like the
// stream sequence of a real bucket. Delete ignores the LastRevision option.
type MemoryKeyValue struct {
	bucket string

	mu       sync.RWMutex
	data     map[string][]byte
	revs     map[string]uint64
	created  map[string]time.Time
	sequence uint64

	// Injected failures, used by tests.
	putError    error
	getError    error
	listError   error
	deleteError error
	updateError error
}

// NewMemoryKeyValue creates an empty in-memory bucket.
func NewMemoryKeyValue(bucket string) *MemoryKeyValue {
	return &MemoryKeyValue{
		bucket:  bucket,
		data:    make(map[string][]byte),
		revs:    make(map[string]uint64),
		created: make(map[string]time.Time),
	}
}

type memoryEntry struct {
	bucket   string
	key      string
	value    []byte
	revision uint64
	created  time.Time
}

func (e *memoryEntry) Bucket() string                  { return e.bucket }
func (e *memoryEntry) Key() string                     { return e.key }
func (e *memoryEntry) Value() []byte                   { return e.value }
func (e *memoryEntry) Revision() uint64                { return e.revision }
func (e *memoryEntry) Created() time.Time              { return e.created }
func (e *memoryEntry) Delta() uint64                   { return 0 }
func (e *memoryEntry) Operation() jetstream.KeyValueOp { return jetstream.KeyValuePut }

type memoryLister struct {
	keys []string
}

func (l *memoryLister) Keys() <-chan string {
	ch := make(chan string, len(l.keys))
	for _, k := range l.keys {
		ch <- k
	}
	close(ch)
	return ch
}

func (l *memoryLister) Stop() error { return nil }

// Get returns the current entry of key.
func (m *MemoryKeyValue) Get(_ context.Context, key string) (jetstream.KeyValueEntry, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.data[key]
	if !ok {
		return nil, jetstream.ErrKeyNotFound
	}
	return &memoryEntry{
		bucket:   m.bucket,
		key:      key,
		value:    slices.Clone(value),
		revision: m.revs[key],
		created:  m.created[key],
	}, nil
}

// Put stores value under key unconditionally.
func (m *MemoryKeyValue) Put(_ context.Context, key string, value []byte) (uint64, error) {
	if m.putError != nil {
		return 0, m.putError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.store(key, value), nil
}

// Update stores value only when the current revision of key equals last.
func (m *MemoryKeyValue) Update(_ context.Context, key string, value []byte, last uint64) (uint64, error) {
	if m.updateError != nil {
		return 0, m.updateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.revs[key]
	if !ok && last != 0 {
		return 0, jetstream.ErrKeyNotFound
	}
	if current != last {
		return 0, &jetstream.APIError{Code: 400, ErrorCode: jetstream.JSErrCodeStreamWrongLastSequence, Description: "wrong last sequence"}
	}
	return m.store(key, value), nil
}

func (m *MemoryKeyValue) store(key string, value []byte) uint64 {
	m.sequence++
	if _, ok := m.data[key]; !ok {
		m.created[key] = time.Now().UTC()
	}
	m.data[key] = slices.Clone(value)
	m.revs[key] = m.sequence
	return m.sequence
}

// Delete removes key.
func (m *MemoryKeyValue) Delete(_ context.Context, key string, _ ...jetstream.KVDeleteOpt) error {
	if m.deleteError != nil {
		return m.deleteError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.data[key]; !ok {
		return jetstream.ErrKeyNotFound
	}
	delete(m.data, key)
	delete(m.revs, key)
	delete(m.created, key)
	return nil
}

// ListKeys lists every key in the bucket.
func (m *MemoryKeyValue) ListKeys(ctx context.Context, _ ...jetstream.WatchOpt) (jetstream.KeyLister, error) {
	return m.ListKeysFiltered(ctx, ">")
}

// ListKeysFiltered lists the keys matching any of the subject-style filters.
func (m *MemoryKeyValue) ListKeysFiltered(_ context.Context, filters ...string) (jetstream.KeyLister, error) {
	if m.listError != nil {
		return nil, m.listError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var keys []string
	for key := range m.data {
		if slices.ContainsFunc(filters, func(f string) bool { return subjectMatches(f, key) }) {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)
	return &memoryLister{keys: keys}, nil
}

// subjectMatches applies NATS wildcard rules: "*" matches one token, a trailing ">"
// matches one or more tokens.
func subjectMatches(filter, key string) bool {
	ft := strings.Split(filter, ".")
	kt := strings.Split(key, ".")
	for i, f := range ft {
		if f == ">" {
			return len(kt) > i
		}
		if i >= len(kt) {
			return false
		}
		if f != "*" && f != kt[i] {
			return false
		}
	}
	return len(ft) == len(kt)
}
