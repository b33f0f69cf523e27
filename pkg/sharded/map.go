package sharded

import (
	sc "sync"

	"github.com/cespare/xxhash/v2"
)

const defaultShardCount = 16

// Map is a string-keyed map split across independently locked shards.
type Map[T any] struct {
	shards   []shard[T]
	count    int
	hashFunc func(string) uint32
}

type shard[T any] struct {
	mx     sc.RWMutex
	values map[string]T
}

// New creates a Map with shardCount shards. Non-positive counts use 16.
func New[T any](shardCount int) *Map[T] {
	if shardCount <= 0 {
		shardCount = defaultShardCount
	}

	m := &Map[T]{
		shards: make([]shard[T], shardCount),
		count:  shardCount,
		hashFunc: func(key string) uint32 {
			return uint32(xxhash.Sum64String(key))
		},
	}
	for i := range m.shards {
		m.shards[i].values = make(map[string]T)
	}
	return m
}

func (m *Map[T]) shardFor(key string) *shard[T] {
	return &m.shards[m.hashFunc(key)%uint32(m.count)]
}

// Update replaces the value for key with fn(old, ok) under the shard lock.
func (m *Map[T]) Update(key string, fn func(old T, ok bool) T) T {
	sh := m.shardFor(key)
	sh.mx.Lock()
	defer sh.mx.Unlock()

	old, ok := sh.values[key]
	next := fn(old, ok)
	sh.values[key] = next
	return next
}

func (m *Map[T]) Delete(key string) {
	sh := m.shardFor(key)
	sh.mx.Lock()
	defer sh.mx.Unlock()

	delete(sh.values, key)
}

// Clear removes every key.
func (m *Map[T]) Clear() {
	for i := range m.shards {
		sh := &m.shards[i]
		sh.mx.Lock()
		clear(sh.values)
		sh.mx.Unlock()
	}
}
