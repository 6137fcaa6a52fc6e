package socket

import (
	"sync"

	"github.com/segmentio/fasthash/fnv1a"
)

const CONCURRENCY = 32

type conc_client_table struct {
	table map[string]*Client
	sync.RWMutex
}
type conc_client_table_shards []*conc_client_table

func (ct conc_client_table_shards) get_shard(id string) *conc_client_table {
	return ct[fnv1a.HashString32(id)%CONCURRENCY]
}

// Registry maps userID to that user's live connection. Binding is
// last-writer-wins; unbinding only removes the entry when it still
// belongs to the departing connection.
type Registry struct {
	shards conc_client_table_shards
}

// NewRegistry builds an empty sharded registry
func NewRegistry() *Registry {
	shards := make([]*conc_client_table, CONCURRENCY)
	for i := 0; uint32(i) < CONCURRENCY; i++ {
		shards[i] = &conc_client_table{table: make(map[string]*Client)}
	}
	return &Registry{shards: shards}
}

// Bind registers a client under its userID, displacing any previous
// connection for the same user
func (r *Registry) Bind(cl *Client) {
	shard := r.shards.get_shard(cl.UserID)
	shard.Lock()
	shard.table[cl.UserID] = cl
	shard.Unlock()
}

// Get returns the live connection for a user, or nil if offline
func (r *Registry) Get(userID string) *Client {
	shard := r.shards.get_shard(userID)
	shard.RLock()
	cl := shard.table[userID]
	shard.RUnlock()
	return cl
}

// Unbind removes the client if it is still the bound connection for its
// user; a newer connection that displaced it stays
func (r *Registry) Unbind(cl *Client) {
	shard := r.shards.get_shard(cl.UserID)
	shard.Lock()
	if shard.table[cl.UserID] == cl {
		delete(shard.table, cl.UserID)
	}
	shard.Unlock()
}
