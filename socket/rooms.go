package socket

import "sync"

// RoomTable tracks which connections are inside which chat room
type RoomTable struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}
}

// NewRoomTable builds an empty room table
func NewRoomTable() *RoomTable {
	return &RoomTable{rooms: make(map[string]map[*Client]struct{})}
}

// Join adds a connection to a room
func (rt *RoomTable) Join(roomID string, cl *Client) {
	rt.mu.Lock()
	members, ok := rt.rooms[roomID]
	if !ok {
		members = make(map[*Client]struct{})
		rt.rooms[roomID] = members
	}
	members[cl] = struct{}{}
	rt.mu.Unlock()
}

// Leave removes a connection from a room
func (rt *RoomTable) Leave(roomID string, cl *Client) {
	rt.mu.Lock()
	if members, ok := rt.rooms[roomID]; ok {
		delete(members, cl)
		if len(members) == 0 {
			delete(rt.rooms, roomID)
		}
	}
	rt.mu.Unlock()
}

// LeaveAll removes a connection from every room it joined
func (rt *RoomTable) LeaveAll(cl *Client) {
	rt.mu.Lock()
	for roomID, members := range rt.rooms {
		delete(members, cl)
		if len(members) == 0 {
			delete(rt.rooms, roomID)
		}
	}
	rt.mu.Unlock()
}

// Contains reports whether a connection is inside a room
func (rt *RoomTable) Contains(roomID string, cl *Client) bool {
	rt.mu.RLock()
	_, ok := rt.rooms[roomID][cl]
	rt.mu.RUnlock()
	return ok
}

// Broadcast emits an event to every connection inside a room
func (rt *RoomTable) Broadcast(roomID string, event string, data interface{}) {
	rt.mu.RLock()
	members := make([]*Client, 0, len(rt.rooms[roomID]))
	for cl := range rt.rooms[roomID] {
		members = append(members, cl)
	}
	rt.mu.RUnlock()

	for _, cl := range members {
		cl.Emit(event, data)
	}
}
