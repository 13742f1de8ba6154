package game

import (
	"sync"
)

// World bundles the stores shared by every connection. Command dispatch,
// session state transitions and the idle-room sweep all hold its lock, so
// a handler's load-mutate-save sequence never interleaves with another's.
type World struct {
	mu sync.Mutex

	Rooms *RoomStore
	Items *ItemStore
	Users *Registry

	StartZone int
	StartRoom int
}

func NewWorld(rooms *RoomStore, items *ItemStore, users *Registry, startZone, startRoom int) *World {
	rooms.Pin(Key(startZone, startRoom))
	return &World{
		Rooms:     rooms,
		Items:     items,
		Users:     users,
		StartZone: startZone,
		StartRoom: startRoom,
	}
}

func (w *World) Lock() {
	w.mu.Lock()
}

func (w *World) Unlock() {
	w.mu.Unlock()
}

// StartKey is the room new sessions are placed in.
func (w *World) StartKey() RoomKey {
	return Key(w.StartZone, w.StartRoom)
}
