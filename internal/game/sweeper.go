package game

import (
	"context"

	"github.com/pixil98/go-mudcore/internal/log"
)

// RoomSweeper evicts cached rooms nobody is in.
type RoomSweeper struct {
	world *World
}

func NewRoomSweeper(w *World) *RoomSweeper {
	return &RoomSweeper{world: w}
}

// Tick unloads every cached, unpinned room with no roster member present.
func (s *RoomSweeper) Tick(ctx context.Context) error {
	w := s.world
	w.Lock()
	defer w.Unlock()

	occupied := make(map[RoomKey]bool)
	for _, sess := range w.Users.All() {
		occupied[sess.Location()] = true
	}

	for _, key := range w.Rooms.Cached() {
		if occupied[key] || w.Rooms.IsPinned(key) {
			continue
		}
		if err := w.Rooms.Unload(key); err != nil {
			log.GetLogger(ctx).WithError(err).WithField("room", key).Warn("sweeping room")
			continue
		}
		log.GetLogger(ctx).WithField("room", key).Debug("unloaded idle room")
	}
	return nil
}
