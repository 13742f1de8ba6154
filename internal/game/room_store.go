package game

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/pixil98/go-mudcore/internal/storage"
	"github.com/sirupsen/logrus"
)

// RoomStore caches rooms loaded on demand from their backing records.
type RoomStore struct {
	mu      sync.RWMutex
	records *storage.Collection[*Room]
	rooms   map[RoomKey]*Room
	pinned  map[RoomKey]bool
	log     logrus.FieldLogger
}

func NewRoomStore(records *storage.Collection[*Room], log logrus.FieldLogger) *RoomStore {
	return &RoomStore{
		records: records,
		rooms:   make(map[RoomKey]*Room),
		pinned:  make(map[RoomKey]bool),
		log:     log.WithField("store", "rooms"),
	}
}

// Exists reports whether a room is cached or has a backing record. It never
// instantiates the room.
func (s *RoomStore) Exists(key RoomKey) bool {
	s.mu.RLock()
	_, cached := s.rooms[key]
	s.mu.RUnlock()
	if cached {
		return true
	}

	ok, err := s.records.Exists(string(key))
	if err != nil {
		s.log.WithError(err).WithField("room", key).Warn("checking room record")
		return false
	}
	return ok
}

// Load returns the cached room, reading it from the backing store on a miss.
// Missing and malformed records both yield ErrRoomNotFound.
func (s *RoomStore) Load(key RoomKey) (*Room, error) {
	s.mu.RLock()
	room, ok := s.rooms[key]
	s.mu.RUnlock()
	if ok {
		return room, nil
	}

	if !s.Exists(key) {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, key)
	}

	room, err := s.records.Load(string(key))
	if err != nil {
		var malformed *storage.MalformedError
		if errors.As(err, &malformed) {
			s.log.WithError(err).WithField("room", key).Warn("ignoring malformed room record")
		}
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, key)
	}
	if room.Key() != key {
		s.log.WithField("room", key).WithField("record", room.Key()).Warn("room record key mismatch")
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Another caller may have loaded it while we were reading.
	if existing, ok := s.rooms[key]; ok {
		return existing, nil
	}
	s.rooms[key] = room
	return room, nil
}

// LoadAt is Load for a zone and room number.
func (s *RoomStore) LoadAt(zoneId, roomId int) (*Room, error) {
	return s.Load(Key(zoneId, roomId))
}

// Unload evicts a room from the cache. The backing record is untouched.
func (s *RoomStore) Unload(key RoomKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rooms[key]; !ok {
		return fmt.Errorf("%w: %s", ErrRoomNotLoaded, key)
	}
	delete(s.rooms, key)
	return nil
}

// Save persists the cached room's current state.
func (s *RoomStore) Save(room *Room) error {
	if err := room.Validate(); err != nil {
		return fmt.Errorf("validating room %s: %w", room.Key(), err)
	}
	return s.records.Save(string(room.Key()), room)
}

// Pin keeps a room out of idle sweeps.
func (s *RoomStore) Pin(key RoomKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pinned[key] = true
}

func (s *RoomStore) IsPinned(key RoomKey) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pinned[key]
}

// Cached returns the keys of every cached room in sorted order.
func (s *RoomStore) Cached() []RoomKey {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]RoomKey, 0, len(s.rooms))
	for k := range s.rooms {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
