package game

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/pixil98/go-errors"
)

// RoomKey identifies a room as "ZZZ:RRR". It is also the record key in the
// room store.
type RoomKey string

// Key builds the canonical room key for a zone and room number.
func Key(zoneId, roomId int) RoomKey {
	return RoomKey(fmt.Sprintf("%03d:%03d", zoneId, roomId))
}

// ParseRoomKey splits a "zone:room" string into its numbers. Unpadded input
// such as "1:2" is accepted.
func ParseRoomKey(s string) (zoneId, roomId int, err error) {
	z, r, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, 0, fmt.Errorf("room key %q: expected zone:room", s)
	}
	zoneId, err = strconv.Atoi(z)
	if err != nil || zoneId < 0 {
		return 0, 0, fmt.Errorf("room key %q: invalid zone", s)
	}
	roomId, err = strconv.Atoi(r)
	if err != nil || roomId < 0 {
		return 0, 0, fmt.Errorf("room key %q: invalid room", s)
	}
	return zoneId, roomId, nil
}

// Normalize returns the canonical form of a key written as "zone:room".
func (k RoomKey) Normalize() (RoomKey, error) {
	z, r, err := ParseRoomKey(string(k))
	if err != nil {
		return "", err
	}
	return Key(z, r), nil
}

func (k RoomKey) String() string {
	return string(k)
}

// Room is a location in the world.
type Room struct {
	ZoneId      int               `json:"zoneId"`
	RoomId      int               `json:"roomId"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Lockable    bool              `json:"lockable"`
	Locked      bool              `json:"locked"`
	Whitelist   []string          `json:"whitelist"`
	Temporary   bool              `json:"temporary"`
	Creator     *string           `json:"creator"`
	Exits       map[string]string `json:"exits"` // direction -> "zone:room"
	Props       map[string]string `json:"props"` // prop name -> description
}

// roomRecord mirrors the persisted layout with pointers for the fields that
// have non-zero defaults.
type roomRecord struct {
	ZoneId      *int              `json:"zoneId"`
	RoomId      *int              `json:"roomId"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Lockable    bool              `json:"lockable"`
	Locked      bool              `json:"locked"`
	Whitelist   []string          `json:"whitelist"`
	Temporary   *bool             `json:"temporary"`
	Creator     *string           `json:"creator"`
	Exits       map[string]string `json:"exits"`
	Props       map[string]string `json:"props"`
}

func (r *Room) UnmarshalJSON(b []byte) error {
	var rec roomRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return err
	}
	if rec.ZoneId == nil || rec.RoomId == nil {
		return fmt.Errorf("zoneId and roomId are required")
	}

	*r = Room{
		ZoneId:      *rec.ZoneId,
		RoomId:      *rec.RoomId,
		Name:        rec.Name,
		Description: rec.Description,
		Lockable:    rec.Lockable,
		Locked:      rec.Locked,
		Whitelist:   rec.Whitelist,
		Temporary:   true,
		Creator:     rec.Creator,
		Exits:       rec.Exits,
		Props:       rec.Props,
	}
	if rec.Temporary != nil {
		r.Temporary = *rec.Temporary
	}
	if r.Whitelist == nil {
		r.Whitelist = []string{}
	}
	if r.Exits == nil {
		r.Exits = map[string]string{}
	}
	if r.Props == nil {
		r.Props = map[string]string{}
	}
	return nil
}

// Validate satisfies storage.ValidatingSpec.
func (r *Room) Validate() error {
	el := errors.NewErrorList()

	if r.ZoneId < 0 || r.ZoneId > 999 {
		el.Add(fmt.Errorf("zoneId %d out of range", r.ZoneId))
	}
	if r.RoomId < 0 || r.RoomId > 999 {
		el.Add(fmt.Errorf("roomId %d out of range", r.RoomId))
	}
	if r.Name == "" {
		el.Add(fmt.Errorf("room name is required"))
	}
	for dir, dest := range r.Exits {
		if _, _, err := ParseRoomKey(dest); err != nil {
			el.Add(fmt.Errorf("exit %s: %w", dir, err))
		}
	}

	return el.Err()
}

// Key returns the room's canonical key.
func (r *Room) Key() RoomKey {
	return Key(r.ZoneId, r.RoomId)
}

// Exit returns the canonical key of the room an exit leads to.
func (r *Room) Exit(direction string) (RoomKey, bool) {
	dest, ok := r.Exits[strings.ToLower(direction)]
	if !ok {
		return "", false
	}
	key, err := RoomKey(dest).Normalize()
	if err != nil {
		return "", false
	}
	return key, true
}

// ExitKeys returns the destination of every exit, in direction order.
func (r *Room) ExitKeys() []RoomKey {
	var keys []RoomKey
	for _, dir := range slices.Sorted(maps.Keys(r.Exits)) {
		if key, ok := r.Exit(dir); ok {
			keys = append(keys, key)
		}
	}
	return keys
}

// Directions returns the exit names in sorted order.
func (r *Room) Directions() []string {
	return slices.Sorted(maps.Keys(r.Exits))
}

// Prop looks up a prop by name, case-insensitively.
func (r *Room) Prop(name string) (string, bool) {
	for k, v := range r.Props {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}

// CanEnter reports whether actorId may enter. Unlocked rooms admit everyone.
func (r *Room) CanEnter(actorId string) bool {
	if !r.Locked {
		return true
	}
	if r.Creator != nil && *r.Creator == actorId {
		return true
	}
	return slices.Contains(r.Whitelist, actorId)
}
