package game

import "fmt"

// Scope is the breadth of a broadcast.
type Scope int

const (
	// ScopeRoom reaches active sessions in the actor's room.
	ScopeRoom Scope = iota
	// ScopeLocal adds active sessions one exit away.
	ScopeLocal
	// ScopeGlobal reaches every active session.
	ScopeGlobal
)

func (s Scope) String() string {
	switch s {
	case ScopeRoom:
		return "room"
	case ScopeLocal:
		return "local"
	case ScopeGlobal:
		return "global"
	default:
		return fmt.Sprintf("scope(%d)", int(s))
	}
}

// Recipients resolves the active sessions that hear something the actor
// does at the given scope. Exits are followed one hop only.
func (r *Registry) Recipients(scope Scope, actor *Session, includeSelf bool) []*Session {
	var keys map[RoomKey]bool

	switch scope {
	case ScopeGlobal:
	case ScopeRoom, ScopeLocal:
		here := actor.Location()
		keys = map[RoomKey]bool{here: true}
		if scope == ScopeLocal {
			for _, k := range r.neighbours(here) {
				keys[k] = true
			}
		}
	default:
		return nil
	}

	return r.filter(func(s *Session) bool {
		if !s.IsActive() {
			return false
		}
		if s == actor {
			return includeSelf
		}
		return keys == nil || keys[s.Location()]
	})
}

func (r *Registry) neighbours(key RoomKey) []RoomKey {
	room, err := r.rooms.Load(key)
	if err != nil {
		return nil
	}
	return room.ExitKeys()
}

// Announce sends selfMsg to the actor and othersMsg to everyone else in
// scope. Either message may be empty.
func (r *Registry) Announce(scope Scope, actor *Session, selfMsg, othersMsg string) {
	if selfMsg != "" {
		r.Send([]string{actor.Id}, selfMsg)
	}
	if othersMsg != "" {
		r.Send(Ids(r.Recipients(scope, actor, false)), othersMsg)
	}
}
