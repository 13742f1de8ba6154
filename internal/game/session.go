package game

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// SessionStatus drives the per-connection state machine.
type SessionStatus string

const (
	StatusLogin        SessionStatus = "login"
	StatusColorCheck   SessionStatus = "colorCheck"
	StatusAsciiCheck   SessionStatus = "asciiCheck"
	StatusWelcomePause SessionStatus = "welcome_pause"
	StatusActive       SessionStatus = "active"
)

type Role string

const (
	RoleVisitor Role = "visitor"
	RolePlayer  Role = "player"
	RoleAdmin   Role = "admin"
)

// Rank orders roles for permission checks.
func (r Role) Rank() int {
	switch r {
	case RoleAdmin:
		return 2
	case RolePlayer:
		return 1
	default:
		return 0
	}
}

// outboundDepth bounds the per-session queue. Messages beyond it are dropped.
const outboundDepth = 256

// Output is one queued message. Inline output, such as a prompt, is written
// without a trailing newline.
type Output struct {
	Text   string `json:"text"`
	Inline bool   `json:"inline,omitempty"`
}

// Session is a connected actor. Location and identity fields are guarded by
// the world lock; the online flag and the outbound queue by the session's
// own mutex.
type Session struct {
	Id     string
	ZoneId int
	RoomId int
	Status SessionStatus

	FirstName        string
	LastName         string
	MorphName        string
	MorphDescription string
	Description      string
	Role             Role
	Credential       *Credential
	Temporary        bool

	Color bool
	Ascii bool

	// Quit is set by the quit verb; the connection closes after the reply.
	Quit bool

	mu     sync.Mutex
	online bool
	msgs   chan Output
	moved  chan struct{}
}

// NewSession allocates a temporary visitor at the given location.
func NewSession(firstName, lastName string, zoneId, roomId int) *Session {
	return &Session{
		Id:        uuid.NewString(),
		ZoneId:    zoneId,
		RoomId:    roomId,
		Status:    StatusLogin,
		FirstName: firstName,
		LastName:  lastName,
		Role:      RoleVisitor,
		Temporary: true,
		msgs:      make(chan Output, outboundDepth),
		moved:     make(chan struct{}, 1),
	}
}

// Location is the key of the room the session is in.
func (s *Session) Location() RoomKey {
	return Key(s.ZoneId, s.RoomId)
}

func (s *Session) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// DisplayName is the name others see, honoring a morph overlay.
func (s *Session) DisplayName() string {
	if s.MorphName != "" {
		return s.MorphName
	}
	return s.FullName()
}

// LookDescription is what others see when they look at the session.
func (s *Session) LookDescription() string {
	if s.MorphDescription != "" {
		return s.MorphDescription
	}
	if s.Description != "" {
		return s.Description
	}
	return "You see nothing special about them."
}

func (s *Session) ColorEnabled() bool {
	return s.Color
}

func (s *Session) IsActive() bool {
	return s.Status == StatusActive
}

// Attach marks the session as having a live connection.
func (s *Session) Attach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.online = true
}

// Detach marks the connection gone. Nothing more is queued after it.
func (s *Session) Detach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.online = false
}

func (s *Session) Online() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.online
}

// queue hands output to the connection writer. It never blocks; it reports
// false when the session is offline or its queue is full.
func (s *Session) queue(o Output) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.online {
		return false
	}
	select {
	case s.msgs <- o:
		return true
	default:
		return false
	}
}

// Outbound is drained by the connection writer.
func (s *Session) Outbound() <-chan Output {
	return s.msgs
}

// Moved fires after the session is relocated by MoveUsers.
func (s *Session) Moved() <-chan struct{} {
	return s.moved
}

func (s *Session) notifyMoved() {
	select {
	case s.moved <- struct{}{}:
	default:
	}
}
