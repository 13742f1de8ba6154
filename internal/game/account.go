package game

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"fmt"

	"github.com/pixil98/go-errors"
	"golang.org/x/crypto/pbkdf2"
)

const (
	DefaultPasswordIterations = 100_000
	saltLength                = 16
	hashLength                = 64
)

// Credential is a salted, iterated password digest.
type Credential struct {
	Salt       []byte `json:"salt"`
	Hash       []byte `json:"hash"`
	Iterations int    `json:"iterations"`
}

// HashPassword derives a credential with a fresh salt.
func HashPassword(password string, iterations int) (*Credential, error) {
	if iterations <= 0 {
		iterations = DefaultPasswordIterations
	}
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generating salt: %w", err)
	}
	return &Credential{
		Salt:       salt,
		Hash:       pbkdf2.Key([]byte(password), salt, iterations, hashLength, sha512.New),
		Iterations: iterations,
	}, nil
}

// Verify recomputes the digest with the stored salt.
func (c *Credential) Verify(password string) bool {
	if c == nil || len(c.Salt) == 0 {
		return false
	}
	got := pbkdf2.Key([]byte(password), c.Salt, c.Iterations, len(c.Hash), sha512.New)
	return subtle.ConstantTimeCompare(got, c.Hash) == 1
}

// Account is the persisted projection of a Session. Connection state,
// status and the online flag are never stored.
type Account struct {
	Id               string      `json:"id"`
	FirstName        string      `json:"firstName"`
	LastName         string      `json:"lastName"`
	ZoneId           int         `json:"zoneId"`
	RoomId           int         `json:"roomId"`
	Description      string      `json:"description"`
	MorphName        string      `json:"morphName,omitempty"`
	MorphDescription string      `json:"morphDescription,omitempty"`
	Role             Role        `json:"role"`
	Color            bool        `json:"color"`
	Ascii            bool        `json:"ascii"`
	Credential       *Credential `json:"credential"`
}

// Validate satisfies storage.ValidatingSpec.
func (a *Account) Validate() error {
	el := errors.NewErrorList()

	if a.Id == "" {
		el.Add(fmt.Errorf("id is required"))
	}
	if a.FirstName == "" || a.LastName == "" {
		el.Add(fmt.Errorf("first and last name are required"))
	}
	if a.Credential == nil {
		el.Add(fmt.Errorf("credential is required"))
	}
	switch a.Role {
	case RolePlayer, RoleAdmin:
	default:
		el.Add(fmt.Errorf("invalid role %q", a.Role))
	}

	return el.Err()
}

// AccountOf projects the persisted fields of a session.
func AccountOf(s *Session) *Account {
	return &Account{
		Id:               s.Id,
		FirstName:        s.FirstName,
		LastName:         s.LastName,
		ZoneId:           s.ZoneId,
		RoomId:           s.RoomId,
		Description:      s.Description,
		MorphName:        s.MorphName,
		MorphDescription: s.MorphDescription,
		Role:             s.Role,
		Color:            s.Color,
		Ascii:            s.Ascii,
		Credential:       s.Credential,
	}
}

// bind copies a stored account onto a live session.
func (a *Account) bind(s *Session) {
	s.Id = a.Id
	s.FirstName = a.FirstName
	s.LastName = a.LastName
	s.ZoneId = a.ZoneId
	s.RoomId = a.RoomId
	s.Description = a.Description
	s.MorphName = a.MorphName
	s.MorphDescription = a.MorphDescription
	s.Role = a.Role
	s.Credential = a.Credential
	s.Temporary = false
}
