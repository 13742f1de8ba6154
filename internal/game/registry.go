package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/pixil98/go-mudcore/internal/display"
	"github.com/pixil98/go-mudcore/internal/storage"
	"github.com/sirupsen/logrus"
)

// Bus carries outbound text to sessions by subject.
type Bus interface {
	Publish(subject string, data []byte) error
	Subscribe(subject string, handler func(data []byte)) (unsubscribe func(), err error)
}

// PlayerSubject is the bus subject a session receives its output on.
func PlayerSubject(id string) string {
	return fmt.Sprintf("player-%s", id)
}

// Registry is the roster of connected sessions and the store of persisted
// accounts.
type Registry struct {
	mu     sync.RWMutex
	roster []*Session
	byId   map[string]*Session
	unsubs map[string]func()

	accounts   *storage.Collection[*Account]
	rooms      *RoomStore
	formatter  *display.Formatter
	bus        Bus
	iterations int
	log        logrus.FieldLogger
}

type RegistryOpt func(*Registry)

// WithBus routes Send through a message bus instead of queueing directly.
func WithBus(b Bus) RegistryOpt {
	return func(r *Registry) {
		r.bus = b
	}
}

// WithPasswordIterations sets the digest iteration count for new credentials.
func WithPasswordIterations(n int) RegistryOpt {
	return func(r *Registry) {
		r.iterations = n
	}
}

func NewRegistry(accounts *storage.Collection[*Account], rooms *RoomStore, log logrus.FieldLogger, opts ...RegistryOpt) *Registry {
	r := &Registry{
		byId:       make(map[string]*Session),
		unsubs:     make(map[string]func()),
		accounts:   accounts,
		rooms:      rooms,
		formatter:  display.NewFormatter(),
		iterations: DefaultPasswordIterations,
		log:        log.WithField("store", "users"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Add places a session on the roster.
func (r *Registry) Add(s *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byId[s.Id]; ok {
		return fmt.Errorf("%w: %s", ErrPlayerExists, s.Id)
	}
	if err := r.subscribe(s); err != nil {
		return err
	}
	r.roster = append(r.roster, s)
	r.byId[s.Id] = s
	return nil
}

// Remove takes a session off the roster. It reports whether it was present.
func (r *Registry) Remove(s *Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.byId[s.Id] != s {
		return false
	}
	r.unsubscribe(s.Id)
	delete(r.byId, s.Id)
	r.roster = slices.DeleteFunc(r.roster, func(o *Session) bool { return o == s })
	return true
}

func (r *Registry) subscribe(s *Session) error {
	if r.bus == nil {
		return nil
	}
	unsub, err := r.bus.Subscribe(PlayerSubject(s.Id), func(data []byte) {
		var o Output
		if err := json.Unmarshal(data, &o); err != nil {
			o = Output{Text: string(data)}
		}
		s.queue(o)
	})
	if err != nil {
		return fmt.Errorf("subscribing session %s: %w", s.Id, err)
	}
	r.unsubs[s.Id] = unsub
	return nil
}

func (r *Registry) unsubscribe(id string) {
	if unsub, ok := r.unsubs[id]; ok {
		unsub()
		delete(r.unsubs, id)
	}
}

func (r *Registry) filter(pred func(*Session) bool) []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Session
	for _, s := range r.roster {
		if pred(s) {
			out = append(out, s)
		}
	}
	return out
}

// All returns every session on the roster in connection order.
func (r *Registry) All() []*Session {
	return r.filter(func(*Session) bool { return true })
}

// Online returns sessions with a live connection.
func (r *Registry) Online() []*Session {
	return r.filter((*Session).Online)
}

// Active returns sessions that have finished negotiation.
func (r *Registry) Active() []*Session {
	return r.filter((*Session).IsActive)
}

// InRoom returns every roster member at the location, whatever its state.
func (r *Registry) InRoom(key RoomKey) []*Session {
	return r.filter(func(s *Session) bool { return s.Location() == key })
}

// Get returns the first online session matching pred.
func (r *Registry) Get(pred func(*Session) bool) *Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.roster {
		if s.Online() && pred(s) {
			return s
		}
	}
	return nil
}

// ByID returns the online session with the given id.
func (r *Registry) ByID(id string) *Session {
	r.mu.RLock()
	s, ok := r.byId[id]
	r.mu.RUnlock()
	if !ok || !s.Online() {
		return nil
	}
	return s
}

// ByName returns online sessions whose display or full name starts with name,
// ignoring case.
func (r *Registry) ByName(name string) []*Session {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil
	}
	return r.filter(func(s *Session) bool {
		if !s.Online() {
			return false
		}
		return strings.HasPrefix(strings.ToLower(s.DisplayName()), name) ||
			strings.HasPrefix(strings.ToLower(s.FullName()), name) ||
			strings.EqualFold(s.FirstName, name)
	})
}

// Send formats text for each online recipient and delivers it. Ids with no
// online session are skipped.
func (r *Registry) Send(ids []string, text string) {
	r.send(ids, text, true)
}

// SendRaw delivers text without tag substitution.
func (r *Registry) SendRaw(ids []string, text string) {
	r.send(ids, text, false)
}

func (r *Registry) send(ids []string, text string, formatted bool) {
	for _, id := range ids {
		s := r.ByID(id)
		if s == nil {
			r.log.WithField("session", id).Debug("skipping send to offline session")
			continue
		}

		out := text
		if formatted {
			out = r.formatter.Format(text, s)
		}
		r.deliver(s, Output{Text: out})
	}
}

// Prompt sends inline text to one session on the same path as Send, so it
// stays ordered behind earlier output.
func (r *Registry) Prompt(s *Session, text string) {
	r.deliver(s, Output{Text: text, Inline: true})
}

func (r *Registry) deliver(s *Session, o Output) {
	if r.bus != nil {
		data, err := json.Marshal(o)
		if err == nil {
			err = r.bus.Publish(PlayerSubject(s.Id), data)
		}
		if err == nil {
			return
		}
		r.log.WithError(err).WithField("session", s.Id).Warn("bus publish failed, delivering directly")
	}
	if !s.queue(o) {
		r.log.WithField("session", s.Id).Warn("dropping message for session")
	}
}

// Broadcast sends text to every active session.
func (r *Registry) Broadcast(text string) {
	r.Send(Ids(r.Active()), text)
}

// MoveUsers relocates the named online sessions and signals each one. A
// missing destination moves nobody; unknown ids are skipped.
func (r *Registry) MoveUsers(ids []string, zoneId, roomId int) error {
	if _, err := r.rooms.LoadAt(zoneId, roomId); err != nil {
		return err
	}

	for _, id := range ids {
		s := r.ByID(id)
		if s == nil {
			r.log.WithField("session", id).Debug("skipping move of unknown session")
			continue
		}
		s.ZoneId = zoneId
		s.RoomId = roomId
		s.notifyMoved()
	}
	return nil
}

// CreateAccount promotes a temporary session to a persisted player. Nothing
// is written when the name pair is already taken.
func (r *Registry) CreateAccount(s *Session, firstName, lastName, password string) error {
	if !s.Temporary {
		return ErrAlreadyRegistered
	}

	exists, err := r.accounts.Exists(s.Id)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrIDCollision, s.Id)
	}

	taken, err := r.findAccount(firstName, lastName)
	if err != nil {
		return err
	}
	if taken != nil {
		return fmt.Errorf("%w: %s %s", ErrDuplicateName, firstName, lastName)
	}

	cred, err := HashPassword(password, r.iterations)
	if err != nil {
		return err
	}

	acct := AccountOf(s)
	acct.FirstName = firstName
	acct.LastName = lastName
	acct.Role = RolePlayer
	acct.Credential = cred
	if err := r.accounts.Save(acct.Id, acct); err != nil {
		return fmt.Errorf("saving account %s: %w", acct.Id, err)
	}

	acct.bind(s)
	return nil
}

// Login rebinds a session to a stored account, adopting its id.
func (r *Registry) Login(s *Session, firstName, lastName, password string) error {
	acct, err := r.findAccount(firstName, lastName)
	if err != nil {
		return err
	}
	if acct == nil || !acct.Credential.Verify(password) {
		return ErrBadCredentials
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if other, ok := r.byId[acct.Id]; ok && other != s {
		return ErrAlreadyOnline
	}
	if r.byId[s.Id] != s {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, s.Id)
	}

	r.unsubscribe(s.Id)
	delete(r.byId, s.Id)
	acct.bind(s)
	r.byId[s.Id] = s
	if err := r.subscribe(s); err != nil {
		r.log.WithError(err).WithField("session", s.Id).Warn("resubscribing after login")
	}
	return nil
}

// Save persists a non-temporary session. It refuses to overwrite a record
// stored under the same id with a different name.
func (r *Registry) Save(s *Session) error {
	if s.Temporary {
		return nil
	}

	stored, err := r.accounts.Load(s.Id)
	switch {
	case err == nil:
		if stored.FirstName != s.FirstName || stored.LastName != s.LastName {
			return fmt.Errorf("%w: %s", ErrNameMismatch, s.Id)
		}
	case errors.Is(err, storage.ErrNotFound):
	default:
		return fmt.Errorf("loading account %s: %w", s.Id, err)
	}

	return r.accounts.Save(s.Id, AccountOf(s))
}

// findAccount looks up a stored account by name, ignoring case. Malformed
// records are skipped.
func (r *Registry) findAccount(firstName, lastName string) (*Account, error) {
	keys, err := r.accounts.Keys()
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	for _, k := range keys {
		acct, err := r.accounts.Load(k)
		if err != nil {
			r.log.WithError(err).WithField("account", k).Warn("skipping unreadable account")
			continue
		}
		if strings.EqualFold(acct.FirstName, firstName) && strings.EqualFold(acct.LastName, lastName) {
			return acct, nil
		}
	}
	return nil, nil
}

// Ids collects the ids of sessions.
func Ids(sessions []*Session) []string {
	ids := make([]string, len(sessions))
	for i, s := range sessions {
		ids[i] = s.Id
	}
	return ids
}
