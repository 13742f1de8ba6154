package game

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pixil98/go-mudcore/internal/storage"
	"github.com/sirupsen/logrus"
)

// ItemStore caches items by id and is the only writer of item records.
// Every read-modify-write runs under the store mutex.
type ItemStore struct {
	mu      sync.Mutex
	records *storage.Collection[*Item]
	items   map[string]*Item
	log     logrus.FieldLogger
	newId   func() string
}

func NewItemStore(records *storage.Collection[*Item], log logrus.FieldLogger) *ItemStore {
	return &ItemStore{
		records: records,
		items:   make(map[string]*Item),
		log:     log.WithField("store", "items"),
		newId:   uuid.NewString,
	}
}

// Load returns the cached item, reading it from the backing store on a miss.
func (s *ItemStore) Load(id string) (*Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(id)
}

func (s *ItemStore) load(id string) (*Item, error) {
	if it, ok := s.items[id]; ok {
		return it, nil
	}

	it, err := s.read(id)
	if err != nil {
		return nil, err
	}
	s.items[id] = it
	return it, nil
}

func (s *ItemStore) read(id string) (*Item, error) {
	it, err := s.records.Load(id)
	if err != nil {
		var malformed *storage.MalformedError
		if errors.As(err, &malformed) {
			s.log.WithError(err).WithField("item", id).Warn("ignoring malformed item record")
		} else if !errors.Is(err, storage.ErrNotFound) {
			s.log.WithError(err).WithField("item", id).Warn("reading item record")
		}
		return nil, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	if it.Id != id {
		s.log.WithField("item", id).WithField("record", it.Id).Warn("item record id mismatch")
		return nil, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	return it, nil
}

// Create allocates an id, applies the patch over the defaults for itemType,
// and persists the new item before returning it.
func (s *ItemStore) Create(itemType string, creator string, patch ItemPatch) (*Item, error) {
	if !ValidItemType(itemType) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownItemType, itemType)
	}
	if patch.Type != nil && !ValidItemType(*patch.Type) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownItemType, *patch.Type)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	it := newItemOfType(itemType)
	it.Creator = creator
	patch.apply(it)

	if err := it.checkPlacement(); err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	it.Id = s.newId()
	if _, ok := s.items[it.Id]; ok {
		return nil, fmt.Errorf("%w: item %s", ErrIDCollision, it.Id)
	}
	if err := it.Validate(); err != nil {
		return nil, err
	}
	if err := s.records.Save(it.Id, it); err != nil {
		return nil, fmt.Errorf("saving item %s: %w", it.Id, err)
	}

	s.items[it.Id] = it
	return it, nil
}

// Save writes the item's current fields over its backing record.
func (s *ItemStore) Save(it *Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := it.Validate(); err != nil {
		return err
	}
	return s.records.Save(it.Id, it)
}

// Delete removes an item from the cache and the backing store.
func (s *ItemStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, cached := s.items[id]
	delete(s.items, id)

	err := s.records.Delete(id)
	if errors.Is(err, storage.ErrNotFound) {
		if cached {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	return err
}

// Update applies patch to the item with the given id. The item is left
// unchanged when the patch names an unknown type or would give it both an
// owner and a location.
func (s *ItemStore) Update(id string, patch ItemPatch) (*Item, error) {
	if patch.Type != nil && !ValidItemType(*patch.Type) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownItemType, *patch.Type)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	it, err := s.load(id)
	if err != nil {
		return nil, err
	}

	next := it.clone()
	patch.apply(next)
	if err := next.checkPlacement(); err != nil {
		return nil, fmt.Errorf("updating item %s: %w", id, err)
	}
	if err := next.Validate(); err != nil {
		return nil, err
	}
	if err := s.records.Save(id, next); err != nil {
		return nil, fmt.Errorf("saving item %s: %w", id, err)
	}

	*it = *next
	return it, nil
}

// FindItems returns every item matching criteria, ordered by id. Records not
// yet cached are read into a working set for the search only; cached items
// win over their backing records.
func (s *ItemStore) FindItems(criteria ItemCriteria) []*Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	working := make(map[string]*Item)

	keys, err := s.records.Keys()
	if err != nil {
		s.log.WithError(err).Warn("listing item records")
	}
	for _, k := range keys {
		if _, ok := s.items[k]; ok {
			continue
		}
		it, err := s.read(k)
		if err != nil {
			continue
		}
		working[k] = it
	}
	for k, it := range s.items {
		working[k] = it
	}

	var found []*Item
	for _, it := range working {
		if criteria.matches(it) {
			found = append(found, it)
		}
	}
	slices.SortFunc(found, func(a, b *Item) int {
		return strings.Compare(a.Id, b.Id)
	})
	return found
}

// Count reports the number of cached items.
func (s *ItemStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Evict drops every cached item. Backing records are untouched.
func (s *ItemStore) Evict() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.items)
}
