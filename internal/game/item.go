package game

import (
	"fmt"
	"slices"
	"strings"

	"github.com/pixil98/go-errors"
)

// ItemTypes is the closed catalog of item types.
var ItemTypes = []string{
	"misc",
	"container",
	"key",
	"book",
	"food",
	"clothing",
	"coin",
	"torch",
	"lantern",
	"candle",
}

var lightTypes = []string{"torch", "lantern", "candle"}

// ValidItemType reports whether t is in the catalog.
func ValidItemType(t string) bool {
	return slices.Contains(ItemTypes, t)
}

// EmitsLight reports whether items of type t can be lit.
func EmitsLight(t string) bool {
	return slices.Contains(lightTypes, t)
}

// Item is a thing in the world. An item is held by an owner or lies at a
// location (a room key or a container's item id), never both.
type Item struct {
	Id          string  `json:"id"`
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Description string  `json:"description"`
	Creator     string  `json:"creator"`
	Owner       *string `json:"owner"`
	Location    *string `json:"location"`
	Container   bool    `json:"isContainer"`
	Open        bool    `json:"open"`
	Lit         bool    `json:"lit"`
}

// newItemOfType returns an item filled with the defaults for its type.
func newItemOfType(t string) *Item {
	it := &Item{
		Type:        t,
		Name:        t,
		Description: "Nothing remarkable.",
	}
	if t == "container" {
		it.Container = true
		it.Open = true
	}
	return it
}

// Validate satisfies storage.ValidatingSpec.
func (i *Item) Validate() error {
	el := errors.NewErrorList()

	if i.Id == "" {
		el.Add(fmt.Errorf("id is required"))
	}
	if i.Name == "" {
		el.Add(fmt.Errorf("name is required"))
	}
	if !ValidItemType(i.Type) {
		el.Add(fmt.Errorf("%w: %q", ErrUnknownItemType, i.Type))
	}
	el.Add(i.checkPlacement())

	return el.Err()
}

func (i *Item) checkPlacement() error {
	if i.Owner != nil && i.Location != nil {
		return ErrOwnerAndLocation
	}
	return nil
}

// IsOwnedBy reports whether the item is held by id.
func (i *Item) IsOwnedBy(id string) bool {
	return i.Owner != nil && *i.Owner == id
}

// IsAt reports whether the item lies at loc.
func (i *Item) IsAt(loc string) bool {
	return i.Location != nil && *i.Location == loc
}

// Label is the name shown in listings, with light and container state.
func (i *Item) Label() string {
	var notes []string
	if i.Lit {
		notes = append(notes, "lit")
	}
	if i.Container {
		if i.Open {
			notes = append(notes, "open")
		} else {
			notes = append(notes, "closed")
		}
	}
	if len(notes) == 0 {
		return i.Name
	}
	return fmt.Sprintf("%s (%s)", i.Name, strings.Join(notes, ", "))
}

func (i *Item) clone() *Item {
	c := *i
	if i.Owner != nil {
		o := *i.Owner
		c.Owner = &o
	}
	if i.Location != nil {
		l := *i.Location
		c.Location = &l
	}
	return &c
}

// Ref patches a nullable reference field. The zero value leaves the field
// unchanged.
type Ref struct {
	set   bool
	value *string
}

// SetRef patches the field to id.
func SetRef(id string) Ref {
	return Ref{set: true, value: &id}
}

// ClearRef patches the field to null.
func ClearRef() Ref {
	return Ref{set: true}
}

func (r Ref) apply(field **string) {
	if !r.set {
		return
	}
	if r.value == nil {
		*field = nil
		return
	}
	v := *r.value
	*field = &v
}

// ItemPatch lists the fields an update changes. Nil pointers and zero Refs
// are left alone.
type ItemPatch struct {
	Name        *string
	Description *string
	Type        *string
	Owner       Ref
	Location    Ref
	Container   *bool
	Open        *bool
	Lit         *bool
}

func (p ItemPatch) apply(it *Item) {
	if p.Name != nil {
		it.Name = *p.Name
	}
	if p.Description != nil {
		it.Description = *p.Description
	}
	if p.Type != nil {
		it.Type = *p.Type
	}
	p.Owner.apply(&it.Owner)
	p.Location.apply(&it.Location)
	if p.Container != nil {
		it.Container = *p.Container
	}
	if p.Open != nil {
		it.Open = *p.Open
	}
	if p.Lit != nil {
		it.Lit = *p.Lit
	}
}

// ItemCriteria selects items in FindItems. Empty strings and nil Refs match
// anything. Name and Description match loosely; every other field exactly.
type ItemCriteria struct {
	Name        string
	Description string
	Type        string
	Creator     string
	Owner       *string
	Location    *string
	Container   *bool
}

// OwnedBy selects items held by id.
func OwnedBy(id string) ItemCriteria {
	return ItemCriteria{Owner: &id}
}

// LocatedAt selects items lying at loc.
func LocatedAt(loc string) ItemCriteria {
	return ItemCriteria{Location: &loc}
}

func (c ItemCriteria) matches(it *Item) bool {
	if c.Name != "" && !looseMatch(it.Name, c.Name) {
		return false
	}
	if c.Description != "" && !looseMatch(it.Description, c.Description) {
		return false
	}
	if c.Type != "" && it.Type != c.Type {
		return false
	}
	if c.Creator != "" && it.Creator != c.Creator {
		return false
	}
	if c.Owner != nil && !it.IsOwnedBy(*c.Owner) {
		return false
	}
	if c.Location != nil && !it.IsAt(*c.Location) {
		return false
	}
	if c.Container != nil && it.Container != *c.Container {
		return false
	}
	return true
}

// looseMatch compares case-insensitively: either string containing the
// other matches, as does a query whose every word appears in the field.
func looseMatch(field, query string) bool {
	f := strings.ToLower(field)
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	if f == "" {
		return false
	}
	if strings.Contains(f, q) || strings.Contains(q, f) {
		return true
	}
	for _, tok := range strings.Fields(q) {
		if !strings.Contains(f, tok) {
			return false
		}
	}
	return true
}
