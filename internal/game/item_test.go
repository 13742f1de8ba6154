package game

import (
	"errors"
	"testing"

	"github.com/pixil98/go-mudcore/internal/storage"
	"github.com/pixil98/go-testutil"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func TestItemStore_Create(t *testing.T) {
	tests := map[string]struct {
		itemType     string
		patch        ItemPatch
		expName      string
		expContainer bool
		expOpen      bool
		expErr       error
	}{
		"type defaults": {
			itemType: "misc",
			expName:  "misc",
		},
		"container defaults": {
			itemType:     "container",
			patch:        ItemPatch{Name: strPtr("chest")},
			expName:      "chest",
			expContainer: true,
			expOpen:      true,
		},
		"caller overrides defaults": {
			itemType:     "container",
			patch:        ItemPatch{Open: new(bool)},
			expName:      "container",
			expContainer: true,
		},
		"unknown type": {
			itemType: "dragon",
			expErr:   ErrUnknownItemType,
		},
		"owner and location": {
			itemType: "coin",
			patch:    ItemPatch{Owner: SetRef("a"), Location: SetRef("000:001")},
			expErr:   ErrOwnerAndLocation,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			tw := newTestWorld(t)

			it, err := tw.Items.Create(tt.itemType, "creator", tt.patch)
			if tt.expErr != nil {
				testutil.AssertEqual(t, "error", errors.Is(err, tt.expErr), true)
				keys, _ := tw.itemBackend.Keys()
				testutil.AssertEqual(t, "records", len(keys), 0)
				return
			}
			require.NoError(t, err)

			testutil.AssertEqual(t, "name", it.Name, tt.expName)
			testutil.AssertEqual(t, "creator", it.Creator, "creator")
			testutil.AssertEqual(t, "container", it.Container, tt.expContainer)
			testutil.AssertEqual(t, "open", it.Open, tt.expOpen)

			ok, err := tw.itemBackend.Exists(it.Id)
			require.NoError(t, err)
			testutil.AssertEqual(t, "persisted", ok, true)
		})
	}
}

func TestItemStore_UpdatePlacement(t *testing.T) {
	tests := map[string]struct {
		patch       ItemPatch
		expOwner    string
		expLocation string
		expErr      error
	}{
		"move to room": {
			patch:       ItemPatch{Owner: ClearRef(), Location: SetRef("000:001")},
			expLocation: "000:001",
		},
		"change owner": {
			patch:    ItemPatch{Owner: SetRef("bob")},
			expOwner: "bob",
		},
		"both set": {
			patch:    ItemPatch{Location: SetRef("000:001")},
			expOwner: "alice",
			expErr:   ErrOwnerAndLocation,
		},
		"unknown type": {
			patch:    ItemPatch{Type: strPtr("dragon"), Owner: SetRef("bob")},
			expOwner: "alice",
			expErr:   ErrUnknownItemType,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			tw := newTestWorld(t)
			it, err := tw.Items.Create("coin", "alice", ItemPatch{Owner: SetRef("alice")})
			require.NoError(t, err)

			_, err = tw.Items.Update(it.Id, tt.patch)
			if tt.expErr != nil {
				testutil.AssertEqual(t, "error", errors.Is(err, tt.expErr), true)
			} else {
				require.NoError(t, err)
			}

			// Check both the cached copy and the backing record.
			tw.Items.Evict()
			stored, err := tw.Items.Load(it.Id)
			require.NoError(t, err)
			for _, got := range []*Item{it, stored} {
				testutil.AssertEqual(t, "owner", deref(got.Owner), tt.expOwner)
				testutil.AssertEqual(t, "location", deref(got.Location), tt.expLocation)
			}
		})
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func TestItemStore_UpdateMissing(t *testing.T) {
	tw := newTestWorld(t)

	_, err := tw.Items.Update("nope", ItemPatch{Name: strPtr("x")})
	testutil.AssertEqual(t, "not found", errors.Is(err, ErrItemNotFound), true)
}

func TestItemStore_RoundTrip(t *testing.T) {
	tw := newTestWorld(t)

	it, err := tw.Items.Create("lantern", "alice", ItemPatch{
		Name:        strPtr("brass lantern"),
		Description: strPtr("Dented but serviceable."),
		Location:    SetRef("000:002"),
	})
	require.NoError(t, err)
	it.Lit = true
	require.NoError(t, tw.Items.Save(it))
	want := *it

	fresh := NewItemStore(storage.NewCollection[*Item](tw.itemBackend), quietLogger())
	got, err := fresh.Load(it.Id)
	require.NoError(t, err)
	require.Equal(t, want, *got)
}

func TestItemStore_Delete(t *testing.T) {
	tw := newTestWorld(t)

	it, err := tw.Items.Create("book", "alice", ItemPatch{})
	require.NoError(t, err)

	require.NoError(t, tw.Items.Delete(it.Id))
	_, err = tw.Items.Load(it.Id)
	testutil.AssertEqual(t, "gone", errors.Is(err, ErrItemNotFound), true)

	err = tw.Items.Delete(it.Id)
	testutil.AssertEqual(t, "absent", errors.Is(err, ErrItemNotFound), true)
}

func TestItemStore_FindItems(t *testing.T) {
	tw := newTestWorld(t)

	for _, name := range []string{"torch", "Brass Torch", "lamp"} {
		_, err := tw.Items.Create("torch", "alice", ItemPatch{Name: strPtr(name), Owner: SetRef("alice")})
		require.NoError(t, err)
	}
	_, err := tw.Items.Create("coin", "alice", ItemPatch{Name: strPtr("coin"), Location: SetRef("000:001")})
	require.NoError(t, err)
	require.NoError(t, tw.itemBackend.Write("broken", []byte(`{"id": "broken", `)))

	// Half the items come from the cache, half from disk.
	tw.Items.Evict()
	for _, it := range tw.Items.FindItems(ItemCriteria{Type: "coin"}) {
		_, err := tw.Items.Load(it.Id)
		require.NoError(t, err)
	}

	tests := map[string]struct {
		criteria ItemCriteria
		expCount int
	}{
		"substring either way": {criteria: ItemCriteria{Name: "Torch"}, expCount: 2},
		"single word":          {criteria: ItemCriteria{Name: "brass"}, expCount: 1},
		"owner":                {criteria: OwnedBy("alice"), expCount: 3},
		"location":             {criteria: LocatedAt("000:001"), expCount: 1},
		"type exact":           {criteria: ItemCriteria{Type: "torc"}, expCount: 0},
		"combined":             {criteria: ItemCriteria{Name: "lamp", Owner: strPtr("alice")}, expCount: 1},
		"everything":           {criteria: ItemCriteria{}, expCount: 4},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := tw.Items.FindItems(tt.criteria)
			testutil.AssertEqual(t, "count", len(got), tt.expCount)
			for i := 1; i < len(got); i++ {
				testutil.AssertEqual(t, "ordered", got[i-1].Id < got[i].Id, true)
			}
		})
	}
}

func TestItemStore_FindItemsPrefersCache(t *testing.T) {
	tw := newTestWorld(t)

	it, err := tw.Items.Create("misc", "alice", ItemPatch{Name: strPtr("rock")})
	require.NoError(t, err)
	it.Name = "pebble"

	testutil.AssertEqual(t, "stale", len(tw.Items.FindItems(ItemCriteria{Name: "rock"})), 0)
	testutil.AssertEqual(t, "live", len(tw.Items.FindItems(ItemCriteria{Name: "pebble"})), 1)
}

func TestLooseMatch(t *testing.T) {
	tests := map[string]struct {
		field string
		query string
		exp   bool
	}{
		"exact":            {field: "torch", query: "torch", exp: true},
		"case":             {field: "torch", query: "Torch", exp: true},
		"field contains":   {field: "Brass Torch", query: "torch", exp: true},
		"query contains":   {field: "torch", query: "old torch", exp: true},
		"tokens any order": {field: "small brass key", query: "key brass", exp: true},
		"missing token":    {field: "small brass key", query: "iron key", exp: false},
		"unrelated":        {field: "lamp", query: "torch", exp: false},
		"empty field":      {field: "", query: "torch", exp: false},
		"blank query":      {field: "lamp", query: "  ", exp: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "match", looseMatch(tt.field, tt.query), tt.exp)
		})
	}
}

func TestItem_Label(t *testing.T) {
	tests := map[string]struct {
		item Item
		exp  string
	}{
		"plain":        {item: Item{Name: "rock"}, exp: "rock"},
		"lit":          {item: Item{Name: "torch", Lit: true}, exp: "torch (lit)"},
		"closed chest": {item: Item{Name: "chest", Container: true}, exp: "chest (closed)"},
		"open chest":   {item: Item{Name: "chest", Container: true, Open: true}, exp: "chest (open)"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "label", tt.item.Label(), tt.exp)
		})
	}
}
