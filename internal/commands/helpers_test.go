package commands

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/pixil98/go-mudcore/internal/game"
	"github.com/pixil98/go-mudcore/internal/storage"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	world  *game.World
	router *Router
}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// newTestEnv builds a world with a plaza (001:001) north of which lies a
// hall (001:002), with a garden (001:003) east of the hall, and loads the
// built-in verbs.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	backend := func() storage.Backend {
		fs, err := storage.NewFileStore(t.TempDir())
		require.NoError(t, err)
		return fs
	}

	rooms := backend()
	for _, r := range []map[string]any{
		{"zoneId": 1, "roomId": 1, "name": "Plaza", "description": "A sunny plaza.",
			"exits": map[string]string{"north": "001:002"},
			"props": map[string]string{"fountain": "Water burbles."}},
		{"zoneId": 1, "roomId": 2, "name": "Hall", "description": "A long hall.",
			"exits":    map[string]string{"south": "001:001", "east": "001:003", "west": "009:009"},
			"lockable": true, "creator": "builder"},
		{"zoneId": 1, "roomId": 3, "name": "Garden", "description": "A quiet garden.",
			"exits": map[string]string{"west": "001:002"}},
	} {
		data, err := json.Marshal(r)
		require.NoError(t, err)
		key := game.Key(r["zoneId"].(int), r["roomId"].(int))
		require.NoError(t, rooms.Write(string(key), data))
	}

	log := quietLogger()
	roomStore := game.NewRoomStore(storage.NewCollection[*game.Room](rooms), log)
	items := game.NewItemStore(storage.NewCollection[*game.Item](backend()), log)
	users := game.NewRegistry(storage.NewCollection[*game.Account](backend()), roomStore, log, game.WithPasswordIterations(10))
	world := game.NewWorld(roomStore, items, users, 1, 1)

	r := NewRouter(world, log)
	defs, err := DefaultDefinitions()
	require.NoError(t, err)
	require.NoError(t, r.Load(defs))

	return &testEnv{world: world, router: r}
}

// join adds an online, active session in the given room of zone 1.
func (e *testEnv) join(t *testing.T, first string, roomId int) *game.Session {
	t.Helper()
	s := game.NewSession(first, "Tester", 1, roomId)
	s.Status = game.StatusActive
	s.Attach()
	require.NoError(t, e.world.Users.Add(s))
	return s
}

func (e *testEnv) run(s *game.Session, line string) bool {
	e.world.Lock()
	defer e.world.Unlock()
	return e.router.Dispatch(context.Background(), s, line, InvocationUser)
}

// give creates an item held by s.
func (e *testEnv) give(t *testing.T, s *game.Session, itemType, name string) *game.Item {
	t.Helper()
	it, err := e.world.Items.Create(itemType, s.Id, game.ItemPatch{Name: &name, Owner: game.SetRef(s.Id)})
	require.NoError(t, err)
	return it
}

// place creates an item lying at loc.
func (e *testEnv) place(t *testing.T, loc, itemType, name string) *game.Item {
	t.Helper()
	it, err := e.world.Items.Create(itemType, "builder", game.ItemPatch{Name: &name, Location: game.SetRef(loc)})
	require.NoError(t, err)
	return it
}

func drain(s *game.Session) []string {
	var out []string
	for {
		select {
		case m := <-s.Outbound():
			out = append(out, m.Text)
		default:
			return out
		}
	}
}

func moved(s *game.Session) bool {
	select {
	case <-s.Moved():
		return true
	default:
		return false
	}
}
