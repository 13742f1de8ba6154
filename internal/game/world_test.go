package game

import (
	"encoding/json"
	"io"
	"testing"

	"github.com/pixil98/go-mudcore/internal/storage"
	"github.com/sirupsen/logrus"
)

type testWorld struct {
	*World
	roomBackend    storage.Backend
	itemBackend    storage.Backend
	accountBackend storage.Backend
}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// newTestWorld builds a world of three rooms in a line running north:
// 000:001, 000:002 and 000:003.
func newTestWorld(t *testing.T) *testWorld {
	t.Helper()

	backend := func() storage.Backend {
		fs, err := storage.NewFileStore(t.TempDir())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return fs
	}

	tw := &testWorld{
		roomBackend:    backend(),
		itemBackend:    backend(),
		accountBackend: backend(),
	}

	writeRoom(t, tw.roomBackend, map[string]any{
		"zoneId": 0, "roomId": 1, "name": "Plaza",
		"description": "A wide plaza.",
		"exits":       map[string]string{"north": "000:002"},
	})
	writeRoom(t, tw.roomBackend, map[string]any{
		"zoneId": 0, "roomId": 2, "name": "Road",
		"description": "A dusty road.",
		"exits":       map[string]string{"south": "000:001", "north": "0:3"},
	})
	writeRoom(t, tw.roomBackend, map[string]any{
		"zoneId": 0, "roomId": 3, "name": "Gate",
		"description": "A closed gate.",
		"exits":       map[string]string{"south": "000:002"},
	})

	log := quietLogger()
	rooms := NewRoomStore(storage.NewCollection[*Room](tw.roomBackend), log)
	items := NewItemStore(storage.NewCollection[*Item](tw.itemBackend), log)
	users := NewRegistry(storage.NewCollection[*Account](tw.accountBackend), rooms, log, WithPasswordIterations(10))
	tw.World = NewWorld(rooms, items, users, 0, 1)
	return tw
}

func writeRoom(t *testing.T, b storage.Backend, rec map[string]any) {
	t.Helper()
	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	key := Key(rec["zoneId"].(int), rec["roomId"].(int))
	if err := b.Write(string(key), data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// join adds an online, active session at the given room.
func (tw *testWorld) join(t *testing.T, first string, roomId int) *Session {
	t.Helper()
	s := NewSession(first, "Tester", 0, roomId)
	s.Status = StatusActive
	s.Attach()
	if err := tw.Users.Add(s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return s
}

// drain returns everything queued for a session.
func drain(s *Session) []string {
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
