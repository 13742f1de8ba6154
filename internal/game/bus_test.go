package game

import (
	"errors"
	"testing"

	"github.com/pixil98/go-mudcore/internal/storage"
	"github.com/pixil98/go-testutil"
	"github.com/stretchr/testify/require"
)

// recordingBus delivers synchronously and remembers what was published.
type recordingBus struct {
	handlers  map[string]func([]byte)
	published []string
	fail      bool
}

func newRecordingBus() *recordingBus {
	return &recordingBus{handlers: make(map[string]func([]byte))}
}

func (b *recordingBus) Publish(subject string, data []byte) error {
	if b.fail {
		return errors.New("bus down")
	}
	b.published = append(b.published, subject)
	if h, ok := b.handlers[subject]; ok {
		h(data)
	}
	return nil
}

func (b *recordingBus) Subscribe(subject string, handler func([]byte)) (func(), error) {
	b.handlers[subject] = handler
	return func() { delete(b.handlers, subject) }, nil
}

func newBusRegistry(t *testing.T, bus Bus) *Registry {
	t.Helper()
	tw := newTestWorld(t)
	return NewRegistry(storage.NewCollection[*Account](tw.accountBackend), tw.Rooms, quietLogger(), WithBus(bus))
}

func TestRegistry_SendOverBus(t *testing.T) {
	bus := newRecordingBus()
	users := newBusRegistry(t, bus)

	s := NewSession("Ada", "Tester", 0, 1)
	s.Attach()
	require.NoError(t, users.Add(s))
	testutil.AssertEqual(t, "subscribed", bus.handlers[PlayerSubject(s.Id)] != nil, true)

	users.Send([]string{s.Id}, "hello <player>")
	users.Prompt(s, "> ")

	require.Equal(t, []string{PlayerSubject(s.Id), PlayerSubject(s.Id)}, bus.published)
	require.Equal(t, Output{Text: "hello Ada Tester"}, <-s.Outbound())
	require.Equal(t, Output{Text: "> ", Inline: true}, <-s.Outbound())

	users.Remove(s)
	testutil.AssertEqual(t, "unsubscribed", len(bus.handlers), 0)
}

func TestRegistry_SendBusFallback(t *testing.T) {
	bus := newRecordingBus()
	users := newBusRegistry(t, bus)

	s := NewSession("Ada", "Tester", 0, 1)
	s.Attach()
	require.NoError(t, users.Add(s))

	bus.fail = true
	users.SendRaw([]string{s.Id}, "still here")

	require.Equal(t, []string{"still here"}, drain(s))
	require.Empty(t, bus.published)
}

func TestRegistry_BusPlainPayload(t *testing.T) {
	bus := newRecordingBus()
	users := newBusRegistry(t, bus)

	s := NewSession("Ada", "Tester", 0, 1)
	s.Attach()
	require.NoError(t, users.Add(s))

	require.NoError(t, bus.Publish(PlayerSubject(s.Id), []byte("not json")))
	require.Equal(t, []string{"not json"}, drain(s))
}
