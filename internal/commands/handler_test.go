package commands

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/pixil98/go-mudcore/internal/game"
	"github.com/pixil98/go-testutil"
	"github.com/stretchr/testify/require"
)

type stubFactory struct {
	fn CommandFunc
}

func (f *stubFactory) ValidateConfig(config map[string]any) error {
	if _, bad := config["bad"]; bad {
		return errors.New("bad config")
	}
	return nil
}

func (f *stubFactory) Create() (CommandFunc, error) {
	return f.fn, nil
}

type recordingObserver struct {
	verbs []string
	oks   []bool
}

func (o *recordingObserver) ObserveDispatch(verb string, invocation string, ok bool, elapsed time.Duration) {
	o.verbs = append(o.verbs, verb+"/"+invocation)
	o.oks = append(o.oks, ok)
}

func TestRouter_AliasFanOut(t *testing.T) {
	env := newTestEnv(t)

	tests := map[string]struct {
		verb   string
		expCmd string
		expOk  bool
	}{
		"canonical":      {verb: "look", expCmd: "look", expOk: true},
		"alias":          {verb: "x", expCmd: "look", expOk: true},
		"second alias":   {verb: "examine", expCmd: "look", expOk: true},
		"upper case":     {verb: "LOOK", expCmd: "look", expOk: true},
		"direction":      {verb: "n", expCmd: "north", expOk: true},
		"quote shortcut": {verb: "'", expCmd: "say", expOk: true},
		"unknown":        {verb: "dance"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cmd, ok := env.router.Resolve(tt.verb)
			testutil.AssertEqual(t, "ok", ok, tt.expOk)
			if ok {
				testutil.AssertEqual(t, "command", cmd.Name, tt.expCmd)
			}
		})
	}
}

func TestRouter_Main(t *testing.T) {
	env := newTestEnv(t)

	main := env.router.Main()
	seen := make(map[string]bool)
	for i, cmd := range main {
		testutil.AssertEqual(t, "duplicate "+cmd.Name, seen[cmd.Name], false)
		seen[cmd.Name] = true
		if i > 0 {
			testutil.AssertEqual(t, "sorted", main[i-1].Name < cmd.Name, true)
		}
	}
	testutil.AssertEqual(t, "look listed", seen["look"], true)
	testutil.AssertEqual(t, "alias hidden", seen["x"], false)
	testutil.AssertEqual(t, "count", len(main), 42)
}

func TestRouter_LoadRejects(t *testing.T) {
	tests := map[string]struct {
		cmds   []*Command
		expErr string
	}{
		"unknown handler": {
			cmds:   []*Command{{Name: "fly", Handler: "wings"}},
			expErr: `unknown handler "wings"`,
		},
		"bad config": {
			cmds:   []*Command{{Name: "fly", Handler: "stub", Config: map[string]any{"bad": true}}},
			expErr: "bad config",
		},
		"alias clash": {
			cmds: []*Command{
				{Name: "fly", Aliases: []string{"f"}, Handler: "stub"},
				{Name: "float", Aliases: []string{"f"}, Handler: "stub"},
			},
			expErr: `alias "f" already in use`,
		},
		"name clash": {
			cmds: []*Command{
				{Name: "fly", Handler: "stub"},
				{Name: "fly", Handler: "stub"},
			},
			expErr: "name already in use",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			env := newTestEnv(t)
			r := NewRouter(env.world, quietLogger())
			require.NoError(t, r.RegisterFactory("stub", &stubFactory{}))

			testutil.AssertErrorContains(t, r.Load(tt.cmds), tt.expErr)
		})
	}
}

func TestRouter_Dispatch(t *testing.T) {
	tests := map[string]struct {
		fn       CommandFunc
		role     game.Role
		line     string
		expOk    bool
		expReply string
	}{
		"success": {
			fn: func(ctx context.Context, c *CommandContext) error {
				c.Replyf("args=%s", c.Args)
				return nil
			},
			line:     "Ping  some   args ",
			expOk:    true,
			expReply: "args=some   args",
		},
		"reply verbatim": {
			fn: func(ctx context.Context, c *CommandContext) error {
				c.Reply(c.Args)
				return nil
			},
			line:     "ping 100% %s done",
			expOk:    true,
			expReply: "100% %s done",
		},
		"unknown verb": {
			fn:   func(ctx context.Context, c *CommandContext) error { return nil },
			line: "nothing here",
		},
		"user error": {
			fn: func(ctx context.Context, c *CommandContext) error {
				return NewUserError("Nope.")
			},
			line:     "ping",
			expReply: "Nope.",
		},
		"wrapped user error": {
			fn: func(ctx context.Context, c *CommandContext) error {
				return errors.Join(errors.New("context"), NewUserError("Still nope."))
			},
			line:     "ping",
			expReply: "Still nope.",
		},
		"system error": {
			fn: func(ctx context.Context, c *CommandContext) error {
				return errors.New("disk on fire")
			},
			line:     "ping",
			expReply: "Something went wrong.",
		},
		"panic": {
			fn: func(ctx context.Context, c *CommandContext) error {
				var m map[string]int
				m["boom"]++
				return nil
			},
			line:     "ping",
			expReply: "Something went wrong.",
		},
		"role too low": {
			fn:       func(ctx context.Context, c *CommandContext) error { return nil },
			role:     game.RoleAdmin,
			line:     "ping",
			expReply: "You are not allowed to do that.",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			env := newTestEnv(t)
			obs := &recordingObserver{}
			r := NewRouter(env.world, quietLogger(), WithObserver(obs))
			require.NoError(t, r.RegisterFactory("stub", &stubFactory{fn: tt.fn}))
			require.NoError(t, r.Load([]*Command{{Name: "ping", Handler: "stub", Role: tt.role}}))

			s := env.join(t, "Alice", 1)
			ok := r.Dispatch(context.Background(), s, tt.line, InvocationUser)

			testutil.AssertEqual(t, "ok", ok, tt.expOk)
			out := drain(s)
			if tt.expReply == "" {
				testutil.AssertEqual(t, "replies", len(out), 0)
			} else {
				require.Equal(t, []string{tt.expReply}, out)
			}
			if strings.HasPrefix(tt.line, "nothing") {
				testutil.AssertEqual(t, "observed", len(obs.verbs), 0)
			} else {
				require.Equal(t, []string{"ping/user"}, obs.verbs)
				require.Equal(t, []bool{tt.expOk}, obs.oks)
			}
		})
	}
}

func TestRouter_Emit(t *testing.T) {
	env := newTestEnv(t)

	var invocations []Invocation
	r := NewRouter(env.world, quietLogger())
	require.NoError(t, r.RegisterFactory("stub", &stubFactory{fn: func(ctx context.Context, c *CommandContext) error {
		invocations = append(invocations, c.Invocation)
		if c.Args == "again" {
			c.Emit("ping")
		}
		return nil
	}}))
	require.NoError(t, r.Load([]*Command{{Name: "ping", Handler: "stub"}}))

	s := env.join(t, "Alice", 1)
	testutil.AssertEqual(t, "ok", r.Dispatch(context.Background(), s, "ping again", InvocationUser), true)
	require.Equal(t, []Invocation{InvocationUser, InvocationEmit}, invocations)
}

func TestRouter_Suggest(t *testing.T) {
	env := newTestEnv(t)

	tests := map[string]struct {
		verb string
		exp  string
	}{
		"extra letter": {verb: "loook", exp: "look"},
		"missing":      {verb: "invetory", exp: "inventory"},
		"nonsense":     {verb: "zzzzzzzz", exp: ""},
		"empty":        {verb: "", exp: ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "suggestion", env.router.Suggest(tt.verb), tt.exp)
		})
	}
}

func TestSplitLine(t *testing.T) {
	tests := map[string]struct {
		line    string
		expVerb string
		expRest string
	}{
		"verb only":    {line: "look", expVerb: "look"},
		"lower cased":  {line: "  LOOK at Fountain ", expVerb: "look", expRest: "at Fountain"},
		"quote":        {line: "'hello there", expVerb: "'", expRest: "hello there"},
		"quote spaced": {line: "' hi", expVerb: "'", expRest: "hi"},
		"blank":        {line: "   ", expVerb: ""},
		"tab":          {line: "get\tsword", expVerb: "get", expRest: "sword"},
		"mixed spaces": {line: "say \t hi\tall", expVerb: "say", expRest: "hi\tall"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			verb, rest := SplitLine(tt.line)
			testutil.AssertEqual(t, "verb", verb, tt.expVerb)
			testutil.AssertEqual(t, "rest", rest, tt.expRest)
		})
	}
}

func TestParseDefinitions(t *testing.T) {
	tests := map[string]struct {
		raw    string
		expLen int
		expErr string
	}{
		"valid": {
			raw:    `[{"name": "wave", "handler": "social", "aliases": ["wv"]}]`,
			expLen: 1,
		},
		"bad json": {
			raw:    `[{"name": }]`,
			expErr: "parsing command definitions",
		},
		"missing handler": {
			raw:    `[{"name": "wave"}]`,
			expErr: "handler not set",
		},
		"upper case alias": {
			raw:    `[{"name": "wave", "handler": "social", "aliases": ["WV"]}]`,
			expErr: `invalid alias "WV"`,
		},
		"unknown role": {
			raw:    `[{"name": "wave", "handler": "social", "role": "god"}]`,
			expErr: `unknown role "god"`,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cmds, err := ParseDefinitions([]byte(tt.raw))
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			require.NoError(t, err)
			testutil.AssertEqual(t, "count", len(cmds), tt.expLen)
		})
	}
}
