package commands

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"
	"unicode"

	"github.com/agnivade/levenshtein"
	"github.com/pixil98/go-mudcore/internal/game"
	"github.com/sirupsen/logrus"
)

// CommandFunc is the signature for compiled command functions.
type CommandFunc func(ctx context.Context, cmdCtx *CommandContext) error

// HandlerFactory creates CommandFuncs from command configurations.
type HandlerFactory interface {
	// ValidateConfig validates that the config contains required fields.
	ValidateConfig(config map[string]any) error
	// Create creates a CommandFunc. Config values reach it through
	// CommandContext.Config.
	Create() (CommandFunc, error)
}

// DispatchObserver is told about every dispatched command.
type DispatchObserver interface {
	ObserveDispatch(verb string, invocation string, ok bool, elapsed time.Duration)
}

// compiledCommand holds a command that's been validated and compiled.
type compiledCommand struct {
	cmd     *Command
	config  map[string]string
	cmdFunc CommandFunc
}

// Router resolves verbs to compiled commands and runs them. Callers hold
// the world lock across Dispatch.
type Router struct {
	world     *game.World
	factories map[string]HandlerFactory
	compiled  map[string]*compiledCommand // by canonical name
	aliases   map[string]string           // alias -> canonical name
	observer  DispatchObserver
	log       logrus.FieldLogger
}

type RouterOpt func(*Router)

func WithObserver(o DispatchObserver) RouterOpt {
	return func(r *Router) {
		r.observer = o
	}
}

// NewRouter creates a router with the built-in handler factories registered.
func NewRouter(world *game.World, log logrus.FieldLogger, opts ...RouterOpt) *Router {
	r := &Router{
		world:     world,
		factories: make(map[string]HandlerFactory),
		compiled:  make(map[string]*compiledCommand),
		aliases:   make(map[string]string),
		log:       log,
	}
	for _, opt := range opts {
		opt(r)
	}

	builtins := map[string]HandlerFactory{
		"look":      &LookHandlerFactory{},
		"move":      &MoveHandlerFactory{},
		"message":   &MessageHandlerFactory{},
		"social":    &SocialHandlerFactory{},
		"who":       &WhoHandlerFactory{},
		"help":      NewHelpHandlerFactory(r),
		"inventory": &InventoryHandlerFactory{},
		"take":      &TakeHandlerFactory{},
		"drop":      &DropHandlerFactory{},
		"put":       &PutHandlerFactory{},
		"create":    &CreateHandlerFactory{},
		"edit":      &EditHandlerFactory{},
		"destroy":   &DestroyHandlerFactory{},
		"toggle":    &ToggleHandlerFactory{},
		"lock":      &LockHandlerFactory{},
		"register":  &RegisterHandlerFactory{},
		"login":     &LoginHandlerFactory{},
		"save":      &SaveHandlerFactory{},
		"morph":     &MorphHandlerFactory{},
		"summon":    &SummonHandlerFactory{},
		"teleport":  &TeleportHandlerFactory{},
		"quit":      &QuitHandlerFactory{},
	}
	for name, f := range builtins {
		// Built-in names are unique, so this cannot fail.
		_ = r.RegisterFactory(name, f)
	}
	return r
}

// RegisterFactory registers a handler factory by name.
// The name must match the "handler" field in command JSON definitions.
func (r *Router) RegisterFactory(name string, factory HandlerFactory) error {
	if name == "" {
		return fmt.Errorf("handler name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("handler factory cannot be nil")
	}
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("handler factory %q already registered", name)
	}
	r.factories[name] = factory
	return nil
}

// Load compiles a set of definitions. Every name and alias must be unique
// across the set.
func (r *Router) Load(cmds []*Command) error {
	for _, cmd := range cmds {
		if err := r.compile(cmd); err != nil {
			return fmt.Errorf("compiling command %q: %w", cmd.Name, err)
		}
	}
	return nil
}

func (r *Router) compile(cmd *Command) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if r.Has(cmd.Name) {
		return fmt.Errorf("name already in use")
	}
	for _, a := range cmd.Aliases {
		if a == cmd.Name || r.Has(a) {
			return fmt.Errorf("alias %q already in use", a)
		}
	}

	factory, ok := r.factories[cmd.Handler]
	if !ok {
		return fmt.Errorf("unknown handler %q", cmd.Handler)
	}
	if err := factory.ValidateConfig(cmd.Config); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}
	cmdFunc, err := factory.Create()
	if err != nil {
		return fmt.Errorf("creating handler: %w", err)
	}

	config := make(map[string]string, len(cmd.Config))
	for k, v := range cmd.Config {
		config[k] = fmt.Sprint(v)
	}

	r.compiled[cmd.Name] = &compiledCommand{
		cmd:     cmd,
		config:  config,
		cmdFunc: cmdFunc,
	}
	for _, a := range cmd.Aliases {
		r.aliases[a] = cmd.Name
	}
	return nil
}

func (r *Router) lookup(verb string) (*compiledCommand, bool) {
	if c, ok := r.compiled[verb]; ok {
		return c, true
	}
	if name, ok := r.aliases[verb]; ok {
		return r.compiled[name], true
	}
	return nil, false
}

// Has reports whether verb is a command name or alias.
func (r *Router) Has(verb string) bool {
	_, ok := r.lookup(verb)
	return ok
}

// Resolve returns the definition a name or alias refers to.
func (r *Router) Resolve(verb string) (*Command, bool) {
	c, ok := r.lookup(strings.ToLower(verb))
	if !ok {
		return nil, false
	}
	return c.cmd, true
}

// Main lists each definition once, by canonical name.
func (r *Router) Main() []*Command {
	names := slices.Sorted(maps.Keys(r.compiled))
	cmds := make([]*Command, len(names))
	for i, n := range names {
		cmds[i] = r.compiled[n].cmd
	}
	return cmds
}

// Suggest returns the closest known verb to an unknown one, or "" when
// nothing is close.
func (r *Router) Suggest(verb string) string {
	verb = strings.ToLower(verb)
	if verb == "" {
		return ""
	}

	keys := slices.Concat(slices.Collect(maps.Keys(r.compiled)), slices.Collect(maps.Keys(r.aliases)))
	slices.Sort(keys)

	best, bestDist := "", 3
	for _, k := range keys {
		d := levenshtein.ComputeDistance(verb, k)
		if d < bestDist && d < len(k) {
			best, bestDist = k, d
		}
	}
	return best
}

// SplitLine separates the verb from the rest of an input line. The verb is
// lower-cased; the remainder is returned as typed.
// A leading quote is a verb of its own, so "'hello" says hello.
func SplitLine(line string) (verb, rest string) {
	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, "'") {
		return "'", strings.TrimSpace(line[1:])
	}
	i := strings.IndexFunc(line, unicode.IsSpace)
	if i < 0 {
		return strings.ToLower(line), ""
	}
	return strings.ToLower(line[:i]), strings.TrimSpace(line[i:])
}

// Dispatch runs one input line for a session. It reports false when the verb
// is unknown, the session lacks the role, or the handler fails or panics.
// Handler failures are reported to the session; they never propagate.
func (r *Router) Dispatch(ctx context.Context, sess *game.Session, line string, invocation Invocation) bool {
	return r.dispatch(ctx, sess, line, invocation)
}

func (r *Router) dispatch(ctx context.Context, sess *game.Session, line string, invocation Invocation) (ok bool) {
	verb, rest := SplitLine(line)
	compiled, found := r.lookup(verb)
	if !found {
		return false
	}

	log := r.log.WithFields(logrus.Fields{
		"session":    sess.Id,
		"verb":       compiled.cmd.Name,
		"invocation": invocation,
	})
	cmdCtx := &CommandContext{
		Session:    sess,
		Users:      r.world.Users,
		Rooms:      r.world.Rooms,
		Items:      r.world.Items,
		World:      r.world,
		Args:       rest,
		Invocation: invocation,
		Command:    compiled.cmd,
		Config:     compiled.config,
		Log:        log,
		router:     r,
		ctx:        ctx,
	}

	if r.observer != nil {
		start := time.Now()
		defer func() {
			r.observer.ObserveDispatch(compiled.cmd.Name, string(invocation), ok, time.Since(start))
		}()
	}

	if !compiled.cmd.Allows(sess) {
		cmdCtx.Reply("You are not allowed to do that.")
		return false
	}

	defer func() {
		if p := recover(); p != nil {
			log.WithField("panic", p).Error("command handler panicked")
			cmdCtx.Reply("Something went wrong.")
			ok = false
		}
	}()

	err := compiled.cmdFunc(ctx, cmdCtx)
	if err != nil {
		if ue, isUser := AsUserError(err); isUser {
			log.WithError(err).Debug("command refused")
			cmdCtx.Reply(ue.Message)
			return false
		}
		log.WithError(err).Warn("command failed")
		cmdCtx.Reply("Something went wrong.")
		return false
	}
	return true
}
