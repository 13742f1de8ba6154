package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pixil98/go-mudcore/internal/game"
)

// Selector is a parsed "name", "name:<index>" or "name:all" argument.
type Selector struct {
	Name  string
	Index int // 1-based; 0 when not given
	All   bool
}

// ParseSelector splits an ordinal or "all" suffix off a name.
func ParseSelector(arg string) Selector {
	arg = strings.TrimSpace(arg)
	name, suffix, ok := strings.Cut(arg, ":")
	if !ok {
		return Selector{Name: arg}
	}

	name = strings.TrimSpace(name)
	suffix = strings.ToLower(strings.TrimSpace(suffix))
	if suffix == "all" {
		return Selector{Name: name, All: true}
	}
	if n, err := strconv.Atoi(suffix); err == nil && n > 0 {
		return Selector{Name: name, Index: n}
	}
	return Selector{Name: arg}
}

func (s Selector) String() string {
	switch {
	case s.All:
		return s.Name + ":all"
	case s.Index > 0:
		return fmt.Sprintf("%s:%d", s.Name, s.Index)
	default:
		return s.Name
	}
}

// choose narrows candidates using the selector. Several candidates with no
// index or "all" is refused with the numbered candidate list.
func choose[T any](sel Selector, candidates []T, label func(T) string, notFound string) ([]T, error) {
	if len(candidates) == 0 {
		return nil, NewUserError(notFound)
	}
	if sel.All {
		return candidates, nil
	}
	if sel.Index > 0 {
		if sel.Index > len(candidates) {
			return nil, NewUserError(fmt.Sprintf("There are only %d matching %q.", len(candidates), sel.Name))
		}
		return candidates[sel.Index-1 : sel.Index], nil
	}
	if len(candidates) == 1 {
		return candidates, nil
	}

	lines := []string{fmt.Sprintf("Which %s do you mean?", sel.Name)}
	for i, c := range candidates {
		lines = append(lines, fmt.Sprintf("  %d. %s", i+1, label(c)))
	}
	lines = append(lines, fmt.Sprintf("Repeat the command with %s:<number> or %s:all.", sel.Name, sel.Name))
	return nil, NewUserError(strings.Join(lines, "\n"))
}

// SelectItems applies a selector to items found by a store search.
func SelectItems(sel Selector, found []*game.Item, notFound string) ([]*game.Item, error) {
	return choose(sel, found, (*game.Item).Label, notFound)
}

// SelectOne is SelectItems refusing "all".
func SelectOne(sel Selector, found []*game.Item, notFound string) (*game.Item, error) {
	if sel.All {
		return nil, NewUserError("You can only do that to one thing at a time.")
	}
	items, err := SelectItems(sel, found, notFound)
	if err != nil {
		return nil, err
	}
	return items[0], nil
}

// SelectSession resolves one session by name among candidates.
func SelectSession(sel Selector, found []*game.Session, notFound string) (*game.Session, error) {
	if sel.All {
		return nil, NewUserError("You can only do that to one person at a time.")
	}
	sessions, err := choose(sel, found, (*game.Session).DisplayName, notFound)
	if err != nil {
		return nil, err
	}
	return sessions[0], nil
}

// findHeld searches the actor's inventory.
func findHeld(cmdCtx *CommandContext, name string) []*game.Item {
	c := game.OwnedBy(cmdCtx.Session.Id)
	c.Name = name
	return cmdCtx.Items.FindItems(c)
}

// findHere searches the floor of the actor's room.
func findHere(cmdCtx *CommandContext, name string) []*game.Item {
	c := game.LocatedAt(string(cmdCtx.Session.Location()))
	c.Name = name
	return cmdCtx.Items.FindItems(c)
}

// findNearby searches the inventory, then the room.
func findNearby(cmdCtx *CommandContext, name string) []*game.Item {
	return append(findHeld(cmdCtx, name), findHere(cmdCtx, name)...)
}

// findPeopleHere returns active sessions in the actor's room matching name,
// the actor included.
func findPeopleHere(cmdCtx *CommandContext, name string) []*game.Session {
	here := cmdCtx.Session.Location()
	var out []*game.Session
	for _, s := range cmdCtx.Users.ByName(name) {
		if s.IsActive() && s.Location() == here {
			out = append(out, s)
		}
	}
	return out
}

// splitOn splits args around a keyword such as "in" or "from".
func splitOn(args, keyword string) (before, after string, ok bool) {
	fields := strings.Fields(args)
	for i, f := range fields {
		if strings.EqualFold(f, keyword) && i > 0 && i < len(fields)-1 {
			return strings.Join(fields[:i], " "), strings.Join(fields[i+1:], " "), true
		}
	}
	return args, "", false
}
