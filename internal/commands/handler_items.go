package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/pixil98/go-mudcore/internal/game"
)

// names joins item names for a message.
func names(items []*game.Item) string {
	n := make([]string, len(items))
	for i, it := range items {
		n[i] = it.Name
	}
	return strings.Join(n, ", ")
}

// openContainer resolves a container the actor can reach and checks it is
// open.
func openContainer(cmdCtx *CommandContext, arg string) (*game.Item, error) {
	sel := ParseSelector(arg)
	var containers []*game.Item
	for _, it := range findNearby(cmdCtx, sel.Name) {
		if it.Container {
			containers = append(containers, it)
		}
	}
	c, err := SelectOne(sel, containers, fmt.Sprintf("You don't see a container called %q.", sel.Name))
	if err != nil {
		return nil, err
	}
	if !c.Open {
		return nil, NewUserError(fmt.Sprintf("The %s is closed.", c.Name))
	}
	return c, nil
}

// TakeHandlerFactory creates handlers that pick items up from the room or
// out of a container: "take coin", "take coin:2", "take all:all from chest".
type TakeHandlerFactory struct{}

func (f *TakeHandlerFactory) ValidateConfig(config map[string]any) error {
	return nil
}

func (f *TakeHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		if cmdCtx.Args == "" {
			return NewUserError("Take what?")
		}

		what, from, fromContainer := splitOn(cmdCtx.Args, "from")
		sel := ParseSelector(what)

		var found []*game.Item
		source := "here"
		if fromContainer {
			c, err := openContainer(cmdCtx, from)
			if err != nil {
				return err
			}
			crit := game.LocatedAt(c.Id)
			crit.Name = sel.Name
			found = cmdCtx.Items.FindItems(crit)
			source = "in the " + c.Name
		} else {
			found = findHere(cmdCtx, sel.Name)
		}

		items, err := SelectItems(sel, found, fmt.Sprintf("You don't see %q %s.", sel.Name, source))
		if err != nil {
			return err
		}

		var taken []*game.Item
		for _, it := range items {
			updated, err := cmdCtx.Items.Update(it.Id, game.ItemPatch{
				Owner:    game.SetRef(cmdCtx.Session.Id),
				Location: game.ClearRef(),
			})
			if err != nil {
				return fmt.Errorf("taking %s: %w", it.Id, err)
			}
			taken = append(taken, updated)
		}

		cmdCtx.Users.Announce(game.ScopeRoom, cmdCtx.Session,
			fmt.Sprintf("You take %s.", names(taken)),
			fmt.Sprintf("%s takes %s.", cmdCtx.Actor(), names(taken)))
		return nil
	}, nil
}

// DropHandlerFactory creates handlers that put held items on the floor.
type DropHandlerFactory struct{}

func (f *DropHandlerFactory) ValidateConfig(config map[string]any) error {
	return nil
}

func (f *DropHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		if cmdCtx.Args == "" {
			return NewUserError("Drop what?")
		}

		sel := ParseSelector(cmdCtx.Args)
		items, err := SelectItems(sel, findHeld(cmdCtx, sel.Name), fmt.Sprintf("You aren't carrying %q.", sel.Name))
		if err != nil {
			return err
		}

		here := string(cmdCtx.Session.Location())
		var dropped []*game.Item
		for _, it := range items {
			updated, err := cmdCtx.Items.Update(it.Id, game.ItemPatch{
				Owner:    game.ClearRef(),
				Location: game.SetRef(here),
			})
			if err != nil {
				return fmt.Errorf("dropping %s: %w", it.Id, err)
			}
			dropped = append(dropped, updated)
		}

		cmdCtx.Users.Announce(game.ScopeRoom, cmdCtx.Session,
			fmt.Sprintf("You drop %s.", names(dropped)),
			fmt.Sprintf("%s drops %s.", cmdCtx.Actor(), names(dropped)))
		return nil
	}, nil
}

// PutHandlerFactory creates handlers that place held items in a container:
// "put coin in chest".
type PutHandlerFactory struct{}

func (f *PutHandlerFactory) ValidateConfig(config map[string]any) error {
	return nil
}

func (f *PutHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		what, into, ok := splitOn(cmdCtx.Args, "in")
		if !ok {
			return NewUserError("Put what in what?")
		}

		container, err := openContainer(cmdCtx, into)
		if err != nil {
			return err
		}

		sel := ParseSelector(what)
		var held []*game.Item
		for _, it := range findHeld(cmdCtx, sel.Name) {
			if it.Id != container.Id {
				held = append(held, it)
			}
		}
		items, err := SelectItems(sel, held, fmt.Sprintf("You aren't carrying %q.", sel.Name))
		if err != nil {
			return err
		}

		var stored []*game.Item
		for _, it := range items {
			updated, err := cmdCtx.Items.Update(it.Id, game.ItemPatch{
				Owner:    game.ClearRef(),
				Location: game.SetRef(container.Id),
			})
			if err != nil {
				return fmt.Errorf("storing %s: %w", it.Id, err)
			}
			stored = append(stored, updated)
		}

		cmdCtx.Users.Announce(game.ScopeRoom, cmdCtx.Session,
			fmt.Sprintf("You put %s in the %s.", names(stored), container.Name),
			fmt.Sprintf("%s puts %s in the %s.", cmdCtx.Actor(), names(stored), container.Name))
		return nil
	}, nil
}

// CreateHandlerFactory creates handlers that make a new item in the actor's
// hands: "create torch", "create container oak chest".
type CreateHandlerFactory struct{}

func (f *CreateHandlerFactory) ValidateConfig(config map[string]any) error {
	return nil
}

func (f *CreateHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		itemType, name, _ := strings.Cut(cmdCtx.Args, " ")
		itemType = strings.ToLower(itemType)
		if itemType == "" {
			return NewUserError(fmt.Sprintf("Create what? Types: %s.", strings.Join(game.ItemTypes, ", ")))
		}
		if !game.ValidItemType(itemType) {
			return NewUserError(fmt.Sprintf("There is no such thing as a %s. Types: %s.", itemType, strings.Join(game.ItemTypes, ", ")))
		}

		patch := game.ItemPatch{Owner: game.SetRef(cmdCtx.Session.Id)}
		if name = strings.TrimSpace(name); name != "" {
			patch.Name = &name
		}

		it, err := cmdCtx.Items.Create(itemType, cmdCtx.Session.Id, patch)
		if err != nil {
			return fmt.Errorf("creating %s: %w", itemType, err)
		}

		cmdCtx.Users.Announce(game.ScopeRoom, cmdCtx.Session,
			fmt.Sprintf("You create %s.", it.Name),
			fmt.Sprintf("%s creates %s.", cmdCtx.Actor(), it.Name))
		return nil
	}, nil
}

// EditHandlerFactory creates handlers that change a held item's fields:
// "edit coin:2 name silver coin".
type EditHandlerFactory struct{}

func (f *EditHandlerFactory) ValidateConfig(config map[string]any) error {
	return nil
}

func (f *EditHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		fields := strings.Fields(cmdCtx.Args)
		if len(fields) < 3 {
			return NewUserError("Usage: edit <item> <name|description|type> <value>")
		}
		field := strings.ToLower(fields[1])
		value := strings.Join(fields[2:], " ")

		var patch game.ItemPatch
		switch field {
		case "name":
			patch.Name = &value
		case "description", "desc":
			patch.Description = &value
		case "type":
			value = strings.ToLower(value)
			if !game.ValidItemType(value) {
				return NewUserError(fmt.Sprintf("There is no such thing as a %s.", value))
			}
			patch.Type = &value
		default:
			return NewUserError(fmt.Sprintf("You can't edit %q.", field))
		}

		sel := ParseSelector(fields[0])
		it, err := SelectOne(sel, findHeld(cmdCtx, sel.Name), fmt.Sprintf("You aren't carrying %q.", sel.Name))
		if err != nil {
			return err
		}

		if _, err := cmdCtx.Items.Update(it.Id, patch); err != nil {
			return fmt.Errorf("editing %s: %w", it.Id, err)
		}
		cmdCtx.Replyf("You change the %s of %s.", field, it.Name)
		return nil
	}, nil
}

// DestroyHandlerFactory creates handlers that delete held items.
type DestroyHandlerFactory struct{}

func (f *DestroyHandlerFactory) ValidateConfig(config map[string]any) error {
	return nil
}

func (f *DestroyHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		if cmdCtx.Args == "" {
			return NewUserError("Destroy what?")
		}

		sel := ParseSelector(cmdCtx.Args)
		items, err := SelectItems(sel, findHeld(cmdCtx, sel.Name), fmt.Sprintf("You aren't carrying %q.", sel.Name))
		if err != nil {
			return err
		}

		for _, it := range items {
			if it.Container && len(cmdCtx.Items.FindItems(game.LocatedAt(it.Id))) > 0 {
				return NewUserError(fmt.Sprintf("Empty the %s first.", it.Name))
			}
		}
		for _, it := range items {
			if err := cmdCtx.Items.Delete(it.Id); err != nil {
				return fmt.Errorf("destroying %s: %w", it.Id, err)
			}
		}

		cmdCtx.Users.Announce(game.ScopeRoom, cmdCtx.Session,
			fmt.Sprintf("You destroy %s.", names(items)),
			fmt.Sprintf("%s destroys %s.", cmdCtx.Actor(), names(items)))
		return nil
	}, nil
}

func flagWord(field string, on bool) string {
	switch {
	case field == "open" && on:
		return "open"
	case field == "open":
		return "closed"
	case on:
		return "lit"
	default:
		return "out"
	}
}

// ToggleHandlerFactory creates handlers that flip an item flag.
// Config:
//   - field (required): open or lit
//   - value (required): true or false
//   - self, others (required): templates; .Message is the item name
type ToggleHandlerFactory struct{}

func (f *ToggleHandlerFactory) ValidateConfig(config map[string]any) error {
	switch config["field"] {
	case "open", "lit":
	default:
		return fmt.Errorf("field must be open or lit")
	}
	if _, ok := config["value"].(bool); !ok {
		return fmt.Errorf("value must be a boolean")
	}
	for _, k := range []string{"self", "others"} {
		if s, _ := config[k].(string); s == "" {
			return fmt.Errorf("%s is required", k)
		}
	}
	return validateTemplates(config, "self", "others")
}

func (f *ToggleHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		field := cmdCtx.Config["field"]
		value := cmdCtx.Config["value"] == "true"
		if cmdCtx.Args == "" {
			return NewUserError(fmt.Sprintf("%s what?", strings.ToUpper(cmdCtx.Command.Name[:1])+cmdCtx.Command.Name[1:]))
		}

		sel := ParseSelector(cmdCtx.Args)
		var candidates []*game.Item
		for _, it := range findNearby(cmdCtx, sel.Name) {
			if (field == "open" && it.Container) || (field == "lit" && game.EmitsLight(it.Type)) {
				candidates = append(candidates, it)
			}
		}
		it, err := SelectOne(sel, candidates, fmt.Sprintf("You can't %s that.", cmdCtx.Command.Name))
		if err != nil {
			return err
		}

		var patch game.ItemPatch
		switch field {
		case "open":
			if it.Open == value {
				return NewUserError(fmt.Sprintf("The %s is already %s.", it.Name, flagWord(field, value)))
			}
			patch.Open = &value
		case "lit":
			if it.Lit == value {
				return NewUserError(fmt.Sprintf("The %s is already %s.", it.Name, flagWord(field, value)))
			}
			patch.Lit = &value
		}
		if _, err := cmdCtx.Items.Update(it.Id, patch); err != nil {
			return fmt.Errorf("updating %s: %w", it.Id, err)
		}

		data := MessageData{Actor: cmdCtx.Actor(), Message: it.Name}
		self, err := ExpandTemplate(cmdCtx.Config["self"], data)
		if err != nil {
			return err
		}
		others, err := ExpandTemplate(cmdCtx.Config["others"], data)
		if err != nil {
			return err
		}
		cmdCtx.Users.Announce(game.ScopeRoom, cmdCtx.Session, self, others)
		return nil
	}, nil
}
