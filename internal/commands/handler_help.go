package commands

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// HelpHandlerFactory creates handlers that display command help.
type HelpHandlerFactory struct {
	router *Router
}

// NewHelpHandlerFactory creates a new HelpHandlerFactory.
func NewHelpHandlerFactory(r *Router) *HelpHandlerFactory {
	return &HelpHandlerFactory{router: r}
}

func (f *HelpHandlerFactory) ValidateConfig(config map[string]any) error {
	return nil
}

func (f *HelpHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		if cmdCtx.Args != "" {
			name, _, _ := strings.Cut(cmdCtx.Args, " ")
			return f.showCommand(cmdCtx, name)
		}
		f.listCommands(cmdCtx)
		return nil
	}, nil
}

// listCommands displays the commands the actor may use, grouped by category.
func (f *HelpHandlerFactory) listCommands(cmdCtx *CommandContext) {
	groups := make(map[string][]string)
	for _, cmd := range f.router.Main() {
		if !cmd.Allows(cmdCtx.Session) {
			continue
		}
		category := cmd.Category
		if category == "" {
			category = "other"
		}
		groups[category] = append(groups[category], cmd.Name)
	}

	categories := make([]string, 0, len(groups))
	for cat := range groups {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	lines := []string{"Available commands:"}
	for _, cat := range categories {
		label := strings.ToUpper(cat[:1]) + cat[1:]
		lines = append(lines, fmt.Sprintf("  %s: %s", label, strings.Join(groups[cat], ", ")))
	}
	lines = append(lines, "Type help <command> for details.")

	cmdCtx.Reply(strings.Join(lines, "\n"))
}

// showCommand displays detailed help for a specific command.
func (f *HelpHandlerFactory) showCommand(cmdCtx *CommandContext, name string) error {
	cmd, ok := f.router.Resolve(name)
	if !ok {
		return NewUserError(fmt.Sprintf("Command %q is unknown.", name))
	}

	lines := []string{fmt.Sprintf("%s: %s", cmd.Name, cmd.Description)}
	if cmd.Usage != "" {
		lines = append(lines, fmt.Sprintf("Usage: %s", cmd.Usage))
	}
	if len(cmd.Aliases) > 0 {
		lines = append(lines, fmt.Sprintf("Aliases: %s", strings.Join(cmd.Aliases, ", ")))
	}

	cmdCtx.Reply(strings.Join(lines, "\n"))
	return nil
}
