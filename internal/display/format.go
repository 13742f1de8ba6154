package display

import (
	"strings"
)

// Recipient is whoever a formatted message is rendered for.
type Recipient interface {
	DisplayName() string
	ColorEnabled() bool
}

var ansiCodes = map[string]string{
	"bold":    "\x1b[1m",
	"red":     "\x1b[31m",
	"green":   "\x1b[32m",
	"yellow":  "\x1b[33m",
	"blue":    "\x1b[34m",
	"magenta": "\x1b[35m",
	"cyan":    "\x1b[36m",
	"white":   "\x1b[37m",
	"reset":   "\x1b[0m",
}

// Formatter substitutes inline tags in outbound text:
//
//	<player>            the recipient's display name
//	<nl>                a newline
//	<red> ... <reset>   colour codes, dropped for recipients without colour
type Formatter struct{}

func NewFormatter() *Formatter {
	return &Formatter{}
}

// Format renders text for a single recipient. A nil recipient gets the
// colourless rendering with no name substitution.
func (f *Formatter) Format(text string, r Recipient) string {
	if !strings.Contains(text, "<") {
		return text
	}

	color := false
	name := ""
	if r != nil {
		color = r.ColorEnabled()
		name = r.DisplayName()
	}

	pairs := []string{"<player>", name, "<nl>", "\n"}
	for tag, code := range ansiCodes {
		if !color {
			code = ""
		}
		pairs = append(pairs, "<"+tag+">", code)
	}

	return strings.NewReplacer(pairs...).Replace(text)
}
