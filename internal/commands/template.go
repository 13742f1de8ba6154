package commands

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// templateFuncs provides utility functions for templates.
var templateFuncs = sprig.TxtFuncMap()

// MessageData is what message templates see.
type MessageData struct {
	Actor   string // display name of the acting session
	Target  string // display name of the target, if any
	Message string // the verb's argument text
}

func parseTemplate(tmplStr string) (*template.Template, error) {
	tmpl, err := template.New("").Funcs(templateFuncs).Parse(tmplStr)
	if err != nil {
		return nil, fmt.Errorf("parsing template: %w", err)
	}
	return tmpl, nil
}

// ExpandTemplate expands a template string using the provided data.
// The data can be any struct - templates access fields via {{ .FieldName }}.
func ExpandTemplate(tmplStr string, data any) (string, error) {
	if !strings.Contains(tmplStr, "{{") {
		return tmplStr, nil
	}

	tmpl, err := parseTemplate(tmplStr)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, data)
	if err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}

	return buf.String(), nil
}

// validateTemplates checks that every named config value parses.
func validateTemplates(config map[string]any, names ...string) error {
	for _, n := range names {
		s, _ := config[n].(string)
		if s == "" {
			continue
		}
		if _, err := parseTemplate(s); err != nil {
			return fmt.Errorf("%s: %w", n, err)
		}
	}
	return nil
}
