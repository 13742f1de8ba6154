package commands

import (
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestExpandTemplate(t *testing.T) {
	tests := map[string]struct {
		tmpl   string
		data   MessageData
		exp    string
		expErr string
	}{
		"plain text": {
			tmpl: "You wave.",
			exp:  "You wave.",
		},
		"fields": {
			tmpl: "{{ .Actor }} smiles at {{ .Target }}.",
			data: MessageData{Actor: "Ada", Target: "Bob"},
			exp:  "Ada smiles at Bob.",
		},
		"sprig function": {
			tmpl: `{{ .Message | upper }}`,
			data: MessageData{Message: "fire"},
			exp:  "FIRE",
		},
		"sprig with argument": {
			tmpl: `{{ .Message | trimSuffix "." }}!`,
			data: MessageData{Message: "grins."},
			exp:  "grins!",
		},
		"parse error": {
			tmpl:   "{{ .Actor ",
			expErr: "parsing template",
		},
		"unknown field": {
			tmpl:   "{{ .Nope }}",
			expErr: "executing template",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ExpandTemplate(tt.tmpl, tt.data)
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "result", got, tt.exp)
		})
	}
}

func TestMessageHandlerFactory_ValidateConfig(t *testing.T) {
	tests := map[string]struct {
		config map[string]any
		expErr string
	}{
		"valid": {
			config: map[string]any{"scope": "local", "others": "{{ .Actor }} shouts."},
		},
		"missing others": {
			config: map[string]any{"self": "You shout."},
			expErr: "others is required",
		},
		"bad scope": {
			config: map[string]any{"scope": "zone", "others": "x"},
			expErr: `unknown scope "zone"`,
		},
		"bad template": {
			config: map[string]any{"others": "{{ .Actor "},
			expErr: "others: parsing template",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := (&MessageHandlerFactory{}).ValidateConfig(tt.config)
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
