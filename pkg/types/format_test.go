package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderFormat(t *testing.T) {
	values := map[string]string{
		"name":  "SSD",
		"model": "WSFDS",
	}
	lookup := func(k string) (string, bool) {
		v, ok := values[k]
		return v, ok
	}

	tests := []struct {
		name   string
		format string
		want   string
	}{
		{name: "plain name", format: "{name}", want: "SSD"},
		{name: "mixed text", format: "{name} ({model})", want: "SSD (WSFDS)"},
		{name: "missing key", format: "{name} sn:{serial}", want: "SSD sn:<none>"},
		{name: "escaped braces", format: "{{{name}}}", want: "{SSD}"},
		{name: "unterminated", format: "{name} {model", want: "SSD {model"},
		{name: "no placeholders", format: "static", want: "static"},
		{name: "empty", format: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, renderFormat(tt.format, lookup))
		})
	}
}
