package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	cases := map[string]string{
		"Hello World":        "hello-world",
		"hello   world":      "hello-world",
		"Tabs\tand\nlines":   "tabs-and-lines",
		"Go 1.25: What's New": "go-1.25:-what's-new",
		"already-slugged":    "already-slugged",
		"ÜBER Straße":        "über-straße",
	}
	for in, want := range cases {
		assert.Equal(t, want, Make(in), in)
	}
}
