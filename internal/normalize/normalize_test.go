package normalize

import (
	"strings"
	"testing"
	"unicode"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestValue(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase trimmed", "  café  ", "CAFE"},
		{"accented a", "plátano", "PLATANO"},
		{"accented e", "café", "CAFE"},
		{"accented i", "maíz", "MAIZ"},
		{"accented o", "melocotón", "MELOCOTON"},
		{"accented u", "tofú", "TOFU"},
		{"uppercase accents", "LIMÓN", "LIMON"},
		{"plain ascii", "tomate", "TOMATE"},
		{"already normalized", "TOMATE", "TOMATE"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Value(tc.input); got != tc.want {
				t.Errorf("Value(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestProperty_ValueIsIdempotent(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("normalizing twice equals normalizing once", prop.ForAll(
		func(s string) bool {
			once := Value(s)
			return Value(once) == once
		},
		gen.RegexMatch(`[ a-zA-Záéíóú]{0,20}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_ValueOutputHasNoSurroundingSpaceOrLowercase(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("output is trimmed and upper-cased", prop.ForAll(
		func(s string) bool {
			out := Value(s)
			if out != strings.TrimSpace(out) {
				return false
			}
			for _, r := range out {
				if unicode.IsLower(r) {
					return false
				}
			}
			return true
		},
		gen.RegexMatch(`[ a-zA-Záéíóú]{0,20}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
