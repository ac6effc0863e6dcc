package importer

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestSplitLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"empty", "", nil},
		{"simple", "a,b,c", []string{"a", "b", "c"}},
		{"quoted comma", `"Doe, Jane",Civic`, []string{"Doe, Jane", "Civic"}},
		{"escaped quote", `"say ""hi""",x`, []string{`say "hi"`, "x"}},
		{"empty fields", ",,", []string{"", "", ""}},
		{"trailing empty", "a,", []string{"a", ""}},
		{"keeps spaces", " a , b ", []string{" a ", " b "}},
		{"unbalanced quote", `"open,still open`, []string{"open,still open"}},
		{"quote mid field", `ab"c,d"e`, []string{"abc,de"}},
		{"unicode", "José,Señor Café", []string{"José", "Señor Café"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitLine(tt.line))
		})
	}
}

// joinLine is the inverse used by the round-trip property.
func joinLine(fields []string) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		if strings.ContainsAny(f, `,"`) {
			f = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
		}
		parts[i] = f
	}
	return strings.Join(parts, ",")
}

func TestSplitLine_RoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	field := gen.OneGenOf(
		gen.AlphaString(),
		gen.NumString(),
		gen.Const("Doe, Jane"),
		gen.Const(`12" rims`),
		gen.Const(`""`),
		gen.Const(" padded "),
		gen.Const(""),
	)

	properties.Property("split(join(fields)) == fields", prop.ForAll(
		func(fields []string) bool {
			if len(fields) == 0 || (len(fields) == 1 && fields[0] == "") {
				return true // an empty line has no fields
			}
			got := SplitLine(joinLine(fields))
			if len(got) != len(fields) {
				return false
			}
			for i := range got {
				if got[i] != fields[i] {
					return false
				}
			}
			again := SplitLine(joinLine(got))
			return strings.Join(again, "\x00") == strings.Join(got, "\x00")
		},
		gen.SliceOf(field),
	))

	properties.TestingRun(t)
}
