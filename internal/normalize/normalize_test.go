package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"whitespace only", "   \t ", ""},
		{"lowercases", "ACME", "acme"},
		{"trims and collapses spaces", "  ABC   Logistics  ", "abc logistics"},
		{"strips ltd with period", "ABC Logistics Ltd.", "abc logistics"},
		{"strips inc", "Maersk Inc", "maersk"},
		{"strips llc", "DHL Express LLC", "dhl express"},
		{"strips corp", "Evergreen Corp.", "evergreen"},
		{"strips compound co ltd", "Hanjin Co., Ltd.", "hanjin"},
		{"strips comma before suffix", "Kuehne Nagel, Inc.", "kuehne nagel"},
		{"keeps suffix word mid-name", "Limited Brands Holding", "limited brands holding"},
		{"drops periods and commas", "A.P. Moller, Copenhagen", "a p moller copenhagen"},
		{"drops apostrophes", "O'Neill Shipping", "oneill shipping"},
		{"folds diacritics", "Müller Transporte GmbH", "muller transporte"},
		{"keeps ampersand", "Smith & Sons", "smith & sons"},
		{"suffix only when trailing", "Inc Magazine Distribution", "inc magazine distribution"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Name(tt.in))
		})
	}
}

func TestName_EquivalentForms(t *testing.T) {
	// Forms that must collapse to the same comparison key.
	groups := [][]string{
		{"ABC Logistics Ltd.", "abc logistics", " ABC  LOGISTICS LTD ", "ABC Logistics, Ltd."},
		{"Maersk Line", "MAERSK LINE", "maersk line."},
		{"Nippon Yusen K.K.", "nippon yusen"},
	}

	for _, group := range groups {
		first := Name(group[0])
		for _, s := range group[1:] {
			assert.Equal(t, first, Name(s), "Name(%q) should equal Name(%q)", s, group[0])
		}
	}
}

func TestName_Deterministic(t *testing.T) {
	in := "  Société Générale S.A. "
	assert.Equal(t, Name(in), Name(in))
}
