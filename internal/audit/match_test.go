package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thomaskoefod/cosmicgen/pkg/models"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"whitespace only", "  \n , \t ", nil},
		{"single", "Blue", []string{"blue"}},
		{"phrases and words", "Blue, Rose  Gold", []string{"blue", "rose gold", "rose", "gold"}},
		{"newlines", "trash can\nMarble", []string{"trash can", "trash", "can", "marble"}},
		{"dedup", "gold, rose gold", []string{"gold", "rose gold", "rose"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.input))
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"Couch":        "sofa",
		"rose gold":    "gold",
		"Garbage Can":  "bin",
		"garbage cans": "bin",
		"candles":      "candl",
		"dishes":       "dish",
		"bus":          "bus",
		"cold drinks":  "cold drink",
		"glass":        "glas",
		"  Ice   Cream": "ice cream",
	}
	for in, want := range tests {
		assert.Equal(t, want, Normalize(in), in)
	}
}

func TestMatchPriority(t *testing.T) {
	rules := NewRules([]string{"Blue"}, []string{"Marble"})

	assert.Equal(t, models.TokenVerdict{Token: "blue", Level: models.Strong, Term: "Blue"}, Match("blue", rules))
	assert.Equal(t, models.Mild, Match("marbles", rules).Level)
	assert.Equal(t, models.OK, Match("gold", rules).Level)
}

func TestMatchStrongWinsOverMild(t *testing.T) {
	// "navy blue" is a whole-word hit on the strong list and an exact hit on the mild list
	rules := NewRules([]string{"Blue"}, []string{"Navy blue"})

	v := Match("navy blue", rules)
	assert.Equal(t, models.Strong, v.Level)
	assert.Equal(t, "Blue", v.Term)
}

func TestMatchWordBoundaryBeforeSubstring(t *testing.T) {
	rules := NewRules([]string{"Blueberry jam", "Dark blue paint"}, nil)

	v := Match("blue", rules)
	assert.Equal(t, models.Strong, v.Level)
	assert.Equal(t, "Dark blue paint", v.Term, "whole word hit outranks the earlier substring hit")
}

func TestMatchSubstringFallbackOvermatches(t *testing.T) {
	rules := NewRules(nil, []string{"Banana"})

	v := Match("an", rules)
	assert.Equal(t, models.Mild, v.Level)
	assert.Equal(t, "Banana", v.Term)
}

func TestMatchTermInsideToken(t *testing.T) {
	rules := NewRules([]string{"Ice cream"}, nil)
	assert.Equal(t, models.Strong, Match("vanilla ice cream", rules).Level)
}

func TestMatchEmptyRules(t *testing.T) {
	rules := NewRules(nil, []string{"", "  "})
	assert.True(t, rules.Empty())
	assert.Equal(t, models.OK, Match("anything", rules).Level)
}

func TestContainsWord(t *testing.T) {
	tests := []struct {
		s, word string
		want    bool
	}{
		{"dark blue paint", "blue", true},
		{"blue", "blue", true},
		{"blueberry jam", "blue", false},
		{"crème brûlée", "cr", false},
		{"crème brûlée", "crème", true},
		{"café au lait", "caf", false},
		{"bluebell, blue", "blue", true},
		{"blue2", "blue", false},
		{"anything", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.s+"/"+tt.word, func(t *testing.T) {
			assert.Equal(t, tt.want, containsWord(tt.s, tt.word))
		})
	}
}

func TestMatchAccentedTermNotWholeWord(t *testing.T) {
	rules := NewRules([]string{"Crème brûlée", "Cr paste"}, nil)

	v := Match("cr", rules)
	assert.Equal(t, models.Strong, v.Level)
	assert.Equal(t, "Cr paste", v.Term, "accented letters are part of the word")
}
