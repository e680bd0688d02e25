package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveCategory(t *testing.T) {
	known := []string{"Brakes", "Lighting", "Filters", "Engine", "Suspension"}

	tests := []struct {
		name      string
		requested string
		matched   bool
		canonical string
	}{
		{name: "exact match", requested: "Brakes", matched: true, canonical: "Brakes"},
		{name: "case insensitive", requested: "brakes", matched: true, canonical: "Brakes"},
		{name: "surrounding whitespace", requested: "  brakes  ", matched: true, canonical: "Brakes"},
		{name: "singular via alias", requested: "brake", matched: true, canonical: "Brakes"},
		{name: "light resolves to lighting", requested: "light", matched: true, canonical: "Lighting"},
		{name: "lights resolves to lighting", requested: "lights", matched: true, canonical: "Lighting"},
		{name: "filter resolves to filters", requested: "filter", matched: true, canonical: "Filters"},
		{name: "plural engines resolves to engine", requested: "engines", matched: true, canonical: "Engine"},
		{name: "generic plural fallback", requested: "suspensions", matched: true, canonical: "Suspension"},
		{name: "generic singular fallback", requested: "filterS", matched: true, canonical: "Filters"},
		{name: "unknown category", requested: "tires", matched: false},
		{name: "empty request", requested: "", matched: false},
		{name: "whitespace only", requested: "   ", matched: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			match := ResolveCategory(tc.requested, known)
			require.Equal(t, tc.matched, match.Matched)
			if tc.matched {
				assert.Equal(t, tc.canonical, match.Canonical)
			} else {
				assert.Empty(t, match.Canonical)
			}
		})
	}
}

func TestResolveCategoryReturnsOriginalSpelling(t *testing.T) {
	match := ResolveCategory("BRAKES", []string{"brakes"})

	require.True(t, match.Matched)
	assert.Equal(t, "brakes", match.Canonical, "каноническое имя должно сохранять исходное написание")
}

func TestResolveCategoryEmptyKnownSet(t *testing.T) {
	match := ResolveCategory("brakes", nil)

	assert.False(t, match.Matched)
}

func TestResolveCategoryPluralPrefixTakesFirstMatch(t *testing.T) {
	// Запрос во множественном числе разрешается в первую категорию с
	// подходящим префиксом в порядке набора.
	match := ResolveCategory("gaskets", []string{"Gasket Kits", "Gasket"})

	require.True(t, match.Matched)
	assert.Equal(t, "Gasket Kits", match.Canonical)
}

func TestResolveCategoryDeterministic(t *testing.T) {
	known := []string{"Brakes", "Engine"}

	first := ResolveCategory("engines", known)
	second := ResolveCategory("engines", known)

	assert.Equal(t, first, second)
}
