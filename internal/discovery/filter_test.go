package discovery

import (
	"testing"

	"wct/internal/domain"
)

func TestFilter_FilterByName(t *testing.T) {
	filter := NewFilter()

	ids := []domain.FixtureID{
		"basic/exit/exitBasic.wacc",
		"basic/exit/exitBasic2.wacc",
		"runtimeErr/integerOverflow/intJustOverflow.wacc",
		"runtimeErr/integerOverflow/intWayOverflow.wacc",
		"while/whileBasic.wacc",
	}

	tests := []struct {
		name     string
		pattern  string
		expected int // Expected number of matches
	}{
		{name: "empty pattern returns all", pattern: "", expected: 5},
		{name: "wildcard pattern matches prefix", pattern: "exitBasic*", expected: 2},
		{name: "wildcard pattern matches substring", pattern: "*Overflow*", expected: 2},
		{name: "simple contains match", pattern: "Basic", expected: 3},
		{name: "no matches", pattern: "*NonExistent*", expected: 0},
		{name: "pattern with slash matches full id", pattern: "while/*", expected: 1},
		{name: "directory substring", pattern: "basic/exit", expected: 2},
		{name: "question mark", pattern: "exitBasic?.wacc", expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := filter.FilterByName(ids, tt.pattern)
			if len(result) != tt.expected {
				t.Errorf("expected %d matches, got %d: %v", tt.expected, len(result), result)
			}
		})
	}
}

func TestFilter_FilterByName_EdgeCases(t *testing.T) {
	filter := NewFilter()

	t.Run("empty fixture list", func(t *testing.T) {
		result := filter.FilterByName([]domain.FixtureID{}, "*.wacc")
		if len(result) != 0 {
			t.Errorf("expected empty result, got %d items", len(result))
		}
	})

	t.Run("pattern of only wildcards", func(t *testing.T) {
		if !filter.Match("if/if1.wacc", "*") {
			t.Error("expected * to match")
		}
		if filter.Match("if/if1.wacc", "**x") {
			t.Error("expected **x not to match")
		}
	})

	t.Run("pattern with multiple wildcards", func(t *testing.T) {
		ids := []domain.FixtureID{"pairs/printPair.wacc", "pairs/printPairOfNulls.wacc", "pairs/free.wacc"}
		result := filter.FilterByName(ids, "*print*Pair*")
		if len(result) != 2 {
			t.Errorf("expected 2 matches, got %d", len(result))
		}
	})
}
