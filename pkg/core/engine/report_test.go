package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFairnessIndex_EmptyAndSingle(t *testing.T) {
	assert.Equal(t, 0.0, fairnessIndex(nil))
	assert.Equal(t, 0.0, fairnessIndex(map[string]int{"alice": 3}))
}

func TestFairnessIndex_BalancedIsZero(t *testing.T) {
	counts := map[string]int{"alice": 2, "bob": 2, "carol": 2}
	assert.Equal(t, 0.0, fairnessIndex(counts))
}

func TestFairnessIndex_Unbalanced(t *testing.T) {
	// counts 2 and 1: mean 1.5, population variance 0.25, stddev 0.5
	counts := map[string]int{"alice": 2, "bob": 1}
	assert.InDelta(t, 0.5, fairnessIndex(counts), 1e-9)
}

func TestShortfall_Gap(t *testing.T) {
	s := Shortfall{Required: 3, Filled: 1}
	assert.Equal(t, 2, s.Gap())
}
