package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixedGenerations(t *testing.T) {
	p := FixedGenerations(10)
	assert.False(t, p(RunState{Generation: 9}))
	assert.True(t, p(RunState{Generation: 10}))
	assert.True(t, p(RunState{Generation: 11}))
}

func TestSteadyFitness(t *testing.T) {
	p := SteadyFitness(5)
	assert.False(t, p(RunState{StaleGenerations: 4}))
	assert.True(t, p(RunState{StaleGenerations: 5}))
}

func TestAnyOf(t *testing.T) {
	p := AnyOf(FixedGenerations(100), SteadyFitness(3))

	assert.False(t, p(RunState{Generation: 50, StaleGenerations: 2}))
	assert.True(t, p(RunState{Generation: 50, StaleGenerations: 3}), "steady fires first")
	assert.True(t, p(RunState{Generation: 100, StaleGenerations: 0}), "cap fires alone")

	assert.False(t, AnyOf()(RunState{Generation: 1000}), "empty combinator never stops")
}
