package timer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTickLoop_Generations(t *testing.T) {
	l := NewTickLoop()
	assert.False(t, l.Valid(l.Generation()))

	g1 := l.Restart()
	assert.True(t, l.Valid(g1))

	g2 := l.Restart()
	assert.False(t, l.Valid(g1))
	assert.True(t, l.Valid(g2))

	l.Stop()
	assert.False(t, l.Running())
	assert.False(t, l.Valid(g2))
	assert.False(t, l.Valid(l.Generation()))
}
