package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("illegal opcode", From("illegal opcode"))
	assert.Equal("line 3: LDA", From("line %d: %s", 3, "LDA"))
	assert.Equal("$00FF", From("$%04X", 0xff))
}
