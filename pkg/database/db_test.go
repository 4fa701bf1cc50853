package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsEscapesWildcards(t *testing.T) {
	assert.Equal(t, "%love%", Contains("love"))
	assert.Equal(t, `%100\%\_sure\\%`, Contains(`100%_sure\`))
}

func TestInTransaction(t *testing.T) {
	assert.False(t, InTransaction(context.Background()))
}
