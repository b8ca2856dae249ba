package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCheckoutRecordRepository(t *testing.T) {
	repo := NewCheckoutRecordRepository(nil)
	assert.NotNil(t, repo)
	assert.Nil(t, repo.pool)
}
