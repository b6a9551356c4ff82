package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"work-equipment-service/pkg/constants"
)

func TestDraftKeyUsesConfiguredPrefix(t *testing.T) {
	repo := NewRedisDraftRepository(nil, 0, "custom_prefix:", zap.NewNop()).(*RedisDraftRepository)
	assert.Equal(t, "custom_prefix:W1", repo.key("W1"))

	fallback := NewRedisDraftRepository(nil, 0, "", zap.NewNop()).(*RedisDraftRepository)
	assert.Equal(t, constants.DraftKeyPrefix+"W1", fallback.key("W1"))
}
