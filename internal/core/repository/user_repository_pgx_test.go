package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/screenhub/auth-service/internal/core/domain"
)

func TestNewUserRepository(t *testing.T) {
	repo := NewUserRepository(nil)

	assert.NotNil(t, repo)
	assert.Implements(t, (*domain.UserRepository)(nil), repo)
}
