package shared

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBaseEntity(t *testing.T) {
	e := NewBaseEntity()

	assert.NotEqual(t, uuid.Nil, e.GetID())
	assert.False(t, e.GetCreatedAt().IsZero())
	assert.Equal(t, e.GetCreatedAt(), e.GetUpdatedAt())
}

func TestBaseEntityTouch(t *testing.T) {
	e := NewBaseEntity()
	created := e.GetCreatedAt()

	// Push UpdatedAt into the past so the advance is observable.
	e.UpdatedAt = created.Add(-time.Minute)
	e.Touch()

	require.Equal(t, created, e.GetCreatedAt())
	assert.False(t, e.GetUpdatedAt().Before(created))

	var _ Entity = &e
}
