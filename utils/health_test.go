package utils

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckHealth_StoresSnapshot(t *testing.T) {
	status := CheckHealth(context.Background(), "memory", nil, nil)
	assert.True(t, status.StoreOK)
	assert.Equal(t, "memory", status.Store)
	assert.Empty(t, status.Redis)
	assert.Equal(t, status, GetHealthStatus())

	failing := func(context.Context) error { return errors.New("down") }
	status = CheckHealth(context.Background(), "mongo", failing, nil)
	assert.False(t, status.StoreOK)
	assert.False(t, GetHealthStatus().StoreOK)
}
