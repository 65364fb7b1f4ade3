//go:build windows

package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const missingService = "svcwatch-test-no-such-service"

func TestSCM_StatusOfMissingServiceIsNotFound(t *testing.T) {
	_, err := New().Status(missingService)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)

	var oe *OpError
	require.True(t, errors.As(err, &oe))
	assert.Equal(t, OpStatus, oe.Op)
	assert.Equal(t, missingService, oe.Service)
}

func TestSCM_ListIncludesEventLog(t *testing.T) {
	entries, err := New().List()
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	var found bool
	for _, e := range entries {
		if e.Name == "EventLog" {
			found = true
			assert.NotEmpty(t, e.DisplayName)
			assert.True(t, e.Status.Known(), "status %s", e.Status)
		}
	}
	assert.True(t, found, "EventLog not enumerated")
}
