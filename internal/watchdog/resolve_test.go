package watchdog

import (
	"errors"
	"testing"

	"github.com/loykin/svcwatch/internal/service"
	"github.com/loykin/svcwatch/internal/service/servicetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_ExplicitThenDiscoveredWithoutDuplicates(t *testing.T) {
	ctrl := servicetest.New().
		Add("A", service.Running).
		Add("Other", service.Running).
		Add("C", service.Stopped)

	// Prefixes "A" and "C" match A and C only.
	res, err := Resolve(ctrl, []string{"A", "B"}, []string{"A", "C"})
	require.NoError(t, err)
	assert.Equal(t, Target{"A", "B", "C"}, res.Target)
	assert.Equal(t, 1, res.Added)
	assert.Len(t, res.Matched, 2)
}

func TestResolve_TrimsAndDropsEmptyNames(t *testing.T) {
	ctrl := servicetest.New()
	res, err := Resolve(ctrl, []string{" Spooler ", "", "  ", "BogusSvc", "Spooler"}, nil)
	require.NoError(t, err)
	assert.Equal(t, Target{"Spooler", "BogusSvc"}, res.Target)
	assert.Empty(t, ctrl.Calls, "no enumeration without prefixes")
}

func TestResolve_PrefixIsCaseInsensitive(t *testing.T) {
	ctrl := servicetest.New().
		Add("AppServer", service.Running).
		Add("appworker", service.Stopped).
		Add("Spooler", service.Running).
		Add("MyApp", service.Running)

	res, err := Resolve(ctrl, nil, []string{" APP "})
	require.NoError(t, err)
	assert.Equal(t, Target{"AppServer", "appworker"}, res.Target)
	assert.Equal(t, []string{"APP"}, res.Prefixes)
}

func TestResolve_EmptyIsConfigError(t *testing.T) {
	_, err := Resolve(servicetest.New(), nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfig))

	_, err = Resolve(servicetest.New(), []string{" ", ""}, []string{""})
	assert.True(t, errors.Is(err, ErrConfig))
}

func TestResolve_PrefixWithoutMatchesIsConfigErrorWhenNothingExplicit(t *testing.T) {
	ctrl := servicetest.New().Add("Spooler", service.Running)
	_, err := Resolve(ctrl, nil, []string{"App"})
	assert.True(t, errors.Is(err, ErrConfig))
}

func TestResolve_EnumerationFailureIsDiscoveryError(t *testing.T) {
	ctrl := servicetest.New()
	ctrl.ListErr = service.ErrAccessDenied

	_, err := Resolve(ctrl, []string{"Spooler"}, []string{"App"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDiscovery))
	assert.True(t, errors.Is(err, service.ErrAccessDenied))
	assert.False(t, errors.Is(err, ErrConfig))

	var de *DiscoveryError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, []string{"App"}, de.Prefixes)
}
