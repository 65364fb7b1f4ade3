package watchdog

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/loykin/svcwatch/internal/service"
	"github.com/loykin/svcwatch/internal/service/servicetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecorder struct {
	outcomes map[string]string
	passes   []bool
	targets  int
	elapsed  time.Duration
}

func (f *fakeRecorder) RecordOutcome(service, kind string) {
	if f.outcomes == nil {
		f.outcomes = make(map[string]string)
	}
	f.outcomes[service] = kind
}

func (f *fakeRecorder) RecordPass(healthy bool, targets int, elapsed time.Duration) {
	f.passes = append(f.passes, healthy)
	f.targets = targets
	f.elapsed = elapsed
}

func steppingClock(step time.Duration) func() time.Time {
	t := time.Unix(1700000000, 0)
	return func() time.Time {
		t = t.Add(step)
		return t
	}
}

func TestRunner_StoppedAndMissingIsHealthy(t *testing.T) {
	ctrl := servicetest.New().Add("Spooler", service.Stopped)
	rec := &fakeRecorder{}
	var buf bytes.Buffer
	r := NewRunner(ctrl, testLogger(&buf), rec)
	r.now = steppingClock(time.Second)

	pass, err := r.Run(Request{Names: []string{"Spooler", " BogusSvc"}})
	require.NoError(t, err)
	assert.True(t, pass.Healthy)
	assert.Equal(t, []Kind{Started, NotFoundOrInaccessible}, kinds(pass.Outcomes))

	assert.Equal(t, map[string]string{"Spooler": "started", "BogusSvc": "not_found"}, rec.outcomes)
	assert.Equal(t, []bool{true}, rec.passes)
	assert.Equal(t, 2, rec.targets)
	assert.Equal(t, time.Second, rec.elapsed)
	assert.Contains(t, buf.String(), "pass completed")
}

func TestRunner_PausedIsUnhealthy(t *testing.T) {
	ctrl := servicetest.New().Add("Spooler", service.Paused)
	var buf bytes.Buffer
	r := NewRunner(ctrl, testLogger(&buf), nil)

	pass, err := r.Run(Request{Names: []string{"Spooler"}})
	require.NoError(t, err)
	assert.False(t, pass.Healthy)
	require.Len(t, pass.Outcomes, 1)
	assert.Equal(t, UnknownState, pass.Outcomes[0].Kind)
	assert.Equal(t, service.Paused, pass.Outcomes[0].Status)
	assert.Contains(t, buf.String(), "some services failed to start")
}

func TestRunner_DiscoveryFailureSkipsReconciliation(t *testing.T) {
	ctrl := servicetest.New().Add("Spooler", service.Stopped)
	ctrl.ListErr = errors.New("rpc server unavailable")
	rec := &fakeRecorder{}
	var buf bytes.Buffer
	r := NewRunner(ctrl, testLogger(&buf), rec)

	_, err := r.Run(Request{Names: []string{"Spooler"}, Prefixes: []string{"App"}})
	require.ErrorIs(t, err, ErrDiscovery)
	assert.Equal(t, []string{"list"}, ctrl.Calls)
	assert.Equal(t, []bool{false}, rec.passes)
	assert.Contains(t, buf.String(), "failed to list services")
}

func TestRunner_EmptyRequestIsConfigError(t *testing.T) {
	ctrl := servicetest.New()
	_, err := NewRunner(ctrl, testLogger(&bytes.Buffer{}), nil).Run(Request{})
	require.ErrorIs(t, err, ErrConfig)
	assert.Empty(t, ctrl.Calls)
}

func TestRunner_ResolveLogsDiscoveryResults(t *testing.T) {
	ctrl := servicetest.New().Add("Spooler", service.Running)
	var buf bytes.Buffer
	r := NewRunner(ctrl, testLogger(&buf), nil)

	res, err := r.Resolve(Request{Names: []string{"Spooler"}, Prefixes: []string{"App"}})
	require.NoError(t, err)
	assert.Equal(t, Target{"Spooler"}, res.Target)
	assert.Contains(t, buf.String(), "no services matched the configured prefixes")

	ctrl.Add("AppHost", service.Running)
	buf.Reset()
	res, err = r.Resolve(Request{Names: []string{"Spooler"}, Prefixes: []string{"app"}})
	require.NoError(t, err)
	assert.Equal(t, Target{"Spooler", "AppHost"}, res.Target)
	assert.Contains(t, buf.String(), "added=1")
}
