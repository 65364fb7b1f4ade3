// Package watchdog implements one check-and-repair pass over a set of
// services: resolve the target list, reconcile each service, aggregate
// the verdict.
package watchdog

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/loykin/svcwatch/internal/service"
)

// Recorder receives pass observations. internal/metrics implements it.
type Recorder interface {
	RecordOutcome(service, kind string)
	RecordPass(healthy bool, targets int, elapsed time.Duration)
}

// Request names the services one pass should cover.
type Request struct {
	Names    []string
	Prefixes []string
}

// Runner executes passes against a Controller.
type Runner struct {
	Controller service.Controller
	Logger     *slog.Logger
	Recorder   Recorder

	now func() time.Time
}

// NewRunner returns a Runner logging to log. A nil log uses slog.Default.
func NewRunner(ctrl service.Controller, log *slog.Logger, rec Recorder) *Runner {
	if log == nil {
		log = slog.Default()
	}
	return &Runner{Controller: ctrl, Logger: log, Recorder: rec, now: time.Now}
}

// Resolve builds the target list and logs what discovery contributed.
func (r *Runner) Resolve(req Request) (Resolution, error) {
	log := r.logger()
	res, err := Resolve(r.Controller, req.Names, req.Prefixes)

	log.Info("loaded services from config",
		slog.Int("count", len(res.Explicit)),
		slog.String("services", strings.Join(res.Explicit, ", ")))

	if len(res.Prefixes) > 0 {
		log.Info("scanning for services starting with prefixes",
			slog.String("prefixes", strings.Join(res.Prefixes, ", ")))
	}

	var de *DiscoveryError
	switch {
	case errors.As(err, &de):
		log.Error("failed to list services", slog.Any("error", de.Err))
		return res, err
	case err != nil:
		log.Error(err.Error())
		return res, err
	}

	if len(res.Prefixes) > 0 {
		if len(res.Matched) == 0 {
			log.Warn("no services matched the configured prefixes")
		} else {
			log.Info("added services from prefixes", slog.Int("added", res.Added))
		}
	}
	log.Info("monitoring services",
		slog.Int("count", len(res.Target)),
		slog.String("services", strings.Join(res.Target, ", ")))
	return res, nil
}

// Run performs one full pass. Configuration and discovery errors end the
// pass before any service is checked; per-service failures only affect the
// returned verdict.
func (r *Runner) Run(req Request) (PassResult, error) {
	begin := r.clock()
	res, err := r.Resolve(req)
	if err != nil {
		r.recordPass(false, 0, begin)
		return PassResult{}, err
	}

	outcomes := Reconcile(r.Controller, res.Target, r.logger())
	pass := Aggregate(outcomes)
	if r.Recorder != nil {
		for _, o := range outcomes {
			r.Recorder.RecordOutcome(o.Service, o.Kind.String())
		}
	}
	r.recordPass(pass.Healthy, len(res.Target), begin)

	counts := pass.Counts()
	attrs := []any{
		slog.Bool("healthy", pass.Healthy),
		slog.Int("already_running", counts[AlreadyRunning]),
		slog.Int("started", counts[Started]),
		slog.Int("start_failed", counts[StartFailed]),
		slog.Int("not_found", counts[NotFoundOrInaccessible]),
		slog.Int("unknown_state", counts[UnknownState]),
	}
	if !pass.Healthy {
		r.logger().Error("some services failed to start", attrs...)
	} else {
		r.logger().Info("pass completed", attrs...)
	}
	return pass, nil
}

func (r *Runner) recordPass(healthy bool, targets int, begin time.Time) {
	if r.Recorder == nil {
		return
	}
	r.Recorder.RecordPass(healthy, targets, r.clock().Sub(begin))
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

func (r *Runner) clock() time.Time {
	if r.now == nil {
		return time.Now()
	}
	return r.now()
}
