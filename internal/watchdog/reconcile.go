package watchdog

import (
	"log/slog"

	"github.com/loykin/svcwatch/internal/service"
)

// Reconcile checks every service in target in order and starts the ones
// found stopped. Adapter errors are recorded in the outcome and never stop
// the loop. Start is called at most once per name and only for Stopped.
func Reconcile(ctrl service.Controller, target Target, log *slog.Logger) []Outcome {
	if log == nil {
		log = slog.Default()
	}
	out := make([]Outcome, 0, len(target))
	for _, name := range target {
		out = append(out, reconcileOne(ctrl, name, log.With(slog.String("service", name))))
	}
	return out
}

func reconcileOne(ctrl service.Controller, name string, log *slog.Logger) Outcome {
	log.Info("checking service")

	st, err := ctrl.Status(name)
	if err != nil {
		log.Error("service does not exist or cannot be accessed", slog.Any("error", err))
		return Outcome{Service: name, Kind: NotFoundOrInaccessible, Err: err}
	}

	if st == service.Running {
		log.Info("service is already running")
		return Outcome{Service: name, Kind: AlreadyRunning, Status: st}
	}

	log.Warn("service is not running", slog.String("status", st.String()))
	if st != service.Stopped {
		if st.Known() {
			log.Error("service is in a transitional state, not starting it", slog.String("status", st.String()))
		} else {
			log.Error("service reported an unrecognized status code", slog.Uint64("code", uint64(st)))
		}
		return Outcome{Service: name, Kind: UnknownState, Status: st}
	}

	log.Warn("service is stopped, trying to start it")
	if err := ctrl.Start(name); err != nil {
		log.Error("failed to start service", slog.Any("error", err))
		return Outcome{Service: name, Kind: StartFailed, Status: st, Err: err}
	}
	log.Info("service started successfully")
	return Outcome{Service: name, Kind: Started, Status: st}
}
