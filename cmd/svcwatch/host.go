package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/v4/host"
)

// hostAttrs describes the machine for the startup banner. A recent boot is
// the usual reason services are found stopped.
func hostAttrs() []any {
	info, err := host.Info()
	if err != nil {
		name, _ := os.Hostname()
		return []any{slog.String("host", name)}
	}
	return []any{
		slog.String("host", info.Hostname),
		slog.String("platform", info.Platform+" "+info.PlatformVersion),
		slog.Duration("uptime", time.Duration(info.Uptime)*time.Second),
	}
}

// hostname returns the name used as the Pushgateway instance label.
func hostname() string {
	if info, err := host.Info(); err == nil && info.Hostname != "" {
		return info.Hostname
	}
	name, _ := os.Hostname()
	return name
}
