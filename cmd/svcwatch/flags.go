package main

import "time"

// GlobalFlags holds persistent flags shared by all commands
type GlobalFlags struct {
	ConfigPath string
	LogLevel   string
	LogFile    string
}

// RunFlags holds flags for the run command
type RunFlags struct {
	MetricsTextfile string
	PushgatewayURL  string
	PushTimeout     time.Duration
}

// TargetsFlags holds flags for the targets command
type TargetsFlags struct {
	JSON bool
}
