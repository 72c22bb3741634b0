package defaults

import "time"

// Date normalization.
const (
	// DateCommand is the external utility used to turn free-form dates into epoch seconds.
	DateCommand = "date"

	// DateCommandTimeout bounds a single date(1) invocation.
	DateCommandTimeout = 5 * time.Second
)

// Livestatus and the external command pipe.
const (
	LivestatusSocket = "/var/spool/nagios/cmd/live"
	CommandPipe      = "/var/log/nagios/rw/nagios.cmd"

	LivestatusDialTimeout = 5 * time.Second
	LivestatusReadTimeout = 30 * time.Second

	// CommandRetries is how many times a command is re-issued when its
	// confirmation never matches.
	CommandRetries = 3

	// ConfirmRetries is how many confirm polls follow each command attempt.
	ConfirmRetries = 3

	// ConfirmInterval is the minimum spacing between confirm polls.
	ConfirmInterval = 500 * time.Millisecond
)

// Dispatch.
const (
	// DispatchConcurrency caps concurrent commands issued for one invocation.
	DispatchConcurrency = 4

	// MaxRangeHosts caps the hostnames a single -x/-y range or a whole
	// host expansion may produce.
	MaxRangeHosts = 10000
)

// Server.
const (
	ServerPort            = 8080
	ServerRateLimit       = 50
	ServerRateLimitBurst  = 100
	ServerReadTimeout     = 10 * time.Second
	ServerWriteTimeout    = 30 * time.Second
	ServerIdleTimeout     = 120 * time.Second
	ServerShutdownTimeout = 30 * time.Second
	ServerMaxBodyBytes    = 64 << 10
)
