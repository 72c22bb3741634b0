package livestatus

import (
	"os"
	"os/user"
	"time"

	"github.com/davejbarnes/pyngctl/pkg/defaults"
)

// Config holds the monitoring-system connection settings. It is built once
// by the caller and passed in; the client reads no global state.
type Config struct {
	// Socket is the Livestatus unix socket.
	Socket string
	// CommandPipe is the external command file (named pipe).
	CommandPipe string
	// User is recorded as author of downtimes and acknowledgements.
	User string
	// TestMode logs commands instead of writing them.
	TestMode bool

	// Timeouts
	DialTimeout time.Duration
	ReadTimeout time.Duration

	// Retries
	CommandRetries  int
	ConfirmRetries  int
	ConfirmInterval time.Duration
}

// DefaultConfig returns the settings of a stock Nagios installation.
func DefaultConfig() Config {
	return Config{
		Socket:          defaults.LivestatusSocket,
		CommandPipe:     defaults.CommandPipe,
		User:            currentUser(),
		DialTimeout:     defaults.LivestatusDialTimeout,
		ReadTimeout:     defaults.LivestatusReadTimeout,
		CommandRetries:  defaults.CommandRetries,
		ConfirmRetries:  defaults.ConfirmRetries,
		ConfirmInterval: defaults.ConfirmInterval,
	}
}

func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return "pyngctl"
}
