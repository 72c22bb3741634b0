package dispatch

import (
	"slices"

	"github.com/davejbarnes/pyngctl/pkg/validator"
)

// Mode selects what is done to the targets.
type Mode string

const (
	ModeDowntime             Mode = "down"
	ModeAcknowledge          Mode = "ack"
	ModeDisableNotifications Mode = "dn"
	ModeEnableNotifications  Mode = "en"
	ModeDisableChecks        Mode = "dc"
	ModeEnableChecks         Mode = "ec"
)

// Modes lists every mode switch.
var Modes = []Mode{
	ModeDowntime,
	ModeAcknowledge,
	ModeDisableNotifications,
	ModeEnableNotifications,
	ModeDisableChecks,
	ModeEnableChecks,
}

// FindMode returns the first mode switch in accepted order, or ModeDowntime
// when none was given.
func FindMode(a *validator.Accepted) Mode {
	for _, s := range a.Switches() {
		if slices.Contains(Modes, Mode(s)) {
			return Mode(s)
		}
	}
	return ModeDowntime
}
