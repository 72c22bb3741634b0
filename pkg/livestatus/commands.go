/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package livestatus

import (
	"fmt"
	"regexp"
	"strings"
)

// Command is an external command with the query that confirms it took effect.
type Command struct {
	// Name is the external command name, e.g. SCHEDULE_HOST_DOWNTIME.
	Name string `json:"name" yaml:"name"`
	// Target identifies what the command acts on: "host" or "host;service".
	Target string `json:"target" yaml:"target"`
	// Line is the command without the "COMMAND [ts]" prefix.
	Line string `json:"line" yaml:"line"`
	// Confirm is polled after the command is written. Empty means the
	// command cannot be confirmed.
	Confirm []string `json:"confirm,omitempty" yaml:"confirm,omitempty"`
	// Expect must match the start of the confirm reply.
	Expect string `json:"expect,omitempty" yaml:"expect,omitempty"`
}

const (
	ScheduleHostDowntime     = "SCHEDULE_HOST_DOWNTIME"
	ScheduleSvcDowntime      = "SCHEDULE_SVC_DOWNTIME"
	AcknowledgeHostProblem   = "ACKNOWLEDGE_HOST_PROBLEM"
	AcknowledgeSvcProblem    = "ACKNOWLEDGE_SVC_PROBLEM"
	EnableHostCheck          = "ENABLE_HOST_CHECK"
	DisableHostCheck         = "DISABLE_HOST_CHECK"
	EnableSvcCheck           = "ENABLE_SVC_CHECK"
	DisableSvcCheck          = "DISABLE_SVC_CHECK"
	EnableHostNotifications  = "ENABLE_HOST_NOTIFICATIONS"
	DisableHostNotifications = "DISABLE_HOST_NOTIFICATIONS"
	EnableSvcNotifications   = "ENABLE_SVC_NOTIFICATIONS"
	DisableSvcNotifications  = "DISABLE_SVC_NOTIFICATIONS"
)

const (
	expectID = `\d+`

	downtimeFixed   = 1
	downtimeTrigger = 0

	// Nagios treats 2 as sticky and 1 as a normal acknowledgement.
	ackSticky = 2
	ackNormal = 1
)

// field strips characters that would end or split a command line.
func field(s string) string {
	return strings.NewReplacer("\n", " ", "\r", " ").Replace(s)
}

func flag(b bool) int {
	if b {
		return 1
	}
	return 0
}

func stickiness(sticky bool) int {
	if sticky {
		return ackSticky
	}
	return ackNormal
}

func target(host, service string) string {
	if service == "" {
		return host
	}
	return host + ";" + service
}

// HostDowntime schedules fixed downtime for a host.
func HostDowntime(host string, start, end int64, user, comment string) Command {
	host = field(host)
	return Command{
		Name:   ScheduleHostDowntime,
		Target: host,
		Line: fmt.Sprintf("%s;%s;%d;%d;%d;%d;0;%s;%s",
			ScheduleHostDowntime, host, start, end, downtimeFixed, downtimeTrigger, field(user), field(comment)),
		Confirm: []string{
			"GET downtimes",
			"Filter: author = " + field(user),
			"Filter: host_name = " + host,
			"Filter: service_description = ",
			fmt.Sprintf("Filter: end_time = %d", end),
			fmt.Sprintf("Filter: start_time = %d", start),
			"Columns: id",
		},
		Expect: expectID,
	}
}

// ServiceDowntime schedules fixed downtime for a service on a host.
func ServiceDowntime(host, service string, start, end int64, user, comment string) Command {
	host, service = field(host), field(service)
	return Command{
		Name:   ScheduleSvcDowntime,
		Target: target(host, service),
		Line: fmt.Sprintf("%s;%s;%s;%d;%d;%d;%d;0;%s;%s",
			ScheduleSvcDowntime, host, service, start, end, downtimeFixed, downtimeTrigger, field(user), field(comment)),
		Confirm: []string{
			"GET downtimes",
			"Filter: author = " + field(user),
			"Filter: host_name = " + host,
			"Filter: service_description = " + service,
			fmt.Sprintf("Filter: end_time = %d", end),
			fmt.Sprintf("Filter: start_time = %d", start),
			"Columns: id",
		},
		Expect: expectID,
	}
}

// HostAcknowledgement acknowledges a host problem.
func HostAcknowledgement(host string, sticky, notify bool, user, comment string) Command {
	host = field(host)
	return Command{
		Name:   AcknowledgeHostProblem,
		Target: host,
		Line: fmt.Sprintf("%s;%s;%d;%d;1;%s;%s",
			AcknowledgeHostProblem, host, stickiness(sticky), flag(notify), field(user), field(comment)),
		Confirm: []string{
			"GET hosts",
			"Filter: name = " + host,
			"Filter: acknowledged = 1",
			"Columns: name",
		},
		Expect: regexp.QuoteMeta(host),
	}
}

// ServiceAcknowledgement acknowledges a service problem.
func ServiceAcknowledgement(host, service string, sticky, notify bool, user, comment string) Command {
	host, service = field(host), field(service)
	return Command{
		Name:   AcknowledgeSvcProblem,
		Target: target(host, service),
		Line: fmt.Sprintf("%s;%s;%s;%d;%d;1;%s;%s",
			AcknowledgeSvcProblem, host, service, stickiness(sticky), flag(notify), field(user), field(comment)),
		Confirm: []string{
			"GET services",
			"Filter: host_name = " + host,
			"Filter: description = " + service,
			"Filter: acknowledged = 1",
			"Columns: host_name",
		},
		Expect: regexp.QuoteMeta(host),
	}
}

// Toggle is an enable/disable command family.
type Toggle struct {
	HostCommand    string
	ServiceCommand string
	Column         string
	Enable         bool
}

// Toggles for checks and notifications.
var (
	EnableChecks         = Toggle{EnableHostCheck, EnableSvcCheck, "checks_enabled", true}
	DisableChecks        = Toggle{DisableHostCheck, DisableSvcCheck, "checks_enabled", false}
	EnableNotifications  = Toggle{EnableHostNotifications, EnableSvcNotifications, "notifications_enabled", true}
	DisableNotifications = Toggle{DisableHostNotifications, DisableSvcNotifications, "notifications_enabled", false}
)

// Host builds the host variant of the toggle.
func (t Toggle) Host(host string) Command {
	host = field(host)
	return Command{
		Name:   t.HostCommand,
		Target: host,
		Line:   t.HostCommand + ";" + host,
		Confirm: []string{
			"GET hosts",
			"Filter: name = " + host,
			fmt.Sprintf("Filter: %s = %d", t.Column, flag(t.Enable)),
			"Columns: name",
		},
		Expect: regexp.QuoteMeta(host),
	}
}

// Service builds the service variant of the toggle.
func (t Toggle) Service(host, service string) Command {
	host, service = field(host), field(service)
	return Command{
		Name:   t.ServiceCommand,
		Target: target(host, service),
		Line:   t.ServiceCommand + ";" + host + ";" + service,
		Confirm: []string{
			"GET services",
			"Filter: host_name = " + host,
			"Filter: description = " + service,
			fmt.Sprintf("Filter: %s = %d", t.Column, flag(t.Enable)),
			"Columns: host_name",
		},
		Expect: regexp.QuoteMeta(host),
	}
}

// HostsByGroupQuery lists the hosts of any of the given hostgroups.
func HostsByGroupQuery(groups []string) []string {
	q := []string{"GET hostsbygroup"}
	for _, g := range groups {
		q = append(q, "Filter: hostgroup_name = "+field(g))
	}
	if len(groups) > 1 {
		q = append(q, fmt.Sprintf("Or: %d", len(groups)))
	}
	return append(q, "Columns: name")
}
