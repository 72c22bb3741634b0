// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cli implements the pyngctl command-line interface.
//
// # Overview
//
// pyngctl schedules downtime, acknowledges problems and toggles
// notifications or active checks in Nagios. Arguments are short switches
// validated against a declarative parameter schema before any external
// command is sent.
//
// # Commands
//
// run - Validate and send commands:
//
//	pyngctl run -h=web01,web02 -c="kernel update" -D=2
//	pyngctl run ack -h=db01 -s=MySQL -c="looking into it" -k
//	pyngctl run dc -h=web -x=1 -y=8 -p=even
//
// The first positional mode (down, ack, dn, en, dc, ec) selects the action;
// down is the default. One command is sent per host, or per host and
// service when -s is given, and each is confirmed through Livestatus.
//
// check - Validate only:
//
//	pyngctl --format json check -h=web01 -c=patching -D=2
//
// Prints the outcome with accepted values and diagnostics. Exits 1 when
// run would refuse the arguments.
//
// schema - Inspect the parameter schema:
//
//	pyngctl schema describe
//	pyngctl --schema ./params.yaml schema dump -t json
//
// serve - Serve the validation API:
//
//	pyngctl serve --port 8080
//
// run and check take their arguments unparsed, so global flags must come
// before the command name.
//
// # Global Flags
//
//	--output, -o        Output file path (default: stdout)
//	--format, -t        Output format: yaml, json, table (default: yaml)
//	--schema            Parameter schema file (default: built-in)
//	--date-backend      command (date(1)) or builtin
//	--no-rules          Skip rule evaluation
//	--socket            Livestatus socket
//	--command-pipe      Nagios external command file
//	--user              Author of downtimes and acknowledgements
//	--test-mode         Log commands instead of sending them
//	--retries           Command attempts after the first
//	--concurrency       Commands in flight at once
//	--metrics-textfile  Write metrics on exit
//	--debug             Enable debug logging
//	--log-json          Output logs in JSON format
//	--log-file          Write logs to a rotated file
//
// # Environment Variables
//
//	PYNGCTL_FORMAT             Default output format
//	PYNGCTL_SCHEMA             Parameter schema file
//	PYNGCTL_DATE_BACKEND       Date conversion backend
//	PYNGCTL_LIVESTATUS_SOCKET  Livestatus socket
//	PYNGCTL_COMMAND_PIPE       Nagios external command file
//	PYNGCTL_USER               Command author
//	PYNGCTL_TEST_MODE          Log commands instead of sending them
//	PYNGCTL_LOG_FILE           Log file
//	PYNGCTL_METRICS_TEXTFILE   Metrics textfile
//	PORT                       API server port
//
// # Exit Codes
//
//	0  Success
//	1  Invalid arguments, failed rules or a failed command
//	2  Context canceled
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/davejbarnes/pyngctl/pkg/cli.version=1.0.0'"
package cli
