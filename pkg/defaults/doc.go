// Package defaults provides centralized configuration constants for pyngctl.
//
// This package defines timeout values, retry parameters, and other configuration
// defaults used across the codebase. Centralizing these values ensures consistency
// and makes tuning easier.
//
// # Timeout Categories
//
// Timeouts are organized by component:
//
//   - Date normalization: bound on the external date(1) call
//   - Livestatus: socket dial and read deadlines
//   - Command confirmation: interval between confirm polls
//   - Server timeouts: For HTTP server configuration
//
// # Usage
//
// Import and use constants directly:
//
//	import "github.com/davejbarnes/pyngctl/pkg/defaults"
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.DateCommandTimeout)
//	defer cancel()
package defaults
