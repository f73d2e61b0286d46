// File: internal/transport/doc.go
// Package transport
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Local-address plumbing for outgoing connections: the source address pool,
// discovery and probing of bindable addresses, and the socket options applied
// before bind. Platform specifics are split by build tags.

package transport
