// File: client/attempt.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Attempt is the per-connection state machine:
//
//	Init -> Bound -> Connecting -> Connected -> RequestSent -> AwaitingResponse -> Upgraded | Failed
//
// Every path ends in exactly one terminal state. Failed closes the socket.

package client

import (
	"context"
	"errors"
	"io"
	"net"
	"os"
	"syscall"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/momentics/hioload-connscale/api"
	"github.com/momentics/hioload-connscale/protocol"
)

// aLongTimeAgo expires deadlines immediately.
var aLongTimeAgo = time.Unix(1, 0)

// Attempt is owned by the worker executing it and never shared.
type Attempt struct {
	index  int
	source *net.TCPAddr
	conn   net.Conn
	state  api.AttemptState
	phase  api.AttemptState
}

func newAttempt(index int, source *net.TCPAddr) *Attempt {
	return &Attempt{index: index, source: source, state: api.StateInit, phase: api.StateInit}
}

// State returns the current state.
func (a *Attempt) State() api.AttemptState { return a.state }

// Close closes the socket if one is open. It is safe to call repeatedly and
// before a socket exists.
func (a *Attempt) Close() error {
	if a.conn == nil {
		return nil
	}
	err := a.conn.Close()
	a.conn = nil
	return err
}

func (a *Attempt) transition(to api.AttemptState) {
	a.state = to
	if !to.Terminal() {
		a.phase = to
	}
}

func (a *Attempt) fail(kind api.FailureKind, err error) api.Outcome {
	_ = a.Close()
	a.transition(api.StateFailed)
	return a.outcome(kind, err, nil)
}

func (a *Attempt) succeed() api.Outcome {
	conn := a.conn
	a.conn = nil // ownership moves to the caller
	a.transition(api.StateUpgraded)
	return a.outcome(api.FailureNone, nil, conn)
}

func (a *Attempt) outcome(kind api.FailureKind, err error, conn net.Conn) api.Outcome {
	var ip net.IP
	if a.source != nil {
		ip = a.source.IP
	}
	return api.Outcome{
		Index:  a.index,
		Source: ip,
		State:  a.state,
		Phase:  a.phase,
		Kind:   kind,
		Err:    err,
		Conn:   conn,
	}
}

// execute walks the state machine. It must be called at most once.
func (a *Attempt) execute(ctx context.Context, c *Client) api.Outcome {
	if a.state != api.StateInit {
		return a.fail(api.FailureUnexpectedIO, pkgerrors.Errorf("attempt %d executed twice", a.index))
	}
	if ctx.Err() != nil {
		return a.fail(api.FailureAborted, api.ErrAborted)
	}

	// Init -> Bound -> Connecting -> Connected. The dialer binds to the source
	// address and connects in one call; a bind failure leaves the attempt in Init.
	d := net.Dialer{
		LocalAddr: a.source,
		Timeout:   c.cfg.Timeout,
		Control:   c.cfg.Control,
	}
	conn, err := d.DialContext(ctx, "tcp", c.target)
	if err != nil {
		kind := classifyDial(ctx, err)
		if kind != api.FailureBindExhaustion {
			a.transition(api.StateBound)
			a.transition(api.StateConnecting)
		}
		return a.fail(kind, pkgerrors.Wrap(err, "dial"))
	}
	a.conn = conn
	a.transition(api.StateBound)
	a.transition(api.StateConnecting)
	a.transition(api.StateConnected)

	// Interrupts expire the remaining I/O instead of waiting out the timeout.
	stop := context.AfterFunc(ctx, func() { _ = conn.SetDeadline(aLongTimeAgo) })
	defer stop()

	// Connected -> RequestSent.
	key, err := protocol.NewHandshakeKey()
	if err != nil {
		return a.fail(api.FailureUnexpectedIO, pkgerrors.Wrap(err, "handshake key"))
	}
	reqBuf := c.reqBufs.Get()
	req := protocol.AppendUpgradeRequest((*reqBuf)[:0], c.cfg.Host, c.cfg.Port, c.cfg.Path, key)
	_ = conn.SetWriteDeadline(time.Now().Add(c.cfg.Timeout))
	_, err = conn.Write(req)
	c.reqBufs.Put(reqBuf)
	if err != nil {
		return a.fail(classifyIO(ctx, err), pkgerrors.Wrap(err, "write request"))
	}
	a.transition(api.StateRequestSent)

	// RequestSent -> AwaitingResponse -> Upgraded | Failed.
	respBuf := c.respBufs.Get()
	defer c.respBufs.Put(respBuf)
	a.transition(api.StateAwaitingResponse)
	_ = conn.SetReadDeadline(time.Now().Add(c.cfg.Timeout))
	n, err := conn.Read(*respBuf)
	if n > 0 && protocol.IsSwitchingProtocols((*respBuf)[:n]) {
		// Clear deadlines so the hold phase does not time the socket out.
		if !stop() {
			return a.fail(api.FailureAborted, api.ErrAborted)
		}
		_ = conn.SetDeadline(time.Time{})
		return a.succeed()
	}
	if n > 0 {
		return a.fail(api.FailureHandshakeRejected, api.ErrHandshakeRejected)
	}
	if err == nil {
		err = io.ErrUnexpectedEOF
	}
	return a.fail(classifyIO(ctx, err), pkgerrors.Wrap(err, "read response"))
}

// classifyDial maps a dial error to a failure kind.
func classifyDial(ctx context.Context, err error) api.FailureKind {
	if ctx.Err() != nil {
		return api.FailureAborted
	}
	var se *os.SyscallError
	if errors.As(err, &se) && se.Syscall == "bind" {
		return api.FailureBindExhaustion
	}
	switch {
	case errors.Is(err, syscall.EADDRNOTAVAIL), errors.Is(err, syscall.EADDRINUSE):
		return api.FailureBindExhaustion
	case errors.Is(err, syscall.ECONNREFUSED), errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.EHOSTUNREACH), errors.Is(err, syscall.ENETUNREACH):
		return api.FailureConnectRefused
	case isTimeout(err), errors.Is(err, syscall.ETIMEDOUT):
		return api.FailureConnectTimeout
	}
	return api.FailureUnexpectedIO
}

// classifyIO maps a write or read error after connect to a failure kind.
func classifyIO(ctx context.Context, err error) api.FailureKind {
	switch {
	case ctx.Err() != nil:
		return api.FailureAborted
	case isTimeout(err):
		return api.FailureHandshakeTimeout
	}
	return api.FailureUnexpectedIO
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
