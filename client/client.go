// File: client/client.go
// Package client drives single upgrade attempts against the benchmark target.
// Author: momentics <momentics.com>
// License: Apache-2.0
//
// The client fully implements:
// - binding each outgoing socket to a source address chosen by attempt index
// - a bounded connect, one upgrade request write and one bounded response read
// - classification of every attempt into exactly one api.Outcome
// - admission through a concurrency.Gate for the whole handshake

package client

import (
	"context"
	"net"
	"strconv"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/momentics/hioload-connscale/api"
	"github.com/momentics/hioload-connscale/internal/concurrency"
	"github.com/momentics/hioload-connscale/internal/transport"
	"github.com/momentics/hioload-connscale/pool"
)

// Defaults for handshake timing and sizing.
const (
	DefaultTimeout        = 10 * time.Second
	DefaultReadBufferSize = 4096
	requestBufferSize     = 512
)

// ClientConfig holds the attempt parameters shared by every connection.
type ClientConfig struct {
	Host           string        // target host
	Port           int           // target port
	Path           string        // request path, "/" when empty
	Timeout        time.Duration // connect, write and read bound
	ReadBufferSize int           // maximum bytes read for the response

	// Control runs on each socket before bind. Nil selects transport.ReuseControl.
	Control func(network, address string, c syscall.RawConn) error
}

// DefaultConfig returns the defaults for a local target.
func DefaultConfig() ClientConfig {
	return ClientConfig{
		Host:           "127.0.0.1",
		Port:           8081,
		Path:           "/",
		Timeout:        DefaultTimeout,
		ReadBufferSize: DefaultReadBufferSize,
	}
}

// Target returns host:port.
func (c ClientConfig) Target() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Client runs attempts. It is safe for concurrent use by many workers.
type Client struct {
	cfg      ClientConfig
	target   string
	sources  *transport.SourcePool
	gate     *concurrency.Gate
	recorder api.OutcomeRecorder
	respBufs *pool.BytePool
	reqBufs  *pool.BytePool
	log      *log.Entry
	sampled  [api.NumFailureKinds]sampleOnce
}

// NewClient wires a client to its address pool, gate and outcome recorder.
func NewClient(cfg ClientConfig, sources *transport.SourcePool, gate *concurrency.Gate, rec api.OutcomeRecorder) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.ReadBufferSize <= 0 {
		cfg.ReadBufferSize = DefaultReadBufferSize
	}
	if cfg.Path == "" {
		cfg.Path = "/"
	}
	if cfg.Control == nil {
		cfg.Control = transport.ReuseControl
	}
	return &Client{
		cfg:      cfg,
		target:   cfg.Target(),
		sources:  sources,
		gate:     gate,
		recorder: rec,
		respBufs: pool.NewBytePool(cfg.ReadBufferSize),
		reqBufs:  pool.NewBytePool(requestBufferSize),
		log:      log.WithField("component", "client"),
	}
}

// Config returns the normalized configuration.
func (c *Client) Config() ClientConfig { return c.cfg }

// Run executes attempt index end to end and records its classification once.
// The gate slot is held from admission until the attempt is terminal.
func (c *Client) Run(ctx context.Context, index int) api.Outcome {
	src := c.sources.Select(index)
	release, err := c.gate.Acquire(ctx)
	if err != nil {
		a := newAttempt(index, src)
		out := a.fail(api.FailureAborted, api.ErrAborted)
		c.record(out)
		return out
	}
	out := newAttempt(index, src).execute(ctx, c)
	release()
	c.record(out)
	return out
}

func (c *Client) record(out api.Outcome) {
	if out.Kind == api.FailureNone {
		c.recorder.RecordSuccess()
		return
	}
	c.recorder.RecordFailure(out.Kind)
	if c.sampled[out.Kind].first() {
		c.log.WithFields(log.Fields{
			"index":  out.Index,
			"source": out.Source,
			"phase":  out.Phase,
			"kind":   out.Kind,
		}).WithError(out.Err).Info("first failure of this kind")
	} else if c.log.Logger.IsLevelEnabled(log.DebugLevel) {
		c.log.WithFields(log.Fields{
			"index": out.Index,
			"kind":  out.Kind,
		}).WithError(out.Err).Debug("attempt failed")
	}
}
