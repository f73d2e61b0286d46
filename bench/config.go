// File: bench/config.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Run configuration with defaults and validation.

package bench

import (
	"math"
	"net"
	"strconv"
	"time"

	"github.com/momentics/hioload-connscale/api"
	"github.com/momentics/hioload-connscale/client"
	"github.com/momentics/hioload-connscale/control"
	"github.com/momentics/hioload-connscale/internal/concurrency"
)

// DefaultHold is how long established connections stay open after launch.
const DefaultHold = 60 * time.Second

// Config holds every tunable of one run.
type Config struct {
	Host string
	Port int
	Path string

	Connections    int           // attempts to make (N)
	GateCapacity   int           // concurrent handshakes (C)
	Workers        int           // worker goroutines; <= 0 selects GateCapacity
	BatchSize      int           // attempts created per batch
	BatchPause     time.Duration // pause between batches
	Timeout        time.Duration // connect, write and read bound
	ReadBufferSize int           // response read size
	Hold           time.Duration // hold period after launch; 0 skips it
	ReportInterval time.Duration // progress period
}

// DefaultConfig returns the defaults of a local run sized to five loopback sources.
func DefaultConfig() Config {
	return Config{
		Host:           "127.0.0.1",
		Port:           8081,
		Path:           "/",
		Connections:    320_000,
		GateCapacity:   concurrency.DefaultGateCapacity,
		BatchSize:      concurrency.DefaultBatchSize,
		BatchPause:     concurrency.DefaultBatchPause,
		Timeout:        client.DefaultTimeout,
		ReadBufferSize: client.DefaultReadBufferSize,
		Hold:           DefaultHold,
		ReportInterval: control.DefaultReportInterval,
	}
}

// Validate rejects configurations a run cannot start with.
func (c Config) Validate() error {
	switch {
	case c.Host == "":
		return api.NewError(api.ErrCodeInvalidArgument, "empty target host")
	case c.Port <= 0 || c.Port > 65535:
		return api.NewError(api.ErrCodeInvalidArgument, "target port out of range").WithContext("port", c.Port)
	case c.Connections < 0:
		return api.NewError(api.ErrCodeInvalidArgument, "negative connection count").WithContext("n", c.Connections)
	case int64(c.Connections) > math.MaxUint32:
		// Stats packs each counter into 32 bits.
		return api.NewError(api.ErrCodeInvalidArgument, "connection count exceeds 2^32-1").WithContext("n", c.Connections)
	case c.GateCapacity <= 0:
		return api.NewError(api.ErrCodeInvalidArgument, "gate capacity must be positive").WithContext("concurrency", c.GateCapacity)
	case c.BatchSize <= 0:
		return api.NewError(api.ErrCodeInvalidArgument, "batch size must be positive").WithContext("batch", c.BatchSize)
	case c.BatchPause < 0:
		return api.NewError(api.ErrCodeInvalidArgument, "negative batch pause")
	case c.Timeout <= 0:
		return api.NewError(api.ErrCodeInvalidArgument, "timeout must be positive").WithContext("timeout", c.Timeout)
	case c.Hold < 0:
		return api.NewError(api.ErrCodeInvalidArgument, "negative hold")
	}
	return nil
}

// Target returns host:port.
func (c Config) Target() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c Config) clientConfig() client.ClientConfig {
	return client.ClientConfig{
		Host:           c.Host,
		Port:           c.Port,
		Path:           c.Path,
		Timeout:        c.Timeout,
		ReadBufferSize: c.ReadBufferSize,
	}
}

func (c Config) launcherConfig() concurrency.LauncherConfig {
	workers := c.Workers
	if workers <= 0 {
		workers = c.GateCapacity
	}
	return concurrency.LauncherConfig{
		Total:     c.Connections,
		BatchSize: c.BatchSize,
		Pause:     c.BatchPause,
		Workers:   workers,
	}
}
