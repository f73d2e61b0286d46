// Package fake
// Author: momentics <momentics@gmail.com>
//
// Fake upgrade targets for tests. Each target listens on 127.0.0.1 with a
// kernel-chosen port and exhibits one predictable behavior: upgrade, reject,
// stay silent or hang up.

package fake

import (
	"bufio"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/momentics/hioload-connscale/protocol"
)

// Target is a running fake server.
type Target struct {
	Host string
	Port int

	accepted atomic.Int64
	upgraded atomic.Int64
	inflight atomic.Int64
	peak     atomic.Int64

	mu    sync.Mutex
	conns []net.Conn

	stop func()
	once sync.Once
}

// Option tunes a target.
type Option func(*options)

type options struct {
	delay time.Duration
}

// WithDelay makes the target wait d before answering each handshake.
func WithDelay(d time.Duration) Option {
	return func(o *options) { o.delay = d }
}

func buildOptions(opts []Option) options {
	var o options
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// Addr returns host:port.
func (t *Target) Addr() string {
	return net.JoinHostPort(t.Host, strconv.Itoa(t.Port))
}

// Accepted returns the number of connections the target accepted.
func (t *Target) Accepted() int64 { return t.accepted.Load() }

// Upgraded returns the number of 101 responses written.
func (t *Target) Upgraded() int64 { return t.upgraded.Load() }

// PeakInFlight returns the highest number of requests awaiting an answer at once.
// A request stops counting just before its response is written.
func (t *Target) PeakInFlight() int64 { return t.peak.Load() }

// Held returns the number of server-side connections still tracked.
func (t *Target) Held() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.conns)
}

// DropAll closes every server-side connection, as a peer that goes away would.
func (t *Target) DropAll() {
	t.mu.Lock()
	conns := t.conns
	t.conns = nil
	t.mu.Unlock()
	for _, c := range conns {
		_ = c.Close()
	}
}

// Close stops the listener and drops all connections. Safe to call twice.
func (t *Target) Close() {
	t.once.Do(func() {
		t.stop()
		t.DropAll()
	})
}

func (t *Target) hold(c net.Conn) {
	t.mu.Lock()
	t.conns = append(t.conns, c)
	t.mu.Unlock()
}

func (t *Target) enter() {
	n := t.inflight.Add(1)
	for {
		p := t.peak.Load()
		if n <= p || t.peak.CompareAndSwap(p, n) {
			return
		}
	}
}

func (t *Target) leave() { t.inflight.Add(-1) }

// NewUpgrading starts a target that completes every WebSocket upgrade with
// gorilla/websocket and keeps the connection open until Close or DropAll.
func NewUpgrading(tb testing.TB, opts ...Option) *Target {
	tb.Helper()
	o := buildOptions(opts)
	t := &Target{}
	up := websocket.Upgrader{
		CheckOrigin: func(*http.Request) bool { return true },
	}
	srv := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.enter()
		if o.delay > 0 {
			time.Sleep(o.delay)
		}
		t.leave()
		ws, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		t.upgraded.Add(1)
		t.hold(ws.UnderlyingConn())
	}))
	srv.Config.ConnState = func(_ net.Conn, st http.ConnState) {
		if st == http.StateNew {
			t.accepted.Add(1)
		}
	}
	srv.Start()
	t.stop = srv.Close
	t.setAddr(tb, srv.Listener.Addr())
	tb.Cleanup(t.Close)
	return t
}

// NewRejecting starts a target that answers every request with status and hangs up.
func NewRejecting(tb testing.TB, status int, opts ...Option) *Target {
	tb.Helper()
	o := buildOptions(opts)
	return newRaw(tb, func(t *Target, c net.Conn) {
		defer c.Close()
		if _, err := protocol.DoHandshakeCore(bufio.NewReader(c)); err != nil {
			return
		}
		t.enter()
		if o.delay > 0 {
			time.Sleep(o.delay)
		}
		t.leave()
		_ = protocol.WriteRejectResponse(c, status)
	})
}

// NewSilent starts a target that accepts and never answers.
func NewSilent(tb testing.TB) *Target {
	tb.Helper()
	return newRaw(tb, func(t *Target, c net.Conn) {
		t.hold(c)
	})
}

// NewHangup starts a target that reads the request and closes without answering.
func NewHangup(tb testing.TB) *Target {
	tb.Helper()
	return newRaw(tb, func(t *Target, c net.Conn) {
		_, _ = protocol.DoHandshakeCore(bufio.NewReader(c))
		_ = c.Close()
	})
}

// RefusedAddr returns a loopback host and port with nothing listening.
func RefusedAddr(tb testing.TB) (string, int) {
	tb.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		tb.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().(*net.TCPAddr)
	ln.Close()
	return "127.0.0.1", addr.Port
}

func newRaw(tb testing.TB, serve func(*Target, net.Conn)) *Target {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		tb.Fatalf("listen: %v", err)
	}
	t := &Target{}
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			t.accepted.Add(1)
			go serve(t, c)
		}
	}()
	t.stop = func() {
		ln.Close()
		wg.Wait()
	}
	t.setAddr(tb, ln.Addr())
	tb.Cleanup(t.Close)
	return t
}

func (t *Target) setAddr(tb testing.TB, a net.Addr) {
	tcp, ok := a.(*net.TCPAddr)
	if !ok {
		tb.Fatalf("unexpected listener address %T", a)
	}
	t.Host = tcp.IP.String()
	t.Port = tcp.Port
}
