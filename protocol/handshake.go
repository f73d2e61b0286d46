// File: protocol/handshake.go
// Package protocol
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Server side of the upgrade handshake: parse the HTTP request, validate the
// upgrade headers and compute Sec-WebSocket-Accept. Used by the reference
// upgrade target and by tests that need a peer which speaks the handshake.
package protocol

import (
	"bufio"
	"crypto/sha1"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
)

const (
	WebSocketGUID            = "258EAFA5-E914-47DA-95CA-C5AB0DC85B11"
	MaxHandshakeHeadersSize  = 8192
	HeaderConnection         = "Connection"
	HeaderUpgrade            = "Upgrade"
	HeaderSecWebSocketKey    = "Sec-WebSocket-Key"
	HeaderSecWebSocketVer    = "Sec-WebSocket-Version"
	RequiredWebSocketVersion = "13"
)

var (
	ErrInvalidUpgradeHeaders = fmt.Errorf("invalid WebSocket upgrade headers")
	ErrMissingWebSocketKey   = fmt.Errorf("missing Sec-WebSocket-Key header")
	ErrBadWebSocketVersion   = fmt.Errorf("unsupported WebSocket version; only '13' is supported")
	ErrHeadersTooLarge       = fmt.Errorf("handshake headers too large")
)

// DoHandshakeCore reads one HTTP request from br, validates the upgrade headers
// and returns the headers for the 101 response.
func DoHandshakeCore(br *bufio.Reader) (http.Header, error) {
	req, err := http.ReadRequest(br)
	if err != nil {
		return nil, fmt.Errorf("handshake read request: %w", err)
	}
	total := 0
	for k, vs := range req.Header {
		total += len(k)
		for _, v := range vs {
			total += len(v)
			if total > MaxHandshakeHeadersSize {
				return nil, ErrHeadersTooLarge
			}
		}
	}
	if !headerContainsToken(req.Header, HeaderConnection, "Upgrade") ||
		!headerContainsToken(req.Header, HeaderUpgrade, "websocket") {
		return nil, ErrInvalidUpgradeHeaders
	}
	if req.Header.Get(HeaderSecWebSocketVer) != RequiredWebSocketVersion {
		return nil, ErrBadWebSocketVersion
	}
	key := req.Header.Get(HeaderSecWebSocketKey)
	if key == "" {
		return nil, ErrMissingWebSocketKey
	}
	hdr := make(http.Header)
	hdr.Set("Upgrade", "websocket")
	hdr.Set("Connection", "Upgrade")
	hdr.Set("Sec-WebSocket-Accept", AcceptKey(key))
	return hdr, nil
}

// AcceptKey computes Sec-WebSocket-Accept for a client key.
func AcceptKey(key string) string {
	h := sha1.New()
	h.Write([]byte(key + WebSocketGUID))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

// headerContainsToken reports whether headerName carries token in its comma list.
func headerContainsToken(h http.Header, headerName, token string) bool {
	vals := h[http.CanonicalHeaderKey(headerName)]
	token = strings.ToLower(token)
	for _, v := range vals {
		parts := strings.Split(v, ",")
		for _, p := range parts {
			if strings.ToLower(strings.TrimSpace(p)) == token {
				return true
			}
		}
	}
	return false
}
