// File: protocol/request.go
// Package protocol
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Client side of the upgrade handshake, reduced to what a capacity probe needs:
// the request bytes and recognition of the success status.
package protocol

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"net"
	"strconv"
)

// SwitchingProtocolsMarker is the byte sequence that identifies a successful upgrade.
var SwitchingProtocolsMarker = []byte("101 Switching Protocols")

// HandshakeKeyLen is the number of random bytes behind Sec-WebSocket-Key.
const HandshakeKeyLen = 16

// NewHandshakeKey returns base64 of 16 random bytes.
func NewHandshakeKey() (string, error) {
	var raw [HandshakeKeyLen]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw[:]), nil
}

// AppendUpgradeRequest appends the GET Upgrade request for host:port/path to dst.
// IPv6 hosts are bracketed in the Host header.
// An empty path is sent as "/".
func AppendUpgradeRequest(dst []byte, host string, port int, path, key string) []byte {
	if path == "" {
		path = "/"
	}
	dst = append(dst, "GET "...)
	dst = append(dst, path...)
	dst = append(dst, " HTTP/1.1\r\nHost: "...)
	dst = append(dst, net.JoinHostPort(host, strconv.Itoa(port))...)
	dst = append(dst, "\r\nUpgrade: websocket\r\nConnection: Upgrade\r\nSec-WebSocket-Key: "...)
	dst = append(dst, key...)
	dst = append(dst, "\r\nSec-WebSocket-Version: 13\r\n\r\n"...)
	return dst
}

// IsSwitchingProtocols reports whether resp contains the success marker.
func IsSwitchingProtocols(resp []byte) bool {
	return bytes.Contains(resp, SwitchingProtocolsMarker)
}
