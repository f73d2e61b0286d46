// File: protocol/handshake_serializer.go
// Package protocol
// Helpers that serialize handshake responses.
package protocol

import (
	"fmt"
	"io"
	"net/http"
)

// WriteHandshakeResponse writes the 101 status line followed by hdr.
func WriteHandshakeResponse(w io.Writer, hdr http.Header) error {
	if _, err := fmt.Fprintf(w, "HTTP/1.1 101 Switching Protocols\r\n"); err != nil {
		return err
	}
	for k, vs := range hdr {
		for _, v := range vs {
			if _, err := fmt.Fprintf(w, "%s: %s\r\n", k, v); err != nil {
				return err
			}
		}
	}
	if _, err := fmt.Fprint(w, "\r\n"); err != nil {
		return err
	}
	return nil
}

// WriteRejectResponse writes a bodyless non-upgrade response with the given status.
func WriteRejectResponse(w io.Writer, status int) error {
	_, err := fmt.Fprintf(w, "HTTP/1.1 %d %s\r\nContent-Length: 0\r\nConnection: close\r\n\r\n",
		status, http.StatusText(status))
	return err
}
