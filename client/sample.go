// File: client/sample.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package client

import "sync/atomic"

// sampleOnce reports true exactly once.
type sampleOnce struct {
	done atomic.Bool
}

func (s *sampleOnce) first() bool {
	return !s.done.Load() && s.done.CompareAndSwap(false, true)
}
