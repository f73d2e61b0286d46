// Package pool
// Author: momentics <momentics@gmail.com>
//
// Reusable fixed-size byte buffers for request encoding and response reads.
package pool
