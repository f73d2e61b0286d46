// File: internal/concurrency/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Admission and pacing for connection attempts. Gate bounds handshakes in
// flight; Launcher creates attempts in paced batches on a fixed worker pool.
package concurrency
