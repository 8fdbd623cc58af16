//go:build !unix

package host

// Re-executing the current process is not available on this platform.
var defaultExec ExecFunc
