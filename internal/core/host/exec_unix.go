//go:build unix

package host

import "syscall"

var defaultExec ExecFunc = syscall.Exec
