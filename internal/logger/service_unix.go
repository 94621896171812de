//go:build !windows

package logger

import "syscall"

func isProcessGroupLeader() bool {
	return syscall.Getpgrp() == syscall.Getpid()
}
