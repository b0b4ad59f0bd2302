//go:build !unix

package browser

import "os/exec"

// killProcessGroup is a no-op; WaitDelay still bounds the wait.
func killProcessGroup(cmd *exec.Cmd) {}
