//go:build !unix

package convert

import "os/exec"

// killProcessTree keeps the default behavior of killing only the tool itself.
func killProcessTree(*exec.Cmd) {}
