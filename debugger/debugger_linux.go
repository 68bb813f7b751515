//go:build linux

// File: debugger/debugger_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux detection via the TracerPid field of /proc/self/status, which
// is non-zero while a tracer (debugger) is attached.

package debugger

import (
	"bufio"
	"bytes"
	"os"
	"strconv"
	"strings"
)

func attachedPlatform() bool {
	data, err := os.ReadFile("/proc/self/status")
	if err != nil {
		return false
	}
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, "TracerPid:") {
			continue
		}
		pid, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "TracerPid:")))
		return err == nil && pid != 0
	}
	return false
}
