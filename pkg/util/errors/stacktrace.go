// Copyright 2025 dbkit, Inc.
// SPDX-License-Identifier: Apache-2.0

package errors

import (
	"fmt"
	"io"
	"runtime"
	"strconv"
)

// stacktrace only stores the pointers, frames are resolved when formatting.
type stacktrace []uintptr

func callers(skip, depth int) stacktrace {
	trace := make(stacktrace, depth)
	n := runtime.Callers(2+skip, trace)
	return trace[:n]
}

// Format formats the stack of frames according to the fmt.Formatter interface.
func (st stacktrace) Format(s fmt.State, verb rune) {
	frames := runtime.CallersFrames(st)
	for {
		fr, more := frames.Next()
		io.WriteString(s, "\n")
		formatFrame(s, fr, verb)
		if !more {
			break
		}
	}
}

func formatFrame(s fmt.State, fr runtime.Frame, verb rune) {
	fn := fr.Function
	if fn == "" {
		fn = "unknown"
	}
	switch verb {
	case 'v', 's':
		io.WriteString(s, fn)
		io.WriteString(s, "\n\t")
		io.WriteString(s, fr.File)
		if s.Flag('+') {
			io.WriteString(s, ":")
			io.WriteString(s, strconv.Itoa(fr.Line))
		}
	}
}
