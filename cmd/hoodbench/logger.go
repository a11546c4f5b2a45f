// logger.go: stderr implementation of hood.Logger
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/agilira/hood"
)

// stdLogger prints "LEVEL msg key=value ..." lines through a log.Logger.
type stdLogger struct {
	l     *log.Logger
	debug bool
}

func newStdLogger(w io.Writer, debug bool) *stdLogger {
	return &stdLogger{l: log.New(w, "hoodbench ", log.LstdFlags|log.Lmicroseconds), debug: debug}
}

func (s *stdLogger) Debug(msg string, keyvals ...interface{}) {
	if s.debug {
		s.print("DEBUG", msg, keyvals)
	}
}

func (s *stdLogger) Info(msg string, keyvals ...interface{})  { s.print("INFO", msg, keyvals) }
func (s *stdLogger) Warn(msg string, keyvals ...interface{})  { s.print("WARN", msg, keyvals) }
func (s *stdLogger) Error(msg string, keyvals ...interface{}) { s.print("ERROR", msg, keyvals) }

func (s *stdLogger) print(level, msg string, keyvals []interface{}) {
	var b strings.Builder
	b.WriteString(level)
	b.WriteByte(' ')
	b.WriteString(msg)
	for i := 0; i < len(keyvals); i += 2 {
		b.WriteByte(' ')
		if i+1 < len(keyvals) {
			fmt.Fprintf(&b, "%v=%v", keyvals[i], keyvals[i+1])
		} else {
			fmt.Fprintf(&b, "%v=MISSING", keyvals[i])
		}
	}
	s.l.Print(b.String())
}

var _ hood.Logger = (*stdLogger)(nil)
