package main

import (
	"fmt"
	"log"
)

// stdLogger adapts the info/error log pair to the Infof/Errorf interface the
// internal packages take.
type stdLogger struct {
	infoLog  *log.Logger
	errorLog *log.Logger
}

func (l stdLogger) Infof(format string, args ...interface{}) {
	l.infoLog.Printf(format, args...)
}

func (l stdLogger) Errorf(format string, args ...interface{}) {
	l.errorLog.Output(2, fmt.Sprintf(format, args...))
}
