package utils

import (
	"fmt"
	"log"
	"os"
	"time"
)

// Logger provides leveled, timestamped console output. The console is the
// only operator interface of these batch tools, so levels are ANSI
// color-coded rather than structured.
type Logger struct {
	out *log.Logger
	err *log.Logger
}

// NewLogger creates a new Logger writing to stdout/stderr.
func NewLogger() *Logger {
	return &Logger{
		out: log.New(os.Stdout, "", 0),
		err: log.New(os.Stderr, "", 0),
	}
}

func stamp() string {
	return time.Now().Format("2006-01-02 15:04:05")
}

func (l *Logger) Info(format string, args ...any) {
	l.out.Printf(fmt.Sprintf("[%s] \033[32mINFO\033[0m  %s", stamp(), format), args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.out.Printf(fmt.Sprintf("[%s] \033[33mWARN\033[0m  %s", stamp(), format), args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.err.Printf(fmt.Sprintf("[%s] \033[31mERROR\033[0m %s", stamp(), format), args...)
}

func (l *Logger) Debug(format string, args ...any) {
	l.out.Printf(fmt.Sprintf("[%s] \033[36mDEBUG\033[0m %s", stamp(), format), args...)
}
