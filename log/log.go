// Package log provides the gateway's console logger.
package log

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"
)

var output io.Writer = os.Stdout

// osExit is swappable for tests.
var osExit = os.Exit

// SetOutput redirects log output. Intended for tests.
func SetOutput(w io.Writer) {
	output = w
}

func timestamp() string {
	return time.Now().Format("2006-01-02 15:04:05.000")
}

// Info logs an informational message.
func Info(format string, args ...any) {
	fmt.Fprintf(output, "[%s] %s\n", timestamp(), fmt.Sprintf(format, args...))
}

// Error logs an error with the caller's file and line.
func Error(context string, err error) {
	_, file, line, ok := runtime.Caller(1)
	var callerInfo string
	if ok {
		parts := strings.Split(file, "/")
		if len(parts) > 2 {
			file = strings.Join(parts[len(parts)-2:], "/")
		}
		callerInfo = fmt.Sprintf("%s:%d", file, line)
	}
	fmt.Fprintf(output, "[%s] [ERROR] in %s: %s: %v\n", timestamp(), callerInfo, context, err)
}

// Fatal logs an error and then exits the program.
func Fatal(context string, err error) {
	Error(context, err)
	osExit(1)
}
