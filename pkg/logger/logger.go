package logger

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

var (
	mu    sync.Mutex
	level           = INFO
	out   io.Writer = os.Stderr
)

func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	level = l
}

// SetOutput redirects log lines, e.g. to a file under the data dir.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
}

func levelName(l Level) string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	default:
		return "ERROR"
	}
}

func logCF(l Level, component, msg string, fields map[string]any) {
	mu.Lock()
	defer mu.Unlock()
	if l < level {
		return
	}

	var b strings.Builder
	b.WriteString(time.Now().Format("2006-01-02 15:04:05"))
	b.WriteString(" [")
	b.WriteString(levelName(l))
	b.WriteString("] ")
	if component != "" {
		b.WriteString(component)
		b.WriteString(": ")
	}
	b.WriteString(msg)

	if len(fields) > 0 {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%v", k, fields[k])
		}
	}
	fmt.Fprintln(out, b.String())
}

func DebugC(component, msg string)                    { logCF(DEBUG, component, msg, nil) }
func DebugCF(component, msg string, f map[string]any) { logCF(DEBUG, component, msg, f) }
func InfoC(component, msg string)                     { logCF(INFO, component, msg, nil) }
func InfoCF(component, msg string, f map[string]any)  { logCF(INFO, component, msg, f) }
func WarnC(component, msg string)                     { logCF(WARN, component, msg, nil) }
func WarnCF(component, msg string, f map[string]any)  { logCF(WARN, component, msg, f) }
func ErrorC(component, msg string)                    { logCF(ERROR, component, msg, nil) }
func ErrorCF(component, msg string, f map[string]any) { logCF(ERROR, component, msg, f) }
