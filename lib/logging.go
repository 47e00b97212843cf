package lib

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"strings"
)

// LoggerStruct writes caller-prefixed lines to stderr. Set LOGGING=n to
// silence it entirely. Set LOGGING_FORMAT=json to emit one json object
// per line instead of plain text, which keeps CloudWatch Logs Insights
// queries sane when running inside Lambda.
type LoggerStruct struct {
	Print    func(args ...any)
	Flush    func()
	disabled bool
	jsonMode bool
}

var Logger = &LoggerStruct{
	Print: func(args ...any) {
		fmt.Fprint(os.Stderr, args...)
	},
	disabled: strings.ToLower(os.Getenv("LOGGING")+" ")[:1] == "n",
	jsonMode: strings.ToLower(os.Getenv("LOGGING_FORMAT")) == "json",
}

func caller() string {
	_, file, line, _ := runtime.Caller(2)
	parts := strings.Split(file, "/")
	keep := []string{
		parts[len(parts)-2],
		parts[len(parts)-1],
	}
	file = strings.Join(keep, "/")
	return fmt.Sprintf("%s:%d: ", file, line)
}

func jsonLine(level, caller, msg string) string {
	val, _ := json.Marshal(map[string]string{
		"level":  level,
		"caller": strings.TrimSuffix(caller, ": "),
		"msg":    msg,
	})
	return string(val) + "\n"
}

func joined(v ...any) string {
	var xs []string
	for _, x := range v {
		xs = append(xs, fmt.Sprint(x))
	}
	return strings.Join(xs, " ")
}

func (l *LoggerStruct) Println(v ...any) {
	if l.disabled {
		return
	}
	if l.jsonMode {
		l.Print(jsonLine("info", caller(), joined(v...)))
		return
	}
	l.Print(caller(), joined(v...), "\n")
}

func (l *LoggerStruct) Printf(format string, v ...any) {
	if l.disabled {
		return
	}
	if l.jsonMode {
		l.Print(jsonLine("info", caller(), fmt.Sprintf(format, v...)))
		return
	}
	l.Print(fmt.Sprintf(caller()+format, v...))
}

func (l *LoggerStruct) Fatal(v ...any) {
	if l.jsonMode {
		l.Print(jsonLine("fatal", caller(), joined(v...)))
	} else {
		l.Print(caller(), joined(v...), "\n")
	}
	if l.Flush != nil {
		l.Flush()
	}
	os.Exit(1)
}

func (l *LoggerStruct) Fatalf(format string, v ...any) {
	if l.jsonMode {
		l.Print(jsonLine("fatal", caller(), fmt.Sprintf(format, v...)))
	} else {
		l.Print(fmt.Sprintf(caller()+format, v...))
	}
	if l.Flush != nil {
		l.Flush()
	}
	os.Exit(1)
}
