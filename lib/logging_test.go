package lib

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

func TestLoggerJSONMode(t *testing.T) {
	var sb strings.Builder
	l := &LoggerStruct{
		Print:    func(args ...any) { fmt.Fprint(&sb, args...) },
		jsonMode: true,
	}
	l.Println("ride:", "abc123", "rider:", "the_username")
	line := sb.String()
	if !strings.HasSuffix(line, "\n") {
		t.Fatalf("got:\n%q\nwant:\ntrailing newline\n", line)
	}
	var entry map[string]string
	err := json.Unmarshal([]byte(line), &entry)
	if err != nil {
		t.Fatal(err)
	}
	if entry["level"] != "info" {
		t.Errorf("got:\n%s\nwant:\ninfo\n", entry["level"])
	}
	if entry["msg"] != "ride: abc123 rider: the_username" {
		t.Errorf("got:\n%s\nwant:\nride: abc123 rider: the_username\n", entry["msg"])
	}
	if !strings.Contains(entry["caller"], "logging_test.go") {
		t.Errorf("got:\n%s\nwant:\nlogging_test.go caller prefix\n", entry["caller"])
	}
}

func TestLoggerDisabled(t *testing.T) {
	var sb strings.Builder
	l := &LoggerStruct{
		Print:    func(args ...any) { fmt.Fprint(&sb, args...) },
		disabled: true,
	}
	l.Println("nope")
	l.Printf("nope %d", 1)
	if sb.Len() != 0 {
		t.Errorf("got:\n%q\nwant:\nno output\n", sb.String())
	}
}

func TestLoggerTextMode(t *testing.T) {
	var sb strings.Builder
	l := &LoggerStruct{
		Print: func(args ...any) { fmt.Fprint(&sb, args...) },
	}
	l.Println("error:", "boom")
	line := sb.String()
	if !strings.Contains(line, "lib/logging_test.go:") {
		t.Errorf("got:\n%q\nwant:\nfile:line prefix\n", line)
	}
	if !strings.HasSuffix(line, "error: boom\n") {
		t.Errorf("got:\n%q\nwant:\nerror: boom suffix\n", line)
	}
}
