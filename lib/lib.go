package lib

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Commands maps cli command names to their implementations. Packages
// under cmd/ register themselves here via init().
var Commands = make(map[string]func())

// Args maps cli command names to their go-arg argument structs. Usage
// output pulls each command's description from here.
var Args = make(map[string]any)

var doDebug = os.Getenv("DEBUG") != ""

type Debug struct {
	start time.Time
	name  string
}

func (d *Debug) Log() {
	Logger.Println(d.name, "took", time.Since(d.start))
}

func Contains(parts []string, part string) bool {
	for _, p := range parts {
		if p == part {
			return true
		}
	}
	return false
}

func Last(xs []string) string {
	return xs[len(xs)-1]
}

func Json(i any) string {
	val, err := json.MarshalIndent(i, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %s\n", err)
		os.Exit(1)
	}
	return string(val)
}
