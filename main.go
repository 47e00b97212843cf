package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	_ "github.com/wildrydes/rides/cmd/aws"
	_ "github.com/wildrydes/rides/cmd/fn"
	_ "github.com/wildrydes/rides/cmd/ride"
	_ "github.com/wildrydes/rides/cmd/table"
	"github.com/wildrydes/rides/lib"
)

// commandLine renders one usage line: the command name plus the first
// line of its go-arg Description, when it has one.
func commandLine(name string) string {
	args, ok := lib.Args[name].(interface{ Description() string })
	if !ok {
		return name
	}
	for _, line := range strings.Split(args.Description(), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return fmt.Sprintf("%-16s %s", name, line)
		}
	}
	return name
}

func usage() {
	var fns []string
	for k := range lib.Commands {
		fns = append(fns, k)
	}
	sort.Strings(fns)
	for _, fn := range fns {
		fmt.Println(commandLine(fn))
	}
}

func main() {
	if len(os.Args) < 2 || os.Args[1] == "-h" || os.Args[1] == "--help" {
		usage()
		os.Exit(1)
	}
	cmd := os.Args[1]
	fn, ok := lib.Commands[cmd]
	if !ok {
		usage()
		os.Exit(1)
	}
	var args []string
	for _, a := range os.Args[1:] {
		if len(a) > 2 && a[0] == '-' && a[1] != '-' {
			for _, k := range a[1:] {
				args = append(args, fmt.Sprintf("-%s", string(k)))
			}
		} else {
			args = append(args, a)
		}
	}
	os.Args = args
	fn()
}
