package clirides

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/wildrydes/rides/lib"
)

func init() {
	lib.Commands["fn-logs"] = fnLogs
	lib.Args["fn-logs"] = fnLogsArgs{}
}

type fnLogsArgs struct {
	Name   string `arg:"positional,required" help:"function name"`
	Since  string `arg:"-s,--since" default:"1h" help:"how far back to fetch, a go duration"`
	Region string `arg:"--region" help:"fetch from this region instead of the default"`
}

func (fnLogsArgs) Description() string {
	return "\nprint recent cloudwatch log events for the deployed ride function\n"
}

func fnLogs() {
	var args fnLogsArgs
	arg.MustParse(&args)
	ctx := context.Background()
	since, err := time.ParseDuration(args.Since)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	client := lib.LogsClient()
	if args.Region != "" {
		client, err = lib.LogsClientRegion(args.Region)
		if err != nil {
			lib.Logger.Fatal("error: ", err)
		}
	}
	events, err := lib.LogsRecent(ctx, client, args.Name, time.Now().Add(-since))
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	for _, event := range events {
		if event.Timestamp == nil || event.Message == nil {
			continue
		}
		ts := time.UnixMilli(*event.Timestamp).UTC().Format(time.RFC3339)
		fmt.Println(ts, strings.TrimRight(*event.Message, "\n"))
	}
}
