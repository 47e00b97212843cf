package clirides

import (
	"context"
	"fmt"

	"github.com/alexflint/go-arg"
	"github.com/wildrydes/rides/lib"
)

func init() {
	lib.Commands["table-rm"] = tableRm
	lib.Args["table-rm"] = tableRmArgs{}
}

type tableRmArgs struct {
	Table string `arg:"positional" help:"table name, defaults to RIDES_TABLE or Rides"`
	Yes   bool   `arg:"-y,--yes" help:"actually delete"`
}

func (tableRmArgs) Description() string {
	return "\ndelete the rides table and every ride record in it\n"
}

func tableRm() {
	var args tableRmArgs
	arg.MustParse(&args)
	ctx := context.Background()
	name := args.Table
	if name == "" {
		name = lib.RidesTable()
	}
	if !args.Yes {
		lib.Logger.Fatal("refusing to delete table ", name, " without --yes")
	}
	err := lib.RidesTableRm(ctx, lib.DynamoDBClient(), name)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	fmt.Println(name, "deleted")
}
