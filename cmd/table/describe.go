package clirides

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexflint/go-arg"
	"github.com/dustin/go-humanize"
	"github.com/wildrydes/rides/lib"
)

func init() {
	lib.Commands["table-describe"] = tableDescribe
	lib.Args["table-describe"] = tableDescribeArgs{}
}

type tableDescribeArgs struct {
	Table string `arg:"positional" help:"table name, defaults to RIDES_TABLE or Rides"`
}

func (tableDescribeArgs) Description() string {
	return "\ndescribe the rides table\n"
}

func zeroOnNil(x *int64) int64 {
	if x == nil {
		return 0
	}
	return *x
}

func tableDescribe() {
	var args tableDescribeArgs
	arg.MustParse(&args)
	ctx := context.Background()
	name := args.Table
	if name == "" {
		name = lib.RidesTable()
	}
	table, err := lib.RidesTableDescribe(ctx, lib.DynamoDBClient(), name)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	attrs := make(map[string]string)
	for _, attr := range table.AttributeDefinitions {
		attrs[*attr.AttributeName] = string(attr.AttributeType)
	}
	for _, key := range table.KeySchema {
		vals := []string{
			*key.AttributeName,
			attrs[*key.AttributeName],
			string(key.KeyType),
		}
		fmt.Println(strings.ToLower(strings.Join(vals, ":")))
	}
	fmt.Println(
		fmt.Sprintf("status=%s", strings.ToLower(string(table.TableStatus))),
		fmt.Sprintf("items=%s", humanize.Comma(zeroOnNil(table.ItemCount))),
		fmt.Sprintf("size=%s", strings.ReplaceAll(humanize.Bytes(uint64(zeroOnNil(table.TableSizeBytes))), " ", "")),
	)
}
