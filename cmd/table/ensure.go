package clirides

import (
	"context"
	"fmt"

	"github.com/alexflint/go-arg"
	"github.com/wildrydes/rides/lib"
)

func init() {
	lib.Commands["table-ensure"] = tableEnsure
	lib.Args["table-ensure"] = tableEnsureArgs{}
}

type tableEnsureArgs struct {
	Table          string `arg:"positional" help:"table name, defaults to RIDES_TABLE or Rides"`
	DynamoEndpoint string `arg:"--dynamo-endpoint" help:"DynamoDB Local endpoint"`
	Region         string `arg:"--region" default:"us-east-1" help:"region for --dynamo-endpoint"`
}

func (tableEnsureArgs) Description() string {
	return "\nensure the rides table exists and is active. RideId string hash key, on-demand billing. fails on schema drift of a pre-existing table\n"
}

func tableEnsure() {
	var args tableEnsureArgs
	arg.MustParse(&args)
	ctx := context.Background()
	table := args.Table
	if table == "" {
		table = lib.RidesTable()
	}
	client := lib.DynamoDBClient()
	if args.DynamoEndpoint != "" {
		client = lib.DynamoDBClientExplicit(args.DynamoEndpoint, args.Region)
	}
	err := lib.RidesTableEnsure(ctx, client, table)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	fmt.Println(table, "active")
}
