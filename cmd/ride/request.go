package clirides

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/alexflint/go-arg"
	"github.com/aws/aws-lambda-go/events"
	"github.com/wildrydes/rides/lib"
)

func init() {
	lib.Commands["ride-request"] = rideRequest
	lib.Args["ride-request"] = rideRequestArgs{}
}

type rideRequestArgs struct {
	Rider  string  `arg:"-r,--rider,required" help:"rider username"`
	Lat    float64 `arg:"--lat,required" help:"pickup latitude"`
	Lon    float64 `arg:"--lon,required" help:"pickup longitude"`
	Table  string  `arg:"-t,--table" help:"rides table name, defaults to RIDES_TABLE or Rides"`
	Fleet  string  `arg:"-f,--fleet" help:"yaml file overriding the default fleet"`
	DryRun bool    `arg:"-d,--dry-run" help:"write to an in-memory store instead of dynamodb"`
}

func (rideRequestArgs) Description() string {
	return "\nrun the ride handler once, in process, and print the response body\n"
}

func rideRequest() {
	var args rideRequestArgs
	arg.MustParse(&args)
	ctx := context.Background()
	if args.Fleet != "" {
		err := lib.FleetLoad(args.Fleet)
		if err != nil {
			lib.Logger.Fatal("error: ", err)
		}
	}
	if args.DryRun {
		lib.Store = &lib.MemoryRides{}
	} else if args.Table != "" {
		lib.Store = lib.DynamoDBRides{Table: args.Table}
	}
	body, err := json.Marshal(lib.RideRequest{
		PickupLocation: lib.PickupLocation{Latitude: args.Lat, Longitude: args.Lon},
	})
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	request := events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost,
		Path:       "/ride",
		Body:       string(body),
		RequestContext: events.APIGatewayProxyRequestContext{
			Authorizer: map[string]any{
				"claims": map[string]any{"cognito:username": args.Rider},
			},
		},
	}
	response := lib.HandleRideRequest(ctx, request)
	fmt.Println(response.Body)
	if response.StatusCode != http.StatusCreated {
		os.Exit(1)
	}
}
