package clirides

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/alexflint/go-arg"
	"github.com/aws/aws-lambda-go/events"
	"github.com/mattn/go-isatty"
	"github.com/wildrydes/rides/lib"
)

func init() {
	lib.Commands["ride-serve"] = rideServe
	lib.Args["ride-serve"] = rideServeArgs{}
}

type rideServeArgs struct {
	Addr           string `arg:"-a,--addr" default:":8080" help:"listen address"`
	Table          string `arg:"-t,--table" help:"rides table name, defaults to RIDES_TABLE or Rides"`
	Fleet          string `arg:"-f,--fleet" help:"yaml file overriding the default fleet"`
	DynamoEndpoint string `arg:"--dynamo-endpoint" help:"DynamoDB Local endpoint, e.g. http://localhost:8000"`
	Region         string `arg:"--region" default:"us-east-1" help:"region for --dynamo-endpoint"`
	DryRun         bool   `arg:"-d,--dry-run" help:"write to an in-memory store instead of dynamodb"`
}

func (rideServeArgs) Description() string {
	return `
serve the ride handler over local http for development

POST /ride with the pickup location body and a Rider header standing in
for the cognito username claim. the authorizer context the gateway
would attach is synthesized from that header, so requests without it
exercise the authorization guard.
`
}

func rideServe() {
	var args rideServeArgs
	arg.MustParse(&args)
	if args.Fleet != "" {
		err := lib.FleetLoad(args.Fleet)
		if err != nil {
			lib.Logger.Fatal("error: ", err)
		}
	}
	switch {
	case args.DryRun:
		lib.Store = &lib.MemoryRides{}
	case args.DynamoEndpoint != "":
		lib.Store = lib.DynamoDBRides{
			Table:  args.Table,
			Client: lib.DynamoDBClientExplicit(args.DynamoEndpoint, args.Region),
		}
	case args.Table != "":
		lib.Store = lib.DynamoDBRides{Table: args.Table}
	}
	tty := isatty.IsTerminal(os.Stdout.Fd())
	http.HandleFunc("/ride", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		request := events.APIGatewayProxyRequest{
			HTTPMethod: r.Method,
			Path:       r.URL.Path,
			Body:       string(body),
		}
		if rider := r.Header.Get("Rider"); rider != "" {
			request.RequestContext.Authorizer = map[string]any{"principalId": rider}
		}
		response := lib.HandleRideRequest(r.Context(), request)
		for k, v := range response.Headers {
			w.Header().Set(k, v)
		}
		w.WriteHeader(response.StatusCode)
		fmt.Fprint(w, response.Body)
		if tty {
			fmt.Printf("%d %s %s\n", response.StatusCode, r.Method, r.URL.Path)
		} else {
			line, _ := json.Marshal(map[string]any{
				"status": response.StatusCode,
				"method": r.Method,
				"path":   r.URL.Path,
			})
			fmt.Println(string(line))
		}
	})
	lib.Logger.Println("serving on", args.Addr)
	err := http.ListenAndServe(args.Addr, nil)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
}
