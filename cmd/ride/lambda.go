package clirides

import (
	"os"

	"github.com/alexflint/go-arg"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/wildrydes/rides/lib"
)

func init() {
	lib.Commands["ride-lambda"] = rideLambda
	lib.Args["ride-lambda"] = rideLambdaArgs{}
}

type rideLambdaArgs struct {
}

func (rideLambdaArgs) Description() string {
	return "\nrun the lambda runtime loop. this is the entrypoint of the deployed function, selected by setting the bootstrap args to \"ride-lambda\"\n"
}

func rideLambda() {
	var args rideLambdaArgs
	arg.MustParse(&args)
	if path := os.Getenv("FLEET_FILE"); path != "" {
		err := lib.FleetLoad(path)
		if err != nil {
			lib.Logger.Fatal("error: ", err)
		}
	}
	lambda.Start(lib.HandleLambda)
}
