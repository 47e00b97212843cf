package clirides

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"

	"github.com/alexflint/go-arg"
	"github.com/wildrydes/rides/lib"
)

func init() {
	lib.Commands["fn-invoke"] = fnInvoke
	lib.Args["fn-invoke"] = fnInvokeArgs{}
}

type fnInvokeArgs struct {
	Name          string `arg:"positional,required" help:"function name"`
	PayloadFile   string `arg:"-f,--payload-file"`
	PayloadString string `arg:"-s,--payload-string"`
	Region        string `arg:"--region" help:"invoke in this region instead of the default"`
}

func (fnInvokeArgs) Description() string {
	return "\ninvoke the deployed ride function with an api gateway shaped payload, printing the response payload on stdout and the invocation log tail on stderr\n"
}

func fnInvoke() {
	var args fnInvokeArgs
	arg.MustParse(&args)
	ctx := context.Background()
	var payload []byte
	if args.PayloadString != "" {
		payload = []byte(args.PayloadString)
	} else if args.PayloadFile != "" {
		var err error
		payload, err = os.ReadFile(args.PayloadFile)
		if err != nil {
			lib.Logger.Fatal("error: ", err)
		}
	} else {
		lib.Logger.Fatal("provide --payload-string or --payload-file")
	}
	client := lib.LambdaClient()
	if args.Region != "" {
		var err error
		client, err = lib.LambdaClientRegion(args.Region)
		if err != nil {
			lib.Logger.Fatal("error: ", err)
		}
	}
	out, err := lib.LambdaInvoke(ctx, client, args.Name, payload)
	if out != nil && out.LogResult != nil {
		log, decodeErr := base64.StdEncoding.DecodeString(*out.LogResult)
		if decodeErr == nil {
			fmt.Fprint(os.Stderr, string(log))
		}
	}
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	var decoded any
	if json.Unmarshal(out.Payload, &decoded) == nil {
		fmt.Println(lib.Json(decoded))
	} else {
		fmt.Println(string(out.Payload))
	}
}
