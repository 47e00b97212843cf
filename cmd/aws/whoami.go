package clirides

import (
	"context"
	"fmt"

	"github.com/alexflint/go-arg"
	"github.com/wildrydes/rides/lib"
)

func init() {
	lib.Commands["aws-whoami"] = awsWhoami
	lib.Args["aws-whoami"] = awsWhoamiArgs{}
}

type awsWhoamiArgs struct {
}

func (awsWhoamiArgs) Description() string {
	return "\nprint the aws account and caller arn in use\n"
}

func awsWhoami() {
	var args awsWhoamiArgs
	arg.MustParse(&args)
	ctx := context.Background()
	account, err := lib.StsAccount(ctx)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	arn, err := lib.StsArn(ctx)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	fmt.Println(account)
	fmt.Println(arn)
	fmt.Println(lib.Region())
}
