package lib

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	lambdatypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"
)

var lambdaClient *lambda.Client
var lambdaClientLock sync.Mutex

func LambdaClient() *lambda.Client {
	lambdaClientLock.Lock()
	defer lambdaClientLock.Unlock()
	if lambdaClient == nil {
		lambdaClient = lambda.NewFromConfig(*Session())
	}
	return lambdaClient
}

// LambdaClientRegion targets a region other than the default one, for
// ride stacks deployed in several regions.
func LambdaClientRegion(region string) (*lambda.Client, error) {
	cfg, err := SessionRegion(region)
	if err != nil {
		Logger.Println("error:", err)
		return nil, err
	}
	return lambda.NewFromConfig(*cfg), nil
}

// LambdaInvoke invokes the deployed ride function synchronously and
// captures the log tail of the invocation.
func LambdaInvoke(ctx context.Context, client *lambda.Client, name string, payload []byte) (*lambda.InvokeOutput, error) {
	if doDebug {
		d := &Debug{start: time.Now(), name: "LambdaInvoke"}
		defer d.Log()
	}
	out, err := client.Invoke(ctx, &lambda.InvokeInput{
		FunctionName:   aws.String(name),
		Payload:        payload,
		InvocationType: lambdatypes.InvocationTypeRequestResponse,
		LogType:        lambdatypes.LogTypeTail,
	})
	if err != nil {
		Logger.Println("error:", err)
		return nil, err
	}
	if out.FunctionError != nil {
		err := fmt.Errorf("function error: %s", *out.FunctionError)
		Logger.Println("error:", err)
		return out, err
	}
	return out, nil
}
