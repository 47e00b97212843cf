package lib

import (
	"context"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	logstypes "github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
)

var logsClient *cloudwatchlogs.Client
var logsClientLock sync.Mutex

func LogsClient() *cloudwatchlogs.Client {
	logsClientLock.Lock()
	defer logsClientLock.Unlock()
	if logsClient == nil {
		logsClient = cloudwatchlogs.NewFromConfig(*Session())
	}
	return logsClient
}

// LogsClientRegion targets a region other than the default one.
func LogsClientRegion(region string) (*cloudwatchlogs.Client, error) {
	cfg, err := SessionRegion(region)
	if err != nil {
		Logger.Println("error:", err)
		return nil, err
	}
	return cloudwatchlogs.NewFromConfig(*cfg), nil
}

// LambdaLogGroup is where the managed runtime writes the function's
// stdout and stderr.
func LambdaLogGroup(functionName string) string {
	return "/aws/lambda/" + functionName
}

// LogsRecent fetches all log events for the function since the given
// time, oldest first.
func LogsRecent(ctx context.Context, client *cloudwatchlogs.Client, functionName string, since time.Time) ([]logstypes.FilteredLogEvent, error) {
	if doDebug {
		d := &Debug{start: time.Now(), name: "LogsRecent"}
		defer d.Log()
	}
	var token *string
	var events []logstypes.FilteredLogEvent
	for {
		out, err := client.FilterLogEvents(ctx, &cloudwatchlogs.FilterLogEventsInput{
			LogGroupName: aws.String(LambdaLogGroup(functionName)),
			StartTime:    aws.Int64(since.UnixMilli()),
			NextToken:    token,
		})
		if err != nil {
			Logger.Println("error:", err)
			return nil, err
		}
		events = append(events, out.Events...)
		if out.NextToken == nil {
			break
		}
		token = out.NextToken
	}
	return events, nil
}
