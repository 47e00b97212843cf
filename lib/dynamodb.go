package lib

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/avast/retry-go"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/r3labs/diff/v2"
)

var dynamoDBClient *dynamodb.Client
var dynamoDBClientLock sync.Mutex

func DynamoDBClient() *dynamodb.Client {
	dynamoDBClientLock.Lock()
	defer dynamoDBClientLock.Unlock()
	if dynamoDBClient == nil {
		dynamoDBClient = dynamodb.NewFromConfig(*Session())
	}
	return dynamoDBClient
}

// DynamoDBClientExplicit targets an explicit endpoint with static
// credentials, for DynamoDB Local.
func DynamoDBClientExplicit(endpoint, region string) *dynamodb.Client {
	return dynamodb.NewFromConfig(*SessionExplicit("local", "local", region), func(o *dynamodb.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})
}

// DynamoDBClientSet overrides the lazy default client. Call before
// serving requests.
func DynamoDBClientSet(client *dynamodb.Client) {
	dynamoDBClientLock.Lock()
	defer dynamoDBClientLock.Unlock()
	dynamoDBClient = client
}

// RidesTable is RIDES_TABLE or "Rides", the partition key is always
// RideId.
func RidesTable() string {
	table := os.Getenv("RIDES_TABLE")
	if table == "" {
		table = "Rides"
	}
	return table
}

const ridesHashKey = "RideId"

// DynamoDBRides is the production RideStore. The zero value uses the
// default client and RidesTable().
type DynamoDBRides struct {
	Table  string
	Client *dynamodb.Client
}

func (d DynamoDBRides) PutRide(ctx context.Context, ride Ride) error {
	if doDebug {
		dbg := &Debug{start: time.Now(), name: "PutRide"}
		defer dbg.Log()
	}
	item, err := attributevalue.MarshalMap(ride)
	if err != nil {
		Logger.Println("error:", err)
		return err
	}
	table := d.Table
	if table == "" {
		table = RidesTable()
	}
	client := d.Client
	if client == nil {
		client = DynamoDBClient()
	}
	_, err = client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(table),
		Item:      item,
	})
	if err != nil {
		Logger.Println("error:", err)
		return err
	}
	return nil
}

// RidesTableInput is the full provisioning input for the rides table:
// a single string hash key, on-demand billing.
func RidesTableInput(name string) *dynamodb.CreateTableInput {
	return &dynamodb.CreateTableInput{
		TableName:   aws.String(name),
		BillingMode: ddbtypes.BillingModePayPerRequest,
		KeySchema: []ddbtypes.KeySchemaElement{
			{AttributeName: aws.String(ridesHashKey), KeyType: ddbtypes.KeyTypeHash},
		},
		AttributeDefinitions: []ddbtypes.AttributeDefinition{
			{AttributeName: aws.String(ridesHashKey), AttributeType: ddbtypes.ScalarAttributeTypeS},
		},
	}
}

type tableSchema struct {
	HashKey     string
	HashKeyType string
}

func schemaOfInput(input *dynamodb.CreateTableInput) tableSchema {
	return tableSchema{
		HashKey:     *input.KeySchema[0].AttributeName,
		HashKeyType: string(input.AttributeDefinitions[0].AttributeType),
	}
}

func schemaOfTable(table *ddbtypes.TableDescription) tableSchema {
	schema := tableSchema{}
	attrs := make(map[string]string)
	for _, attr := range table.AttributeDefinitions {
		attrs[*attr.AttributeName] = string(attr.AttributeType)
	}
	for _, key := range table.KeySchema {
		if key.KeyType == ddbtypes.KeyTypeHash {
			schema.HashKey = *key.AttributeName
			schema.HashKeyType = attrs[*key.AttributeName]
		}
	}
	return schema
}

// RidesTableEnsure creates the rides table if it does not exist and
// waits for it to go ACTIVE. A pre-existing table is fine as long as
// its key schema matches, otherwise every drifted field is logged and
// an error returned.
func RidesTableEnsure(ctx context.Context, client *dynamodb.Client, name string) error {
	input := RidesTableInput(name)
	_, err := client.CreateTable(ctx, input)
	if err != nil {
		var aerr smithy.APIError
		if !errors.As(err, &aerr) || aerr.ErrorCode() != "ResourceInUseException" {
			Logger.Println("error:", err)
			return err
		}
		out, err := client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(name)})
		if err != nil {
			Logger.Println("error:", err)
			return err
		}
		changelog, err := diff.Diff(schemaOfInput(input), schemaOfTable(out.Table))
		if err != nil {
			Logger.Println("error:", err)
			return err
		}
		if len(changelog) != 0 {
			for _, change := range changelog {
				Logger.Println("drift:", name, change.Path, fmt.Sprint(change.From), "=>", fmt.Sprint(change.To))
			}
			err := fmt.Errorf("table %s exists with a different schema", name)
			Logger.Println("error:", err)
			return err
		}
	}
	err = retry.Do(
		func() error {
			out, err := client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(name)})
			if err != nil {
				return err
			}
			if out.Table.TableStatus != ddbtypes.TableStatusActive {
				return fmt.Errorf("table %s not active yet: %s", name, out.Table.TableStatus)
			}
			return nil
		},
		retry.Attempts(30),
		retry.Delay(2*time.Second),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		Logger.Println("error:", err)
		return err
	}
	return nil
}

func RidesTableDescribe(ctx context.Context, client *dynamodb.Client, name string) (*ddbtypes.TableDescription, error) {
	if doDebug {
		dbg := &Debug{start: time.Now(), name: "RidesTableDescribe"}
		defer dbg.Log()
	}
	out, err := client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(name)})
	if err != nil {
		Logger.Println("error:", err)
		return nil, err
	}
	return out.Table, nil
}

// RidesTableRm drops the table. Deleting a table that is already gone
// is not an error.
func RidesTableRm(ctx context.Context, client *dynamodb.Client, name string) error {
	_, err := client.DeleteTable(ctx, &dynamodb.DeleteTableInput{TableName: aws.String(name)})
	if err != nil {
		var aerr smithy.APIError
		if errors.As(err, &aerr) && aerr.ErrorCode() == "ResourceNotFoundException" {
			return nil
		}
		Logger.Println("error:", err)
		return err
	}
	return nil
}
