package dbclient

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	json "github.com/goccy/go-json"

	"github.com/chinazagideon/mock-generator/internal/domain"
	"github.com/chinazagideon/mock-generator/internal/etl"
	"github.com/chinazagideon/mock-generator/internal/record"
)

// dynamoConnector puts each record as one item into a DynamoDB table.
// The table must already exist with a key schema the records satisfy.
type dynamoConnector struct {
	client *dynamodb.Client
}

// dynamoExtras are the driver options read from SinkConnection.ExtraJSON.
type dynamoExtras struct {
	Endpoint string `json:"endpoint"` // e.g. http://localhost:8000 for DynamoDB Local
}

func newDynamoConnector(ctx context.Context, conn *domain.SinkConnection, secretKey string) (*dynamoConnector, error) {
	opts := []func(*config.LoadOptions) error{}
	if conn.Database != "" {
		opts = append(opts, config.WithRegion(conn.Database))
	}
	if conn.Username != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(conn.Username, secretKey, "")))
	}
	awsConfig, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	var extras dynamoExtras
	if conn.ExtraJSON != "" {
		if err := json.Unmarshal([]byte(conn.ExtraJSON), &extras); err != nil {
			return nil, fmt.Errorf("dynamodb options: %w", err)
		}
	}
	if extras.Endpoint == "" && conn.Host != "" {
		extras.Endpoint = conn.Host
	}

	client := dynamodb.NewFromConfig(awsConfig, func(o *dynamodb.Options) {
		if extras.Endpoint != "" {
			o.BaseEndpoint = aws.String(extras.Endpoint)
		}
	})
	return &dynamoConnector{client: client}, nil
}

func (d *dynamoConnector) TestConnection(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_, err := d.client.ListTables(ctx, &dynamodb.ListTablesInput{Limit: aws.Int32(1)})
	return err
}

// Write puts every record into table. DynamoDB has no cheap truncate, so
// replace mode is rejected instead of scanning and deleting.
func (d *dynamoConnector) Write(ctx context.Context, table string, ds record.Dataset, mode etl.WriteMode) (int, error) {
	if table == "" {
		return 0, fmt.Errorf("dynamodb sink: target table is required")
	}
	if mode == etl.WriteReplace {
		return 0, fmt.Errorf("dynamodb sink: replace mode is not supported, use append")
	}
	written := 0
	for i, rec := range ds {
		item, err := attributevalue.MarshalMap(rec.ToMap())
		if err != nil {
			return written, fmt.Errorf("marshal record %d: %w", i, err)
		}
		_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
			Item:      item,
			TableName: aws.String(table),
		})
		if err != nil {
			return written, fmt.Errorf("put record %d: %w", i, err)
		}
		written++
	}
	log.Printf("[DYNAMODB] Put %d items into %s", written, table)
	return written, nil
}

func (d *dynamoConnector) Introspect(ctx context.Context) (*SchemaInfo, error) {
	schema := &SchemaInfo{}
	p := dynamodb.NewListTablesPaginator(d.client, &dynamodb.ListTablesInput{})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list tables: %w", err)
		}
		for _, name := range page.TableNames {
			schema.Tables = append(schema.Tables, TableInfo{Name: name})
		}
	}
	return schema, nil
}

func (d *dynamoConnector) Close() error { return nil }
