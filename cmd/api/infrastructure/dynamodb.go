package infrastructure

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"

	"github.com/indianathe3rdKing/quicklog-api/internal/config"
)

// NewDynamoDBClient constructs the DynamoDB client once at process start.
// Static credentials and a custom endpoint are only used for local
// development against dynamodb-local; in AWS the default chain applies.
func NewDynamoDBClient(cfg *config.Config, l *zap.Logger) (*dynamodb.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Store.Region),
	}
	if cfg.Store.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				cfg.Store.AccessKeyID,
				cfg.Store.SecretAccessKey,
				"",
			)))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Store.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Store.Endpoint)
		}
	})

	l.Info("DynamoDB client configured",
		zap.String("table", cfg.Store.TableName),
		zap.String("region", cfg.Store.Region),
	)

	return client, nil
}
