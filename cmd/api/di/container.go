package di

import (
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"

	"github.com/indianathe3rdKing/quicklog-api/cmd/api/infrastructure"
	"github.com/indianathe3rdKing/quicklog-api/internal/adapter/cache"
	dynamorepo "github.com/indianathe3rdKing/quicklog-api/internal/adapter/db/dynamo"
	ginhandler "github.com/indianathe3rdKing/quicklog-api/internal/adapter/gin/handler"
	"github.com/indianathe3rdKing/quicklog-api/internal/adapter/repository/cached"
	"github.com/indianathe3rdKing/quicklog-api/internal/config"
	"github.com/indianathe3rdKing/quicklog-api/internal/usecase/user"
	redisclient "github.com/indianathe3rdKing/quicklog-api/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	Dynamo      *dynamodb.Client
	RedisClient *redisclient.Client
	UserUC      user.Usecase
	Handler     *ginhandler.UserHandler
}

// NewContainer creates and initializes all application dependencies
func NewContainer(cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// Initialize the DynamoDB client
	ddb, err := infrastructure.NewDynamoDBClient(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize DynamoDB client: %w", err)
	}

	// Initialize the optional Redis cache
	var rdb *redisclient.Client
	var userCache cache.UserCache
	if cfg.Redis.Enabled {
		rdb, err = infrastructure.NewRedisClient(cfg, l)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}
		userCache = cache.NewRedisUserCache(
			rdb.Client,
			time.Duration(cfg.Redis.CacheTTL)*time.Second,
			l,
		)
	}

	// Initialize repository
	storeRepo := dynamorepo.NewUserRepoDDB(ddb, cfg.Store.TableName, l)
	repo := cached.NewCachedUserRepository(storeRepo, userCache, l)

	// Initialize use case
	userUC := user.New(repo, l)

	// Initialize HTTP handler
	handler := ginhandler.NewUserHandler(userUC, l)

	return &Container{
		Config:      cfg,
		Logger:      l,
		Dynamo:      ddb,
		RedisClient: rdb,
		UserUC:      userUC,
		Handler:     handler,
	}, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	// Close Redis connection
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	// The DynamoDB client holds no connections that need explicit teardown.

	if len(errs) > 0 {
		return fmt.Errorf("container close errors: %v", errs)
	}

	return nil
}
