package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"knowledgevault/internal/ai"
	"knowledgevault/internal/cache"
	"knowledgevault/internal/config"
	"knowledgevault/internal/ingest"
	"knowledgevault/internal/model"
	mysqlClient "knowledgevault/internal/platform/mysql"
	rabbitmqClient "knowledgevault/internal/platform/rabbitmq"
	redisClient "knowledgevault/internal/platform/redis"
	"knowledgevault/internal/repository"
	"knowledgevault/internal/teams"
	"knowledgevault/internal/vector"
	"knowledgevault/internal/worker"
)

// App holds the process-wide infrastructure: connections, clients, and the
// background classify worker. Repositories and services are built on top of
// it by the HTTP router.
type App struct {
	Config *config.Config
	MySQL  *gorm.DB
	Redis  *redis.Client
	MQConn *amqp.Connection

	LLMClient    *ai.Client
	VectorClient *vector.Client
	TeamsClient  *teams.Client
	QueryCache   *cache.QueryCache
	IngestSvc    *ingest.Service
	Publisher    *rabbitmqClient.ClassifyPublisher

	ClassifyWorker *worker.ClassifyWorker

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	mysqlDB, err := mysqlClient.New(ctx, cfg.MySQLDSN(), cfg.MySQL.MaxOpenConns, cfg.MySQL.MaxIdleConns)
	if err != nil {
		return nil, err
	}
	if err := mysqlDB.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Document{},
		&model.DocumentChunk{},
		&model.DocumentAccess{},
		&model.Favorite{},
		&model.Conversation{},
		&model.Message{},
		&model.SearchQuery{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate tables failed: %w", err)
	}

	redisCli, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.PoolSize)
	if err != nil {
		return nil, err
	}

	mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL, cfg.RabbitMQ.ClassifyQueue)
	if err != nil {
		return nil, err
	}

	llmClient := ai.NewClient(ai.Config{
		BaseURL:        cfg.LLM.BaseURL,
		APIKey:         cfg.LLM.APIKey,
		Model:          cfg.LLM.Model,
		EmbeddingModel: cfg.LLM.EmbeddingModel,
	})
	vectorClient := vector.NewClient(cfg.Vector.BaseURL, cfg.Vector.APIKey)
	teamsClient := teams.NewClient(cfg.Teams.BaseURL, cfg.Teams.APIKey)
	queryCache := cache.NewQueryCache(
		redisCli,
		time.Duration(cfg.Redis.QueryTTLSeconds)*time.Second,
		time.Duration(cfg.Redis.StatsTTLSeconds)*time.Second,
	)
	ingestSvc := ingest.NewService(cfg.Upload.Dir, cfg.Upload.MaxSizeBytes)
	publisher := rabbitmqClient.NewClassifyPublisher(mqConn, cfg.RabbitMQ.ClassifyQueue)

	classifyWorker := worker.NewClassifyWorker(
		mqConn,
		repository.NewDocumentRepository(mysqlDB),
		repository.NewCategoryRepository(mysqlDB),
		repository.NewDocumentChunkRepository(mysqlDB),
		llmClient,
		vectorClient,
		cfg.RabbitMQ.ClassifyQueue,
	)
	if err := classifyWorker.Start(ctx); err != nil {
		return nil, fmt.Errorf("start classify worker failed: %w", err)
	}

	return &App{
		Config:         cfg,
		MySQL:          mysqlDB,
		Redis:          redisCli,
		MQConn:         mqConn,
		LLMClient:      llmClient,
		VectorClient:   vectorClient,
		TeamsClient:    teamsClient,
		QueryCache:     queryCache,
		IngestSvc:      ingestSvc,
		Publisher:      publisher,
		ClassifyWorker: classifyWorker,
		StartedAt:      time.Now(),
	}, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.ClassifyWorker != nil {
		a.ClassifyWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MySQL != nil {
		sqlDB, err := a.MySQL.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
