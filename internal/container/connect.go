package container

import (
	"context"
	"errors"
	"fmt"

	"github.com/oksasatya/employee-management-api/config"
	"github.com/oksasatya/employee-management-api/internal/infrastructure/memory"
	mongoinfra "github.com/oksasatya/employee-management-api/internal/infrastructure/mongodb"
	pginfra "github.com/oksasatya/employee-management-api/internal/infrastructure/postgres"
	"github.com/oksasatya/employee-management-api/internal/infrastructure/search"
	"github.com/oksasatya/employee-management-api/internal/infrastructure/storage"
	"github.com/oksasatya/employee-management-api/pkg/helpers"
)

// Connect opens every backend named by the config and fills the container.
// The returned cleanup closes them in reverse order; it is safe to call after an error.
func (c *Container) Connect(ctx context.Context) (func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	steps := []func(context.Context) (func(), error){
		c.connectStorage,
		c.connectImages,
		c.connectRedis,
		c.connectSearch,
		c.connectMail,
	}
	for _, step := range steps {
		closeFn, err := step(ctx)
		if closeFn != nil {
			closers = append(closers, closeFn)
		}
		if err != nil {
			return cleanup, err
		}
	}
	return cleanup, nil
}

func (c *Container) connectStorage(ctx context.Context) (func(), error) {
	cfg := c.Config
	switch cfg.StorageDriver {
	case config.StorageMongo:
		client, err := mongoinfra.Connect(ctx, cfg.MongoURI, cfg.MongoTimeout)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		closeFn := func() { _ = client.Disconnect(context.Background()) }
		db := client.Database(cfg.MongoDatabase)
		if err := mongoinfra.EnsureIndexes(ctx, db); err != nil {
			return closeFn, fmt.Errorf("mongo indexes: %w", err)
		}
		c.Users = mongoinfra.NewUserRepository(db)
		c.Employees = mongoinfra.NewEmployeeRepository(db)
		c.Health["mongo"] = func(ctx context.Context) bool { return client.Ping(ctx, nil) == nil }
		c.Logger.WithField("db", cfg.MongoDatabase).Info("using mongo storage")
		return closeFn, nil

	case config.StoragePostgres:
		pool, err := pginfra.NewPool(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, c.Logger); err != nil {
			return pool.Close, fmt.Errorf("migrate: %w", err)
		}
		c.Users = pginfra.NewUserRepository(pool)
		c.Employees = pginfra.NewEmployeeRepository(pool)
		c.Health["postgres"] = func(ctx context.Context) bool { return pool.Ping(ctx) == nil }
		c.Logger.Info("using postgres storage")
		return pool.Close, nil

	case config.StorageMemory:
		c.Users = memory.NewUserRepository()
		c.Employees = memory.NewEmployeeRepository()
		c.Logger.Warn("using in-memory storage; data is lost on restart")
		return nil, nil
	}
	return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
}

func (c *Container) connectImages(ctx context.Context) (func(), error) {
	cfg := c.Config
	switch cfg.ImageStore {
	case config.ImageStoreGCS:
		if cfg.GCSBucket == "" {
			return nil, errors.New("IMAGE_STORE=gcs requires GCS_BUCKET")
		}
		client, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			return nil, fmt.Errorf("gcs client: %w", err)
		}
		c.Images = storage.NewGCSStore(client, cfg.GCSBucket)
		return func() { _ = client.Close() }, nil

	case config.ImageStoreLocal:
		store, err := storage.NewLocalStore(cfg.UploadDir)
		if err != nil {
			return nil, fmt.Errorf("upload dir: %w", err)
		}
		c.Images = store
		return nil, nil
	}
	return nil, fmt.Errorf("unknown IMAGE_STORE %q", cfg.ImageStore)
}

// connectRedis never fails startup: the limiter fails open without Redis.
func (c *Container) connectRedis(ctx context.Context) (func(), error) {
	cfg := c.Config
	if !cfg.RateLimitEnabled || cfg.RedisAddr == "" {
		return nil, nil
	}
	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if !helpers.RedisHealthy(ctx, rdb) {
		c.Logger.WithField("addr", cfg.RedisAddr).Warn("redis unreachable; rate limiting fails open")
	}
	c.Redis = rdb
	c.Health["redis"] = func(ctx context.Context) bool { return helpers.RedisHealthy(ctx, rdb) }
	return func() { _ = rdb.Close() }, nil
}

func (c *Container) connectSearch(_ context.Context) (func(), error) {
	cfg := c.Config
	addrs := cfg.ESAddrs()
	if len(addrs) == 0 {
		return nil, nil
	}
	es, err := search.NewClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}
	c.Index = search.NewEmployeeIndex(es, cfg.ESEmployeesIndex)
	c.Logger.WithField("index", cfg.ESEmployeesIndex).Info("employee search enabled")
	return nil, nil
}

// connectMail is best effort as well: registration works without the queue.
func (c *Container) connectMail(_ context.Context) (func(), error) {
	cfg := c.Config
	if cfg.RabbitMQURL == "" {
		return nil, nil
	}
	pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
	if err != nil {
		c.Logger.WithError(err).Warn("rabbitmq unavailable; welcome emails disabled")
		return nil, nil
	}
	c.Mail = pub
	return pub.Close, nil
}

