package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/user/taskmanager-go/config"
	"github.com/user/taskmanager-go/db"
	"github.com/user/taskmanager-go/tasks"
	"github.com/user/taskmanager-go/users"
)

// Stores bundles the repositories of one backend with its health check and cleanup.
type Stores struct {
	Users users.Repository
	Tasks tasks.Repository

	// Ping reports whether the backend is reachable. It backs /readyz.
	Ping func(ctx context.Context) error
	// Close releases connections. It is safe to call once.
	Close func(ctx context.Context) error
}

// MemoryStores returns process-local stores. Nothing survives a restart.
func MemoryStores() *Stores {
	return &Stores{
		Users: users.NewMemoryRepository(),
		Tasks: tasks.NewMemoryRepository(),
		Ping:  func(context.Context) error { return nil },
		Close: func(context.Context) error { return nil },
	}
}

// OpenStores connects to the backend named by the DATABASE_URI scheme.
func OpenStores(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*Stores, error) {
	backend, err := cfg.Backend()
	if err != nil {
		return nil, err
	}

	switch backend {
	case config.BackendPostgres:
		return openPostgres(ctx, cfg, logger)
	case config.BackendMongo:
		return openMongo(ctx, cfg, logger)
	case config.BackendMemory:
		logger.Warn("using in-memory store; data is lost on restart")
		return MemoryStores(), nil
	default:
		return nil, fmt.Errorf("unsupported backend %q", backend)
	}
}

func openPostgres(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*Stores, error) {
	if cfg.RunMigrations {
		if err := db.RunMigrations(cfg.URI); err != nil {
			return nil, err
		}
		logger.Info("database migrations applied")
	}

	pool, err := db.NewPostgresPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("connected to PostgreSQL", "max_conns", cfg.MaxConns)

	return &Stores{
		Users: users.NewPostgresRepository(pool),
		Tasks: tasks.NewPostgresRepository(pool),
		Ping:  pool.Ping,
		Close: closePool(pool),
	}, nil
}

func closePool(pool *pgxpool.Pool) func(context.Context) error {
	return func(context.Context) error {
		pool.Close()
		return nil
	}
}

func openMongo(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*Stores, error) {
	client, err := db.NewMongoClient(ctx, cfg)
	if err != nil {
		return nil, err
	}

	database := client.Database(cfg.Name)
	if err := db.EnsureMongoIndexes(ctx, database); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	logger.Info("connected to MongoDB", "database", cfg.Name)

	return &Stores{
		Users: users.NewMongoRepository(database.Collection(db.UsersCollection)),
		Tasks: tasks.NewMongoRepository(database.Collection(db.TasksCollection)),
		Ping:  mongoPing(client),
		Close: client.Disconnect,
	}, nil
}

func mongoPing(client *mongo.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		return client.Ping(ctx, readpref.Primary())
	}
}
