// Package db provides connectivity for the stores behind the task manager.
// It creates the PostgreSQL connection pool, runs the embedded schema migrations,
// and connects to MongoDB (the document-database backend) and ensures its indexes.
// This package centralizes database concerns, similar to how a database module
// (e.g., MongooseModule or TypeORMModule) is configured in Nest.js.
package db

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-migrate/migrate/v4"
	// Registers the "postgres" database driver for golang-migrate. It talks to the
	// database through `lib/pq` and `database/sql`, not pgx.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/user/taskmanager-go/apperror"
	"github.com/user/taskmanager-go/config"
)

// Collection names used by the MongoDB backend.
const (
	UsersCollection = "users"
	TasksCollection = "tasks"
)

const (
	connectTimeout = 10 * time.Second
	pingTimeout    = 5 * time.Second
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// NewPostgresPool creates a pgxpool connection pool from the DATABASE_URI and verifies
// it with a ping.
func NewPostgresPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	// `pgxpool.ParseConfig` parses the DSN string into a `pgxpool.Config` struct.
	poolConfig, err := pgxpool.ParseConfig(cfg.URI)
	if err != nil {
		return nil, apperror.NewDatabaseError("error parsing DATABASE_URI", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MaxConnIdleTime = 10 * time.Minute
	poolConfig.MaxConnLifetime = 30 * time.Minute

	// Use a context with a timeout so an unreachable database doesn't block startup forever.
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, apperror.NewDatabaseError("error creating pgxpool", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, pingTimeout)
	defer pingCancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close() // Clean up on connection failure
		return nil, apperror.NewDatabaseError("error connecting to the database with pgxpool", err)
	}

	return pool, nil
}

// RunMigrations applies any pending migrations embedded under migrations/.
// Files follow golang-migrate's `{version}_{description}.{up|down}.sql` naming.
func RunMigrations(databaseURI string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return apperror.NewMigrationError("failed to open embedded migrations", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURI)
	if err != nil {
		return apperror.NewMigrationError("failed to create migrator", err)
	}
	// m.Close() returns two errors, one for the source and one for the database.
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			slog.Warn("error closing migrator", "source_error", srcErr, "database_error", dbErr)
		}
	}()

	// `migrate.ErrNoChange` just means the schema is already current.
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return apperror.NewMigrationError("failed to run migrations", err)
	}

	return nil
}

// NewMongoClient connects to MongoDB and verifies the connection with a ping.
func NewMongoClient(ctx context.Context, cfg config.DatabaseConfig) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(uint64(cfg.MaxConns)).
		SetConnectTimeout(connectTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, apperror.NewDatabaseError("error connecting to MongoDB", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, apperror.NewDatabaseError("error pinging MongoDB", err)
	}

	return client, nil
}

// EnsureMongoIndexes creates the indexes the document backend relies on: the unique
// email index that enforces one account per address, and the owner/completion index
// behind the per-user listings. CreateMany is idempotent for identical specs.
func EnsureMongoIndexes(ctx context.Context, database *mongo.Database) error {
	_, err := database.Collection(UsersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	if err != nil {
		return apperror.NewDatabaseError(fmt.Sprintf("failed to create index on %s", UsersCollection), err)
	}

	_, err = database.Collection(TasksCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "completed", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: 1}}},
	})
	if err != nil {
		return apperror.NewDatabaseError(fmt.Sprintf("failed to create indexes on %s", TasksCollection), err)
	}
	return nil
}
