package users

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/user/taskmanager-go/apperror"
	"github.com/user/taskmanager-go/auth"
	"github.com/user/taskmanager-go/config"
	"github.com/user/taskmanager-go/db"
)

// runRepositoryContract checks the behaviour every backend must share.
func runRepositoryContract(t *testing.T, repo Repository) {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	created, err := repo.Create(ctx, &auth.User{
		Name:           "Jane",
		Email:          "jane@x.com",
		HashedPassword: "hash",
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	byEmail, err := repo.FindByEmail(ctx, "jane@x.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)
	assert.Equal(t, "hash", byEmail.HashedPassword)

	byID, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane", byID.Name)

	_, err = repo.Create(ctx, &auth.User{Name: "Other", Email: "jane@x.com", HashedPassword: "h", CreatedAt: now, UpdatedAt: now})
	assert.True(t, apperror.IsConflictError(err))

	_, err = repo.FindByEmail(ctx, "nobody@x.com")
	assert.True(t, apperror.IsNotFound(err))
	_, err = repo.FindByID(ctx, "not-an-id")
	assert.True(t, apperror.IsNotFound(err))

	require.NoError(t, repo.Delete(ctx, created.ID))
	_, err = repo.FindByID(ctx, created.ID)
	assert.True(t, apperror.IsNotFound(err))
	assert.True(t, apperror.IsNotFound(repo.Delete(ctx, created.ID)))
}

func TestRepositoryContract_Memory(t *testing.T) {
	t.Parallel()
	runRepositoryContract(t, NewMemoryRepository())
}

func TestRepositoryContract_Postgres(t *testing.T) {
	uri := os.Getenv("TEST_POSTGRES_URI")
	if uri == "" {
		t.Skip("TEST_POSTGRES_URI not set")
	}
	ctx := context.Background()

	require.NoError(t, db.RunMigrations(uri))
	pool, err := db.NewPostgresPool(ctx, config.DatabaseConfig{URI: uri, MaxConns: 4})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	// Scope the rows to this run so it can share a database with the tasks tests.
	_, err = pool.Exec(ctx, `DELETE FROM users WHERE email = 'jane@x.com'`)
	require.NoError(t, err)

	runRepositoryContract(t, NewPostgresRepository(pool))
}

func TestRepositoryContract_Mongo(t *testing.T) {
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set")
	}
	ctx := context.Background()

	client, err := db.NewMongoClient(ctx, config.DatabaseConfig{URI: uri, MaxConns: 4})
	require.NoError(t, err)
	database := client.Database("users_test_" + primitive.NewObjectID().Hex())
	t.Cleanup(func() {
		_ = database.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})
	require.NoError(t, db.EnsureMongoIndexes(ctx, database))

	runRepositoryContract(t, NewMongoRepository(database.Collection(db.UsersCollection)))
}
