package users

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/user/taskmanager-go/apperror"
	"github.com/user/taskmanager-go/auth"
)

// userDocument is the shape of a user in the `users` collection.
type userDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d userDocument) toUser() *auth.User {
	return &auth.User{
		ID:             d.ID.Hex(),
		Name:           d.Name,
		Email:          d.Email,
		HashedPassword: d.Password,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

// MongoRepository stores users in a MongoDB collection. Email uniqueness is enforced
// by the unique index created in db.EnsureMongoIndexes.
type MongoRepository struct {
	coll *mongo.Collection
}

// NewMongoRepository creates a MongoRepository over the given collection.
func NewMongoRepository(coll *mongo.Collection) *MongoRepository {
	return &MongoRepository{coll: coll}
}

func (r *MongoRepository) Create(ctx context.Context, user *auth.User) (*auth.User, error) {
	doc := userDocument{
		ID:        primitive.NewObjectID(),
		Name:      user.Name,
		Email:     user.Email,
		Password:  user.HashedPassword,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperror.NewConflictError(MsgUserExists, err)
		}
		return nil, apperror.NewDatabaseError("failed to create user", err)
	}
	return doc.toUser(), nil
}

func (r *MongoRepository) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoRepository) FindByID(ctx context.Context, id string) (*auth.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// Not an ObjectID, so no document can have it.
		return nil, apperror.NewNotFoundError(msgNotFound, nil)
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MongoRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperror.NewNotFoundError(msgNotFound, nil)
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return apperror.NewDatabaseError("failed to delete user", err)
	}
	if res.DeletedCount == 0 {
		return apperror.NewNotFoundError(msgNotFound, nil)
	}
	return nil
}

func (r *MongoRepository) findOne(ctx context.Context, filter bson.M) (*auth.User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NewNotFoundError(msgNotFound, nil)
		}
		return nil, apperror.NewDatabaseError("failed to get user", err)
	}
	return doc.toUser(), nil
}
