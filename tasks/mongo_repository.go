package tasks

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/user/taskmanager-go/apperror"
)

// taskDocument is the shape of a task in the `tasks` collection. The owner is stored as
// an ObjectID reference to the users collection.
type taskDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description,omitempty"`
	Completed   bool               `bson:"completed"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UserID      primitive.ObjectID `bson:"userId,omitempty"`
}

func (d taskDocument) toTask() Task {
	t := Task{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Completed:   d.Completed,
		CreatedAt:   d.CreatedAt,
	}
	if !d.UserID.IsZero() {
		t.OwnerID = d.UserID.Hex()
	}
	return t
}

// MongoRepository stores tasks in a MongoDB collection.
type MongoRepository struct {
	coll *mongo.Collection
}

// NewMongoRepository creates a MongoRepository over the given collection.
func NewMongoRepository(coll *mongo.Collection) *MongoRepository {
	return &MongoRepository{coll: coll}
}

func (r *MongoRepository) Create(ctx context.Context, task *Task) (*Task, error) {
	doc := taskDocument{
		ID:          primitive.NewObjectID(),
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		CreatedAt:   task.CreatedAt,
	}
	if task.OwnerID != "" {
		owner, err := primitive.ObjectIDFromHex(task.OwnerID)
		if err != nil {
			return nil, apperror.NewBadRequestError("invalid owner id", err)
		}
		doc.UserID = owner
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, apperror.NewDatabaseError("failed to create task", err)
	}
	created := doc.toTask()
	return &created, nil
}

func (r *MongoRepository) FindByID(ctx context.Context, id string) (*Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, notFound()
	}
	var doc taskDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, mapMongoErr(err, "failed to get task")
	}
	t := doc.toTask()
	return &t, nil
}

// Update applies the patch with one FindOneAndUpdate filtered on both _id and userId,
// returning the document as it is after the update.
func (r *MongoRepository) Update(ctx context.Context, id, ownerID string, patch Patch) (*Task, error) {
	filter, ok := ownedFilter(id, ownerID)
	if !ok {
		return nil, notFound()
	}

	set := bson.M{}
	unset := bson.M{}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Description != nil {
		if *patch.Description == "" {
			unset["description"] = ""
		} else {
			set["description"] = *patch.Description
		}
	}
	if patch.Completed != nil {
		set["completed"] = *patch.Completed
	}

	update := bson.M{}
	if len(set) > 0 {
		update["$set"] = set
	}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	if len(update) == 0 {
		var doc taskDocument
		if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
			return nil, mapMongoErr(err, "failed to update task")
		}
		t := doc.toTask()
		return &t, nil
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc taskDocument
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		return nil, mapMongoErr(err, "failed to update task")
	}
	t := doc.toTask()
	return &t, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id, ownerID string) (*Task, error) {
	filter, ok := ownedFilter(id, ownerID)
	if !ok {
		return nil, notFound()
	}
	var doc taskDocument
	if err := r.coll.FindOneAndDelete(ctx, filter).Decode(&doc); err != nil {
		return nil, mapMongoErr(err, "failed to delete task")
	}
	t := doc.toTask()
	return &t, nil
}

func (r *MongoRepository) List(ctx context.Context, filter ListFilter) ([]Task, error) {
	query := bson.M{}
	if filter.OwnerID != "" {
		owner, err := primitive.ObjectIDFromHex(filter.OwnerID)
		if err != nil {
			// No task can be owned by something that isn't an ObjectID.
			return []Task{}, nil
		}
		query["userId"] = owner
	}
	if filter.Completed != nil {
		query["completed"] = *filter.Completed
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	if filter.Skip > 0 {
		opts.SetSkip(int64(filter.Skip))
	}
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list tasks", err)
	}
	var docs []taskDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, apperror.NewDatabaseError("failed to list tasks", err)
	}

	tasks := make([]Task, 0, len(docs))
	for _, d := range docs {
		tasks = append(tasks, d.toTask())
	}
	return tasks, nil
}

func (r *MongoRepository) DeleteByOwner(ctx context.Context, ownerID string) (int64, error) {
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return 0, nil
	}
	res, err := r.coll.DeleteMany(ctx, bson.M{"userId": owner})
	if err != nil {
		return 0, apperror.NewDatabaseError("failed to delete tasks", err)
	}
	return res.DeletedCount, nil
}

// ownedFilter matches a task by id and owner. It reports false when either id is not an
// ObjectID, in which case nothing can match.
func ownedFilter(id, ownerID string) (bson.M, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, false
	}
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, false
	}
	return bson.M{"_id": oid, "userId": owner}, true
}

func mapMongoErr(err error, message string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return notFound()
	}
	return apperror.NewDatabaseError(message, err)
}
