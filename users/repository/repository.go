package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/wardbook/records/store"
	"github.com/wardbook/records/users"
)

var withoutPassword = bson.M{"password": 0}

func NewRepository(connector *store.Connector, logger *zap.SugaredLogger) (users.Repository, error) {
	repo := &Repository{
		connector: connector,
		logger:    logger,
	}
	connector.RegisterInitializer(repo.Initialize)

	return repo, nil
}

type Repository struct {
	connector *store.Connector
	logger    *zap.SugaredLogger
}

func (r *Repository) Initialize(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(users.CollectionName).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "username", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetName("UniqueUsername"),
		},
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "createdTime", Value: -1},
			},
			Options: options.Index().
				SetName("UsersByStatus"),
		},
	})
	return err
}

func (r *Repository) Get(ctx context.Context, id string) (*users.User, error) {
	selector, err := idSelector(id)
	if err != nil {
		return nil, err
	}
	return r.getOne(ctx, selector)
}

func (r *Repository) GetByUsername(ctx context.Context, username string) (*users.User, error) {
	return r.getOne(ctx, bson.M{"username": username})
}

func (r *Repository) Create(ctx context.Context, user *users.User) (*users.User, error) {
	collection, err := r.connector.Collection(ctx, users.CollectionName)
	if err != nil {
		return nil, err
	}

	count, err := collection.CountDocuments(ctx, bson.M{"username": user.Username})
	if err != nil {
		return nil, fmt.Errorf("error checking for duplicate users: %w", err)
	} else if count > 0 {
		return nil, users.ErrDuplicate
	}

	now := time.Now()
	user.Id = nil
	user.CreatedTime = now
	user.UpdatedTime = now
	res, err := collection.InsertOne(ctx, user)
	if store.IsDuplicateKeyError(err) {
		return nil, users.ErrDuplicate
	} else if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return r.getOne(ctx, bson.M{"_id": res.InsertedID.(primitive.ObjectID)})
}

func (r *Repository) List(ctx context.Context, filter *users.Filter, pagination store.Pagination) (*users.ListResult, error) {
	collection, err := r.connector.Collection(ctx, users.CollectionName)
	if err != nil {
		return nil, err
	}

	selector := bson.M{}
	if filter != nil && filter.Status != nil && *filter.Status != "" && *filter.Status != users.StatusAll {
		selector["status"] = *filter.Status
	}

	total, err := collection.CountDocuments(ctx, selector)
	if err != nil {
		return nil, fmt.Errorf("error counting users: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdTime", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(pagination.Offset)).
		SetLimit(int64(pagination.Limit)).
		SetProjection(withoutPassword)

	cursor, err := collection.Find(ctx, selector, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}

	list := make([]*users.User, 0, min(int64(pagination.Limit), total))
	if err = cursor.All(ctx, &list); err != nil {
		return nil, fmt.Errorf("error decoding users list: %w", err)
	}

	return &users.ListResult{
		Users:      list,
		Pagination: store.NewPageInfo(pagination, total),
	}, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id string, status string) (*users.User, error) {
	selector, err := idSelector(id)
	if err != nil {
		return nil, err
	}
	collection, err := r.connector.Collection(ctx, users.CollectionName)
	if err != nil {
		return nil, err
	}

	update := bson.M{
		"$set": bson.M{
			"status":      status,
			"updatedTime": time.Now(),
		},
	}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(withoutPassword)

	user := &users.User{}
	err = collection.FindOneAndUpdate(ctx, selector, update, opts).Decode(user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, users.ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("unable to update user status: %w", err)
	}

	return user, nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	selector, err := idSelector(id)
	if err != nil {
		return err
	}
	collection, err := r.connector.Collection(ctx, users.CollectionName)
	if err != nil {
		return err
	}

	res, err := collection.DeleteOne(ctx, selector)
	if err != nil {
		return fmt.Errorf("unable to delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return users.ErrNotFound
	}

	return nil
}

func (r *Repository) getOne(ctx context.Context, selector bson.M) (*users.User, error) {
	collection, err := r.connector.Collection(ctx, users.CollectionName)
	if err != nil {
		return nil, err
	}

	user := &users.User{}
	err = collection.FindOne(ctx, selector).Decode(user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, users.ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("unable to fetch user: %w", err)
	}

	return user, nil
}

// Ids that are not valid object ids cannot match any record
func idSelector(id string) (bson.M, error) {
	objId, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, users.ErrNotFound
	}
	return bson.M{"_id": objId}, nil
}
