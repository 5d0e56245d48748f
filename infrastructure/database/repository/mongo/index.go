package mongo

import (
	"context"
	"errors"
	"time"

	"campusgate.io/infrastructure/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const queryTimeout = 10 * time.Second

func (repo *MongoRepository[T]) CreateOne(ctx context.Context, payload T) (*T, error) {
	c, cancel := repo.queryContext(ctx)
	defer cancel()

	parsed := payload.ParseModel().(*T)
	_, err := repo.Model.InsertOne(c, parsed)
	if err != nil {
		logger.Error("an error occured while running CreateOne", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "collection",
			Data: repo.Model.Name(),
		})
		return nil, err
	}
	return parsed, nil
}

func (repo *MongoRepository[T]) FindByID(id string, opts ...FindOptions) (*T, error) {
	return repo.FindOneByFilter(map[string]interface{}{"_id": id}, opts...)
}

func (repo *MongoRepository[T]) FindOneByFilter(filter map[string]interface{}, opts ...FindOptions) (*T, error) {
	c, cancel := repo.queryContext(context.Background())
	defer cancel()

	var result T
	err := repo.Model.FindOne(c, filter, parseFindOneOpts(opts)...).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		logger.Error("an error occured while running FindOneByFilter", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "collection",
			Data: repo.Model.Name(),
		})
		return nil, err
	}
	return &result, nil
}

func (repo *MongoRepository[T]) FindMany(filter map[string]interface{}, opts ...FindOptions) (*[]T, error) {
	c, cancel := repo.queryContext(context.Background())
	defer cancel()

	cursor, err := repo.Model.Find(c, filter, parseFindOpts(opts)...)
	if err != nil {
		logger.Error("an error occured while running FindMany", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "collection",
			Data: repo.Model.Name(),
		})
		return nil, err
	}
	results := []T{}
	if err := cursor.All(c, &results); err != nil {
		logger.Error("an error occured while decoding FindMany results", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "collection",
			Data: repo.Model.Name(),
		})
		return nil, err
	}
	return &results, nil
}

func (repo *MongoRepository[T]) FindManyPaginated(filter map[string]interface{}, pageSize int64, lastID *string, sort interface{}) (*[]T, error) {
	if lastID != nil {
		filter["_id"] = map[string]interface{}{"$gt": *lastID}
	}
	findOpts := FindOptions{Sort: &sort}
	c, cancel := repo.queryContext(context.Background())
	defer cancel()

	cursor, err := repo.Model.Find(c, filter, parseFindOpts([]FindOptions{findOpts})[0].SetLimit(pageSize))
	if err != nil {
		logger.Error("an error occured while running FindManyPaginated", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "collection",
			Data: repo.Model.Name(),
		})
		return nil, err
	}
	results := []T{}
	if err := cursor.All(c, &results); err != nil {
		return nil, err
	}
	return &results, nil
}

func (repo *MongoRepository[T]) UpdatePartialByID(ctx context.Context, id string, payload interface{}) (int64, error) {
	c, cancel := repo.queryContext(ctx)
	defer cancel()

	result, err := repo.Model.UpdateOne(c, bson.M{"_id": id}, bson.M{
		"$set":         payload,
		"$currentDate": bson.M{"updatedAt": true},
	})
	if err != nil {
		logger.Error("an error occured while running UpdatePartialByID", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "collection",
			Data: repo.Model.Name(),
		})
		return 0, err
	}
	return result.ModifiedCount, nil
}

func (repo *MongoRepository[T]) UpdatePartialByFilter(ctx context.Context, filter map[string]interface{}, payload interface{}) (int64, error) {
	c, cancel := repo.queryContext(ctx)
	defer cancel()

	result, err := repo.Model.UpdateOne(c, filter, bson.M{
		"$set":         payload,
		"$currentDate": bson.M{"updatedAt": true},
	})
	if err != nil {
		logger.Error("an error occured while running UpdatePartialByFilter", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "collection",
			Data: repo.Model.Name(),
		})
		return 0, err
	}
	return result.ModifiedCount, nil
}

func (repo *MongoRepository[T]) CountDocs(filter map[string]interface{}) (int64, error) {
	c, cancel := repo.queryContext(context.Background())
	defer cancel()

	count, err := repo.Model.CountDocuments(c, filter)
	if err != nil {
		logger.Error("an error occured while running CountDocs", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "collection",
			Data: repo.Model.Name(),
		})
		return 0, err
	}
	return count, nil
}

func (repo *MongoRepository[T]) queryContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, queryTimeout)
}

func parseFindOneOpts(opts []FindOptions) []*options.FindOneOptions {
	parsed := []*options.FindOneOptions{}
	for _, opt := range opts {
		o := options.FindOne()
		if opt.Projection != nil {
			o.SetProjection(*opt.Projection)
		}
		if opt.Sort != nil {
			o.SetSort(*opt.Sort)
		}
		if opt.Skip != nil {
			o.SetSkip(*opt.Skip)
		}
		parsed = append(parsed, o)
	}
	return parsed
}

func parseFindOpts(opts []FindOptions) []*options.FindOptions {
	parsed := []*options.FindOptions{}
	for _, opt := range opts {
		o := options.Find()
		if opt.Projection != nil {
			o.SetProjection(*opt.Projection)
		}
		if opt.Sort != nil {
			o.SetSort(*opt.Sort)
		}
		if opt.Skip != nil {
			o.SetSkip(*opt.Skip)
		}
		parsed = append(parsed, o)
	}
	return parsed
}
