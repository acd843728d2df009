package inkwell

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepository is a generic document repository. Mutating operations that
// need read-your-write semantics go through FindOneAndUpdate, which executes
// a single atomic update on the server instead of a read-modify-write cycle.
type MongoRepository[T Document] struct {
	collection *mongo.Collection
}

func NewMongoRepository[T Document](db *mongo.Database, collectionName ...string) *MongoRepository[T] {
	var doc T
	name := doc.GetCollectionName()
	if len(collectionName) > 0 && collectionName[0] != "" {
		name = collectionName[0]
	}
	return &MongoRepository[T]{
		collection: db.Collection(name),
	}
}

func (r *MongoRepository[T]) FindById(id string) (T, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var result T
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&result)
	if err != nil {
		return result, err
	}
	return result, nil
}

func (r *MongoRepository[T]) Save(doc T) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := r.collection.InsertOne(ctx, doc)
	return err
}

func (r *MongoRepository[T]) SaveAll(docs []T) error {
	if len(docs) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	var operations []mongo.WriteModel
	for _, doc := range docs {
		operation := mongo.NewReplaceOneModel().SetFilter(bson.M{"_id": getDocumentID(doc)}).SetReplacement(doc).SetUpsert(true)
		operations = append(operations, operation)
	}
	_, err := r.collection.BulkWrite(ctx, operations)
	return err
}

func (r *MongoRepository[T]) SaveOrUpdate(doc T) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": getDocumentID(doc)}, doc, options.Replace().SetUpsert(true))
	return err
}

func (r *MongoRepository[T]) Delete(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *MongoRepository[T]) DeleteByFilters(filters map[string]interface{}) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := r.collection.DeleteMany(ctx, bson.M(filters))
	return err
}

// Find resolves a Query: AND-combined filters, skip/limit pagination and an
// optional sort. A zero Limit means no limit.
func (r *MongoRepository[T]) Find(query Query) ([]T, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filters := query.Filters
	if filters == nil {
		filters = map[string]interface{}{}
	}

	opts := options.Find()
	if query.StartIndex > 0 {
		opts.SetSkip(int64(query.StartIndex))
	}
	if query.Limit > 0 {
		opts.SetLimit(int64(query.Limit))
	}
	if query.Sort.Field != "" {
		direction := 1
		if query.Sort.Direction < 0 {
			direction = -1
		}
		opts.SetSort(bson.D{{Key: query.Sort.Field, Value: direction}})
	}

	cursor, err := r.collection.Find(ctx, bson.M(filters), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	results := []T{}
	if err = cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *MongoRepository[T]) Count(filters map[string]interface{}) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if filters == nil {
		filters = map[string]interface{}{}
	}
	return r.collection.CountDocuments(ctx, bson.M(filters))
}

// FindOneAndUpdate applies update to the first document matching filters and
// returns the post-update document. Returns mongo.ErrNoDocuments when
// nothing matched, which callers use both for missing documents and for
// failed conditional updates.
func (r *MongoRepository[T]) FindOneAndUpdate(filters map[string]interface{}, update interface{}) (T, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var result T
	err := r.collection.FindOneAndUpdate(ctx, bson.M(filters), update, opts).Decode(&result)
	if err != nil {
		return result, err
	}
	return result, nil
}

func (r *MongoRepository[T]) Query() *mongo.Collection {
	return r.collection
}
