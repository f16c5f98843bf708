package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kpmroadlines/lr-console/internal/core/domain"
	"github.com/kpmroadlines/lr-console/internal/core/ports"
)

// Gateway is the MongoDB implementation of the generic collection CRUD
// surface. Store-level failures are mapped to domain sentinels here so the
// retry layer above can classify without knowing the driver.
type Gateway struct {
	db *mongo.Database
}

func NewGateway(db *mongo.Database) *Gateway {
	return &Gateway{db: db}
}

func (g *Gateway) Get(ctx context.Context, collection string, filter ports.Filter, page ports.Page) ([]ports.Record, int64, error) {
	coll := g.db.Collection(collection)

	f := bson.M(filter)
	if f == nil {
		f = bson.M{}
	}

	total, err := coll.CountDocuments(ctx, f)
	if err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", collection, err)
	}

	opts := options.Find()
	if page.Limit > 0 {
		opts.SetLimit(int64(page.Limit))
		if page.Page > 1 {
			opts.SetSkip(int64((page.Page - 1) * page.Limit))
		}
	}

	cur, err := coll.Find(ctx, f, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find %s: %w", collection, err)
	}
	defer cur.Close(ctx)

	var records []ports.Record
	for cur.Next(ctx) {
		var doc bson.M
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("decode %s: %w", collection, err)
		}
		records = append(records, ports.Record(doc))
	}
	if err := cur.Err(); err != nil {
		return nil, 0, fmt.Errorf("cursor %s: %w", collection, err)
	}

	return records, total, nil
}

func (g *Gateway) Post(ctx context.Context, collection string, rec ports.Record) (ports.Record, error) {
	if id, _ := rec["_id"].(string); id == "" {
		if rec == nil {
			rec = ports.Record{}
		}
		rec["_id"] = primitive.NewObjectID().Hex()
	}

	if _, err := g.db.Collection(collection).InsertOne(ctx, bson.M(rec)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateRecord
		}
		return nil, fmt.Errorf("insert %s: %w", collection, err)
	}
	return rec, nil
}

func (g *Gateway) Put(ctx context.Context, collection, id string, update ports.Record) (ports.Record, error) {
	coll := g.db.Collection(collection)

	res, err := coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M(update)})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateRecord
		}
		return nil, fmt.Errorf("update %s: %w", collection, err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrRecordNotFound
	}

	var doc bson.M
	if err := coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, fmt.Errorf("reload %s/%s: %w", collection, id, err)
	}
	return ports.Record(doc), nil
}

func (g *Gateway) Delete(ctx context.Context, collection, id string) (bool, error) {
	res, err := g.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return res.DeletedCount > 0, nil
}
