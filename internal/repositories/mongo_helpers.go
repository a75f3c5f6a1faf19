package repositories

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LikeStore flips like-set membership on a single document.
type LikeStore interface {
	ExistenceStore
	// ToggleLike adds actorID to the like set when absent and removes it when
	// present, as one atomic document update. It returns the resulting
	// membership and set size, or ErrNotFound when the document is gone.
	ToggleLike(ctx context.Context, id, actorID string) (liked bool, count int, err error)
}

func existsByID(ctx context.Context, coll *mongo.Collection, id string) (bool, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	n, err := coll.CountDocuments(ctx, bson.M{"_id": objID}, options.Count().SetLimit(1))
	if err != nil {
		return false, errors.Wrapf(err, "check %s existence", coll.Name())
	}
	return n > 0, nil
}

// toggleLike runs the add-or-remove as a single pipeline update so two
// concurrent toggles are serialized by the server's document lock.
func toggleLike(ctx context.Context, coll *mongo.Collection, id, actorID string) (bool, int, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, 0, ErrInvalidID
	}

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"likes": 1})

	var doc struct {
		Likes []string `bson:"likes"`
	}
	err = coll.FindOneAndUpdate(ctx, bson.M{"_id": objID}, likeToggleUpdate(actorID), opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, 0, ErrNotFound
		}
		return false, 0, errors.Wrapf(err, "toggle like on %s", coll.Name())
	}
	return containsString(doc.Likes, actorID), len(doc.Likes), nil
}

// likeToggleUpdate is a single $set stage: the server evaluates membership
// and rewrites the like set in the same document update.
func likeToggleUpdate(actorID string) mongo.Pipeline {
	likes := bson.M{"$ifNull": bson.A{"$likes", bson.A{}}}
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.D{{Key: "likes", Value: bson.M{
			"$cond": bson.M{
				"if": bson.M{"$in": bson.A{actorID, likes}},
				"then": bson.M{"$filter": bson.M{
					"input": likes,
					"cond":  bson.M{"$ne": bson.A{"$$this", actorID}},
				}},
				"else": bson.M{"$concatArrays": bson.A{likes, bson.A{actorID}}},
			},
		}}}}},
	}
}

func containsString(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
