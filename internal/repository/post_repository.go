package repository

import (
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/inkwell-io/inkwell"
	"github.com/inkwell-io/inkwell/internal/model"
	"go.mongodb.org/mongo-driver/mongo"
)

// SearchCriteria is the filter set of the post listing. Zero values mean
// "no filter"; all present filters are AND-combined, except the search term
// which matches title OR content.
type SearchCriteria struct {
	AuthorID   string
	Category   string
	Slug       string
	PostID     string
	SearchTerm string
	StartIndex int
	Limit      int
	Ascending  bool
}

type PostRepository struct {
	*inkwell.MongoRepository[model.Post]
}

func NewPostRepository(database *mongo.Database) *PostRepository {
	return &PostRepository{
		MongoRepository: inkwell.NewMongoRepository[model.Post](database, "posts"),
	}
}

func (r *PostRepository) buildFilters(criteria SearchCriteria) map[string]interface{} {
	filters := map[string]interface{}{}
	if criteria.AuthorID != "" {
		filters["author_id"] = criteria.AuthorID
	}
	if criteria.Category != "" {
		filters["category"] = criteria.Category
	}
	if criteria.Slug != "" {
		filters["slug"] = criteria.Slug
	}
	if criteria.PostID != "" {
		filters["_id"] = criteria.PostID
	}
	if criteria.SearchTerm != "" {
		// Quoted so the term is a literal substring match, never a
		// user-supplied regex.
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(criteria.SearchTerm), Options: "i"}
		filters["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"content": pattern},
		}
	}
	return filters
}

// Search returns the posts matching criteria, ordered by updated_at.
func (r *PostRepository) Search(criteria SearchCriteria) ([]model.Post, error) {
	direction := -1
	if criteria.Ascending {
		direction = 1
	}
	return r.Find(inkwell.Query{
		Filters:    r.buildFilters(criteria),
		StartIndex: criteria.StartIndex,
		Limit:      criteria.Limit,
		Sort:       inkwell.SortField{Field: "updated_at", Direction: direction},
	})
}

func (r *PostRepository) CountAll() (int64, error) {
	return r.Count(nil)
}

func (r *PostRepository) CountCreatedSince(since time.Time) (int64, error) {
	return r.Count(map[string]interface{}{
		"created_at": bson.M{"$gte": since},
	})
}

// ToggleLike flips the user's membership in the post's likes set and clears
// any dislike by the same user, in a single atomic pipeline update. Returns
// mongo.ErrNoDocuments when the post does not exist.
func (r *PostRepository) ToggleLike(postID, userID string) (model.Post, error) {
	return r.FindOneAndUpdate(
		map[string]interface{}{"_id": postID},
		togglePipeline("likes", "dislikes", userID),
	)
}

// ToggleDislike is the mirror of ToggleLike: flips dislike membership and
// clears any like by the same user.
func (r *PostRepository) ToggleDislike(postID, userID string) (model.Post, error) {
	return r.FindOneAndUpdate(
		map[string]interface{}{"_id": postID},
		togglePipeline("dislikes", "likes", userID),
	)
}

// togglePipeline builds an aggregation-pipeline update that adds userID to
// the target set if absent (removing it from the opposite set) or removes it
// if present. Running the whole decision server-side is what keeps
// concurrent toggles from losing updates.
func togglePipeline(target, opposite, userID string) bson.A {
	return bson.A{
		bson.M{"$set": bson.M{
			target: bson.M{"$cond": bson.A{
				bson.M{"$in": bson.A{userID, "$" + target}},
				bson.M{"$setDifference": bson.A{"$" + target, bson.A{userID}}},
				bson.M{"$concatArrays": bson.A{"$" + target, bson.A{userID}}},
			}},
			opposite: bson.M{"$setDifference": bson.A{"$" + opposite, bson.A{userID}}},
		}},
	}
}
