package service

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/inkwell-io/inkwell"
	"github.com/inkwell-io/inkwell/internal/model"
	"github.com/inkwell-io/inkwell/internal/repository"
)

// PostStore is what the service needs from the storage layer; satisfied by
// repository.PostRepository.
type PostStore interface {
	Save(post model.Post) error
	FindOneAndUpdate(filters map[string]interface{}, update interface{}) (model.Post, error)
	Delete(id string) error
	Search(criteria repository.SearchCriteria) ([]model.Post, error)
	CountAll() (int64, error)
	CountCreatedSince(since time.Time) (int64, error)
	ToggleLike(postID, userID string) (model.Post, error)
	ToggleDislike(postID, userID string) (model.Post, error)
}

type CreatePostRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
	Image    string `json:"image"`
}

type UpdatePostRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
	Image    string `json:"image"`
}

// ListQuery mirrors the listing endpoint's query parameters. Limit zero
// falls back to the default page size of 9.
type ListQuery struct {
	AuthorID   string
	Category   string
	Slug       string
	PostID     string
	SearchTerm string
	StartIndex int
	Limit      int
	Order      string
}

// PostView is a post augmented with its reaction counts.
type PostView struct {
	model.Post
	TotalLikes    int `json:"totalLikes"`
	TotalDislikes int `json:"totalDislikes"`
}

// ListResult is one page of posts plus aggregates. TotalPosts is the global
// store count regardless of filters, LastMonthPosts counts posts created in
// the last calendar month, and TotalLikes/TotalDislikes are summed over the
// returned page only. These scopes are kept for compatibility with the
// original API.
type ListResult struct {
	Posts          []PostView `json:"posts"`
	TotalPosts     int64      `json:"totalPosts"`
	LastMonthPosts int64      `json:"lastMonthPosts"`
	TotalLikes     int        `json:"totalLikes"`
	TotalDislikes  int        `json:"totalDislikes"`
}

const (
	ActionLiked      = "liked"
	ActionUnliked    = "unliked"
	ActionDisliked   = "disliked"
	ActionUndisliked = "undisliked"
)

// ReactionResult reports the outcome of a toggle and the post's counts
// after it.
type ReactionResult struct {
	Action        string
	LikesCount    int
	DislikesCount int
}

const defaultPageSize = 9

var nonSlugChars = regexp.MustCompile(`[^a-zA-Z0-9-]`)

// Slugify derives a URL-safe identifier from a title: spaces to hyphens,
// lowercased, every other non-alphanumeric stripped. "Hello World!" becomes
// "hello-world". Uniqueness is not checked.
func Slugify(title string) string {
	slug := strings.Join(strings.Split(title, " "), "-")
	slug = strings.ToLower(slug)
	return nonSlugChars.ReplaceAllString(slug, "")
}

type PostService struct {
	store PostStore
}

func NewPostService(store PostStore) *PostService {
	return &PostService{store: store}
}

func (s *PostService) CreatePost(auth inkwell.AuthContext, request CreatePostRequest) (model.Post, error) {
	if !auth.IsAdmin() {
		return model.Post{}, inkwell.ErrForbidden.New("you are not allowed to create a post")
	}
	if request.Title == "" || request.Content == "" {
		return model.Post{}, inkwell.ErrInvalidInput.New("please provide all required fields")
	}

	category := request.Category
	if category == "" {
		category = model.DefaultCategory
	}
	image := request.Image
	if image == "" {
		image = model.DefaultImage
	}

	now := time.Now().UTC()
	post := model.Post{
		ID:        primitive.NewObjectID().Hex(),
		Title:     request.Title,
		Slug:      Slugify(request.Title),
		Content:   request.Content,
		Category:  category,
		Image:     image,
		AuthorID:  auth.UserID,
		Likes:     []string{},
		Dislikes:  []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.Save(post); err != nil {
		return model.Post{}, inkwell.ErrStoreFailure.New(err.Error())
	}
	return post, nil
}

func (s *PostService) ListPosts(query ListQuery) (ListResult, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	startIndex := query.StartIndex
	if startIndex < 0 {
		startIndex = 0
	}

	posts, err := s.store.Search(repository.SearchCriteria{
		AuthorID:   query.AuthorID,
		Category:   query.Category,
		Slug:       query.Slug,
		PostID:     query.PostID,
		SearchTerm: query.SearchTerm,
		StartIndex: startIndex,
		Limit:      limit,
		Ascending:  query.Order == "asc",
	})
	if err != nil {
		return ListResult{}, inkwell.ErrStoreFailure.New(err.Error())
	}

	totalPosts, err := s.store.CountAll()
	if err != nil {
		return ListResult{}, inkwell.ErrStoreFailure.New(err.Error())
	}

	oneMonthAgo := time.Now().UTC().AddDate(0, -1, 0)
	lastMonthPosts, err := s.store.CountCreatedSince(oneMonthAgo)
	if err != nil {
		return ListResult{}, inkwell.ErrStoreFailure.New(err.Error())
	}

	result := ListResult{
		Posts:          make([]PostView, 0, len(posts)),
		TotalPosts:     totalPosts,
		LastMonthPosts: lastMonthPosts,
	}
	for _, post := range posts {
		view := PostView{
			Post:          post,
			TotalLikes:    len(post.Likes),
			TotalDislikes: len(post.Dislikes),
		}
		result.Posts = append(result.Posts, view)
		result.TotalLikes += view.TotalLikes
		result.TotalDislikes += view.TotalDislikes
	}
	return result, nil
}

func (s *PostService) UpdatePost(auth inkwell.AuthContext, postID, userID string, request UpdatePostRequest) (model.Post, error) {
	if !auth.IsAdmin() || auth.UserID != userID {
		return model.Post{}, inkwell.ErrForbidden.New("you are not allowed to update this post")
	}

	fields := bson.M{"updated_at": time.Now().UTC()}
	if request.Title != "" {
		fields["title"] = request.Title
	}
	if request.Content != "" {
		fields["content"] = request.Content
	}
	if request.Category != "" {
		fields["category"] = request.Category
	}
	if request.Image != "" {
		fields["image"] = request.Image
	}

	post, err := s.store.FindOneAndUpdate(
		map[string]interface{}{"_id": postID},
		bson.M{"$set": fields},
	)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.Post{}, inkwell.ErrNotFound.New("post not found")
		}
		return model.Post{}, inkwell.ErrStoreFailure.New(err.Error())
	}
	return post, nil
}

func (s *PostService) DeletePost(auth inkwell.AuthContext, postID, userID string) error {
	if !auth.IsAdmin() || auth.UserID != userID {
		return inkwell.ErrForbidden.New("you are not allowed to delete this post")
	}
	if err := s.store.Delete(postID); err != nil {
		return inkwell.ErrStoreFailure.New(err.Error())
	}
	return nil
}

// ToggleLike flips the caller's like on a post. Liking also clears an
// existing dislike; the source system only cleared in the dislike direction,
// but the disjointness invariant on the reaction sets wins here.
func (s *PostService) ToggleLike(postID, userID string) (ReactionResult, error) {
	post, err := s.store.ToggleLike(postID, userID)
	if err != nil {
		return ReactionResult{}, toggleError(err)
	}

	action := ActionUnliked
	if contains(post.Likes, userID) {
		action = ActionLiked
	}
	return ReactionResult{
		Action:        action,
		LikesCount:    len(post.Likes),
		DislikesCount: len(post.Dislikes),
	}, nil
}

// ToggleDislike flips the caller's dislike, clearing any like by the same
// user in the same atomic update.
func (s *PostService) ToggleDislike(postID, userID string) (ReactionResult, error) {
	post, err := s.store.ToggleDislike(postID, userID)
	if err != nil {
		return ReactionResult{}, toggleError(err)
	}

	action := ActionUndisliked
	if contains(post.Dislikes, userID) {
		action = ActionDisliked
	}
	return ReactionResult{
		Action:        action,
		LikesCount:    len(post.Likes),
		DislikesCount: len(post.Dislikes),
	}, nil
}

func toggleError(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return inkwell.ErrNotFound.New("post not found")
	}
	return inkwell.ErrStoreFailure.New(err.Error())
}

func contains(set []string, value string) bool {
	for _, member := range set {
		if member == value {
			return true
		}
	}
	return false
}
