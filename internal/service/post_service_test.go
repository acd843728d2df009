package service

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/inkwell-io/inkwell"
	"github.com/inkwell-io/inkwell/internal/model"
	"github.com/inkwell-io/inkwell/internal/repository"
)

// fakeStore is an in-memory PostStore mirroring the repository's toggle
// semantics, so service rules can be tested without a database.
type fakeStore struct {
	posts        map[string]model.Post
	saveErr      error
	searchErr    error
	lastCriteria repository.SearchCriteria
}

func newFakeStore(posts ...model.Post) *fakeStore {
	store := &fakeStore{posts: make(map[string]model.Post)}
	for _, post := range posts {
		store.posts[post.ID] = post
	}
	return store
}

func (f *fakeStore) Save(post model.Post) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.posts[post.ID] = post
	return nil
}

func (f *fakeStore) FindOneAndUpdate(filters map[string]interface{}, update interface{}) (model.Post, error) {
	id, _ := filters["_id"].(string)
	post, ok := f.posts[id]
	if !ok {
		return model.Post{}, mongo.ErrNoDocuments
	}
	if set, ok := update.(bson.M); ok {
		if fields, ok := set["$set"].(bson.M); ok {
			if title, ok := fields["title"].(string); ok {
				post.Title = title
			}
			if content, ok := fields["content"].(string); ok {
				post.Content = content
			}
			if category, ok := fields["category"].(string); ok {
				post.Category = category
			}
			if image, ok := fields["image"].(string); ok {
				post.Image = image
			}
			if updatedAt, ok := fields["updated_at"].(time.Time); ok {
				post.UpdatedAt = updatedAt
			}
		}
	}
	f.posts[id] = post
	return post, nil
}

func (f *fakeStore) Delete(id string) error {
	delete(f.posts, id)
	return nil
}

func (f *fakeStore) Search(criteria repository.SearchCriteria) ([]model.Post, error) {
	f.lastCriteria = criteria
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	results := []model.Post{}
	for _, post := range f.posts {
		results = append(results, post)
	}
	if criteria.Limit > 0 && len(results) > criteria.Limit {
		results = results[:criteria.Limit]
	}
	return results, nil
}

func (f *fakeStore) CountAll() (int64, error) {
	return int64(len(f.posts)), nil
}

func (f *fakeStore) CountCreatedSince(since time.Time) (int64, error) {
	var count int64
	for _, post := range f.posts {
		if !post.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) ToggleLike(postID, userID string) (model.Post, error) {
	post, ok := f.posts[postID]
	if !ok {
		return model.Post{}, mongo.ErrNoDocuments
	}
	if containsString(post.Likes, userID) {
		post.Likes = removeString(post.Likes, userID)
	} else {
		post.Likes = append(post.Likes, userID)
	}
	post.Dislikes = removeString(post.Dislikes, userID)
	f.posts[postID] = post
	return post, nil
}

func (f *fakeStore) ToggleDislike(postID, userID string) (model.Post, error) {
	post, ok := f.posts[postID]
	if !ok {
		return model.Post{}, mongo.ErrNoDocuments
	}
	if containsString(post.Dislikes, userID) {
		post.Dislikes = removeString(post.Dislikes, userID)
	} else {
		post.Dislikes = append(post.Dislikes, userID)
	}
	post.Likes = removeString(post.Likes, userID)
	f.posts[postID] = post
	return post, nil
}

func containsString(set []string, value string) bool {
	for _, member := range set {
		if member == value {
			return true
		}
	}
	return false
}

func removeString(set []string, value string) []string {
	result := set[:0]
	for _, member := range set {
		if member != value {
			result = append(result, member)
		}
	}
	return result
}

func adminContext(userID string) inkwell.AuthContext {
	return inkwell.AuthContext{UserID: userID, Role: inkwell.RoleAdmin}
}

func userContext(userID string) inkwell.AuthContext {
	return inkwell.AuthContext{UserID: userID, Role: inkwell.RoleUser}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Hello World!", "hello-world"},
		{"Go & Mongo", "go--mongo"},
		{"ALREADY-hyphenated title", "already-hyphenated-title"},
		{"Ünïcode gets stripped", "ncode-gets-stripped"},
		{"  spaces  ", "--spaces--"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.title))
		})
	}
}

func TestCreatePost(t *testing.T) {
	t.Run("creates with defaults and empty reactions", func(t *testing.T) {
		store := newFakeStore()
		svc := NewPostService(store)

		post, err := svc.CreatePost(adminContext("author-1"), CreatePostRequest{
			Title:   "Hello World!",
			Content: "first post",
		})
		require.NoError(t, err)

		assert.Equal(t, "hello-world", post.Slug)
		assert.Equal(t, model.DefaultCategory, post.Category)
		assert.Equal(t, model.DefaultImage, post.Image)
		assert.Equal(t, "author-1", post.AuthorID)
		assert.Empty(t, post.Likes)
		assert.Empty(t, post.Dislikes)
		assert.NotEmpty(t, post.ID)
		assert.Regexp(t, regexp.MustCompile(`^[a-z0-9-]*$`), post.Slug)

		_, stored := store.posts[post.ID]
		assert.True(t, stored)
	})

	t.Run("rejects non-admin", func(t *testing.T) {
		svc := NewPostService(newFakeStore())
		_, err := svc.CreatePost(userContext("u1"), CreatePostRequest{Title: "t", Content: "c"})
		assert.ErrorIs(t, err, inkwell.ErrForbidden)
	})

	t.Run("rejects missing title or content", func(t *testing.T) {
		svc := NewPostService(newFakeStore())

		_, err := svc.CreatePost(adminContext("u1"), CreatePostRequest{Content: "c"})
		assert.ErrorIs(t, err, inkwell.ErrInvalidInput)

		_, err = svc.CreatePost(adminContext("u1"), CreatePostRequest{Title: "t"})
		assert.ErrorIs(t, err, inkwell.ErrInvalidInput)
	})

	t.Run("store failure surfaces as store error", func(t *testing.T) {
		store := newFakeStore()
		store.saveErr = assert.AnError
		svc := NewPostService(store)

		_, err := svc.CreatePost(adminContext("u1"), CreatePostRequest{Title: "t", Content: "c"})
		assert.ErrorIs(t, err, inkwell.ErrStoreFailure)
	})
}

func TestToggleLike(t *testing.T) {
	post := model.Post{ID: "p1", Likes: []string{}, Dislikes: []string{}}

	t.Run("like then unlike returns to original state", func(t *testing.T) {
		store := newFakeStore(post)
		svc := NewPostService(store)

		result, err := svc.ToggleLike("p1", "u1")
		require.NoError(t, err)
		assert.Equal(t, ActionLiked, result.Action)
		assert.Equal(t, 1, result.LikesCount)

		result, err = svc.ToggleLike("p1", "u1")
		require.NoError(t, err)
		assert.Equal(t, ActionUnliked, result.Action)
		assert.Equal(t, 0, result.LikesCount)
		assert.Empty(t, store.posts["p1"].Likes)
	})

	t.Run("missing post is not found", func(t *testing.T) {
		svc := NewPostService(newFakeStore())
		_, err := svc.ToggleLike("missing", "u1")
		assert.ErrorIs(t, err, inkwell.ErrNotFound)
	})

	t.Run("liking clears an existing dislike", func(t *testing.T) {
		store := newFakeStore(model.Post{ID: "p2", Likes: []string{}, Dislikes: []string{"u1"}})
		svc := NewPostService(store)

		result, err := svc.ToggleLike("p2", "u1")
		require.NoError(t, err)
		assert.Equal(t, ActionLiked, result.Action)
		assert.Equal(t, 1, result.LikesCount)
		assert.Empty(t, store.posts["p2"].Dislikes)
	})
}

func TestToggleDislike(t *testing.T) {
	t.Run("dislike migrates an existing like", func(t *testing.T) {
		store := newFakeStore(model.Post{ID: "p1", Likes: []string{"u1", "u2"}, Dislikes: []string{}})
		svc := NewPostService(store)

		result, err := svc.ToggleDislike("p1", "u1")
		require.NoError(t, err)
		assert.Equal(t, ActionDisliked, result.Action)
		assert.Equal(t, 1, result.DislikesCount)
		assert.Equal(t, 1, result.LikesCount)
	})

	t.Run("dislike pair is idempotent", func(t *testing.T) {
		store := newFakeStore(model.Post{ID: "p1", Likes: []string{}, Dislikes: []string{}})
		svc := NewPostService(store)

		_, err := svc.ToggleDislike("p1", "u1")
		require.NoError(t, err)
		result, err := svc.ToggleDislike("p1", "u1")
		require.NoError(t, err)
		assert.Equal(t, ActionUndisliked, result.Action)
		assert.Equal(t, 0, result.DislikesCount)
	})

	t.Run("reaction sets stay disjoint under any toggle sequence", func(t *testing.T) {
		store := newFakeStore(model.Post{ID: "p1", Likes: []string{}, Dislikes: []string{}})
		svc := NewPostService(store)

		steps := []func() (ReactionResult, error){
			func() (ReactionResult, error) { return svc.ToggleLike("p1", "u1") },
			func() (ReactionResult, error) { return svc.ToggleDislike("p1", "u1") },
			func() (ReactionResult, error) { return svc.ToggleDislike("p1", "u1") },
			func() (ReactionResult, error) { return svc.ToggleLike("p1", "u1") },
			func() (ReactionResult, error) { return svc.ToggleDislike("p1", "u1") },
		}
		for _, step := range steps {
			_, err := step()
			require.NoError(t, err)

			post := store.posts["p1"]
			for _, liker := range post.Likes {
				assert.False(t, containsString(post.Dislikes, liker))
			}
		}
	})

	t.Run("missing post is not found", func(t *testing.T) {
		svc := NewPostService(newFakeStore())
		_, err := svc.ToggleDislike("missing", "u1")
		assert.ErrorIs(t, err, inkwell.ErrNotFound)
	})
}

func TestListPosts(t *testing.T) {
	now := time.Now().UTC()

	t.Run("aggregates page counts and global totals", func(t *testing.T) {
		store := newFakeStore(
			model.Post{ID: "p1", Likes: []string{"a", "b"}, Dislikes: []string{"c"}, CreatedAt: now},
			model.Post{ID: "p2", Likes: []string{"a"}, Dislikes: []string{}, CreatedAt: now.AddDate(0, -2, 0)},
		)
		svc := NewPostService(store)

		result, err := svc.ListPosts(ListQuery{})
		require.NoError(t, err)

		assert.Len(t, result.Posts, 2)
		assert.Equal(t, int64(2), result.TotalPosts)
		assert.Equal(t, int64(1), result.LastMonthPosts)
		assert.Equal(t, 3, result.TotalLikes)
		assert.Equal(t, 1, result.TotalDislikes)

		for _, view := range result.Posts {
			assert.Equal(t, len(view.Likes), view.TotalLikes)
			assert.Equal(t, len(view.Dislikes), view.TotalDislikes)
		}
	})

	t.Run("applies pagination defaults", func(t *testing.T) {
		store := newFakeStore()
		svc := NewPostService(store)

		_, err := svc.ListPosts(ListQuery{StartIndex: -5})
		require.NoError(t, err)
		assert.Equal(t, 9, store.lastCriteria.Limit)
		assert.Equal(t, 0, store.lastCriteria.StartIndex)
		assert.False(t, store.lastCriteria.Ascending)
	})

	t.Run("page limit caps posts but not totalPosts", func(t *testing.T) {
		posts := make([]model.Post, 5)
		for i := range posts {
			posts[i] = model.Post{ID: string(rune('a' + i)), CreatedAt: now}
		}
		store := newFakeStore(posts...)
		svc := NewPostService(store)

		result, err := svc.ListPosts(ListQuery{Limit: 2})
		require.NoError(t, err)
		assert.Len(t, result.Posts, 2)
		assert.Equal(t, int64(5), result.TotalPosts)
	})

	t.Run("empty store is success not error", func(t *testing.T) {
		svc := NewPostService(newFakeStore())
		result, err := svc.ListPosts(ListQuery{SearchTerm: "nothing"})
		require.NoError(t, err)
		assert.Empty(t, result.Posts)
	})

	t.Run("store failure surfaces as store error", func(t *testing.T) {
		store := newFakeStore()
		store.searchErr = assert.AnError
		svc := NewPostService(store)

		_, err := svc.ListPosts(ListQuery{})
		assert.ErrorIs(t, err, inkwell.ErrStoreFailure)
	})
}

func TestUpdatePost(t *testing.T) {
	existing := model.Post{
		ID: "p1", Title: "old", Content: "old body", Slug: "old",
		Category: "go", AuthorID: "u1",
	}

	t.Run("updates mutable fields only", func(t *testing.T) {
		store := newFakeStore(existing)
		svc := NewPostService(store)

		post, err := svc.UpdatePost(adminContext("u1"), "p1", "u1", UpdatePostRequest{
			Title:   "new title",
			Content: "new body",
		})
		require.NoError(t, err)
		assert.Equal(t, "new title", post.Title)
		assert.Equal(t, "new body", post.Content)
		// Slug is derived at creation only.
		assert.Equal(t, "old", post.Slug)
	})

	t.Run("requires admin and author match", func(t *testing.T) {
		svc := NewPostService(newFakeStore(existing))

		_, err := svc.UpdatePost(userContext("u1"), "p1", "u1", UpdatePostRequest{Title: "x"})
		assert.ErrorIs(t, err, inkwell.ErrForbidden)

		_, err = svc.UpdatePost(adminContext("u2"), "p1", "u1", UpdatePostRequest{Title: "x"})
		assert.ErrorIs(t, err, inkwell.ErrForbidden)
	})

	t.Run("missing post is not found", func(t *testing.T) {
		svc := NewPostService(newFakeStore())
		_, err := svc.UpdatePost(adminContext("u1"), "missing", "u1", UpdatePostRequest{Title: "x"})
		assert.ErrorIs(t, err, inkwell.ErrNotFound)
	})
}

func TestDeletePost(t *testing.T) {
	t.Run("removes the post", func(t *testing.T) {
		store := newFakeStore(model.Post{ID: "p1", AuthorID: "u1"})
		svc := NewPostService(store)

		require.NoError(t, svc.DeletePost(adminContext("u1"), "p1", "u1"))
		assert.Empty(t, store.posts)
	})

	t.Run("requires admin and author match", func(t *testing.T) {
		store := newFakeStore(model.Post{ID: "p1", AuthorID: "u1"})
		svc := NewPostService(store)

		err := svc.DeletePost(adminContext("u2"), "p1", "u1")
		assert.ErrorIs(t, err, inkwell.ErrForbidden)
		assert.Len(t, store.posts, 1)
	})
}
