package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inkwell-io/inkwell"
	"github.com/inkwell-io/inkwell/internal/middleware"
	"github.com/inkwell-io/inkwell/internal/service"
)

// CacheTagPosts groups every cached listing response so a single invalidate
// covers them all after any write.
const CacheTagPosts = "posts"

type PostController struct {
	postService     *service.PostService
	cacheService    inkwell.CacheService
	cacheMiddleware gin.HandlerFunc
}

func NewPostController(postService *service.PostService, cacheService inkwell.CacheService, cacheMiddleware gin.HandlerFunc) *PostController {
	return &PostController{
		postService:     postService,
		cacheService:    cacheService,
		cacheMiddleware: cacheMiddleware,
	}
}

func (c *PostController) Register(group *inkwell.ControllerGroup) {
	if c.cacheMiddleware != nil {
		cached := group.Group("", c.cacheMiddleware)
		cached.GET("/getposts", c.GetPosts)
	} else {
		group.GET("/getposts", c.GetPosts)
	}

	protected := group.Group("", middleware.AuthMiddleware())
	{
		protected.POST("/create", c.CreatePost)
		protected.PUT("/updatepost/:postId/:userId", c.UpdatePost)
		protected.DELETE("/deletepost/:postId/:userId", c.DeletePost)
		protected.POST("/like/:postId", c.ToggleLike)
		protected.POST("/dislike/:postId", c.ToggleDislike)
	}
}

func (c *PostController) CreatePost(ctx *inkwell.Context) {
	auth, err := ctx.GetAuthContext()
	if err != nil {
		return
	}

	var request service.CreatePostRequest
	if err := ctx.GetRequest(&request); err != nil {
		ctx.SendError(err)
		return
	}

	post, err := c.postService.CreatePost(auth, request)
	if err != nil {
		ctx.SendError(err)
		return
	}

	c.invalidateListings(ctx)
	ctx.JSON(http.StatusCreated, post)
}

func (c *PostController) GetPosts(ctx *inkwell.Context) {
	result, err := c.postService.ListPosts(service.ListQuery{
		AuthorID:   ctx.Query("userId"),
		Category:   ctx.Query("category"),
		Slug:       ctx.Query("slug"),
		PostID:     ctx.Query("postId"),
		SearchTerm: ctx.Query("searchTerm"),
		StartIndex: ctx.DefaultQueryInt("startIndex", 0),
		Limit:      ctx.DefaultQueryInt("limit", 9),
		Order:      ctx.DefaultQuery("order", "desc"),
	})
	if err != nil {
		ctx.SendError(err)
		return
	}

	ctx.JSON(http.StatusOK, result)
}

func (c *PostController) UpdatePost(ctx *inkwell.Context) {
	auth, err := ctx.GetAuthContext()
	if err != nil {
		return
	}

	var request service.UpdatePostRequest
	if err := ctx.GetRequest(&request); err != nil {
		ctx.SendError(err)
		return
	}

	post, err := c.postService.UpdatePost(auth, ctx.Param("postId"), ctx.Param("userId"), request)
	if err != nil {
		ctx.SendError(err)
		return
	}

	c.invalidateListings(ctx)
	ctx.JSON(http.StatusOK, post)
}

func (c *PostController) DeletePost(ctx *inkwell.Context) {
	auth, err := ctx.GetAuthContext()
	if err != nil {
		return
	}

	if err := c.postService.DeletePost(auth, ctx.Param("postId"), ctx.Param("userId")); err != nil {
		ctx.SendError(err)
		return
	}

	c.invalidateListings(ctx)
	ctx.JSON(http.StatusOK, "The post has been deleted")
}

func (c *PostController) ToggleLike(ctx *inkwell.Context) {
	auth, err := ctx.GetAuthContext()
	if err != nil {
		return
	}

	result, err := c.postService.ToggleLike(ctx.Param("postId"), auth.UserID)
	if err != nil {
		ctx.SendError(err)
		return
	}

	c.invalidateListings(ctx)
	if result.Action == service.ActionLiked {
		ctx.JSON(http.StatusOK, gin.H{"message": "Post liked", "likesCount": result.LikesCount})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Post unliked", "likesCount": result.LikesCount})
}

func (c *PostController) ToggleDislike(ctx *inkwell.Context) {
	auth, err := ctx.GetAuthContext()
	if err != nil {
		return
	}

	result, err := c.postService.ToggleDislike(ctx.Param("postId"), auth.UserID)
	if err != nil {
		ctx.SendError(err)
		return
	}

	c.invalidateListings(ctx)
	if result.Action == service.ActionDisliked {
		ctx.JSON(http.StatusOK, gin.H{
			"message":       "Post disliked",
			"dislikesCount": result.DislikesCount,
			"likesCount":    result.LikesCount,
		})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Post undisliked", "dislikesCount": result.DislikesCount})
}

func (c *PostController) invalidateListings(ctx *inkwell.Context) {
	if c.cacheService == nil {
		return
	}
	// Stale listings are worse than a dropped invalidation error.
	_ = c.cacheService.Invalidate(context.Background(), CacheTagPosts)
}
