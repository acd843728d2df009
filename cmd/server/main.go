package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/inkwell-io/inkwell"
	"github.com/inkwell-io/inkwell/internal/config"
	"github.com/inkwell-io/inkwell/internal/controller"
	"github.com/inkwell-io/inkwell/internal/middleware"
	"github.com/inkwell-io/inkwell/internal/repository"
	"github.com/inkwell-io/inkwell/internal/service"
)

func main() {
	cfg := config.Load()

	db, err := cfg.Mongo().Connect()
	if err != nil {
		log.Fatal(err)
	}
	defer db.Client().Disconnect(context.Background())

	postRepo := repository.NewPostRepository(db)
	postService := service.NewPostService(postRepo)

	cacheRepo := inkwell.NewMongoRepository[inkwell.CacheEntry](db, "cache_entries")
	cacheService := inkwell.NewMongoCacheService(cacheRepo)
	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second
	listingTags := func(c *gin.Context) []string {
		return []string{controller.CacheTagPosts}
	}
	cacheMiddleware := inkwell.CacheMiddleware(cacheService, cacheTTL, listingTags, nil)

	server := inkwell.New()
	server.SetBasePath("/api/v1")
	if len(cfg.CORSOrigins) > 0 {
		server.CustomCORS(cfg.CORSOrigins,
			[]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			[]string{"Origin", "Content-Length", "Content-Type", "Authorization"},
			12*time.Hour)
	} else {
		server.DefaultCORS()
	}
	server.Use(middleware.Metrics())

	if cfg.S3Bucket != "" {
		fileService, err := inkwell.NewS3FileService(context.Background(),
			cfg.S3Bucket, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Region, cfg.S3ExpirySeconds)
		if err != nil {
			log.Fatal(err)
		}
		server.BindFileService(fileService)
	}

	server.Engine().GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now()})
	})
	server.Engine().GET("/metrics", gin.WrapH(promhttp.Handler()))

	server.RegisterController("/posts", controller.NewPostController(postService, cacheService, cacheMiddleware))
	server.RegisterController("/uploads", controller.NewUploadController())

	if err := server.Start(cfg.Port); err != nil {
		log.Fatal(err)
	}
}
