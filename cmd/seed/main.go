package main

import (
	"context"
	"flag"
	"log"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/inkwell-io/inkwell/internal/config"
	"github.com/inkwell-io/inkwell/internal/model"
	"github.com/inkwell-io/inkwell/internal/repository"
	"github.com/inkwell-io/inkwell/internal/service"
)

// Seeds the posts collection with fake data for local development.
func main() {
	count := flag.Int("count", 50, "number of posts to create")
	flag.Parse()

	gofakeit.Seed(time.Now().UnixNano())

	cfg := config.Load()
	db, err := cfg.Mongo().Connect()
	if err != nil {
		log.Fatal(err)
	}
	defer db.Client().Disconnect(context.Background())

	repo := repository.NewPostRepository(db)

	categories := []string{"go", "databases", "web", "devops", model.DefaultCategory}
	authors := make([]string, 5)
	for i := range authors {
		authors[i] = primitive.NewObjectID().Hex()
	}

	posts := make([]model.Post, 0, *count)
	for i := 0; i < *count; i++ {
		title := strings.TrimSuffix(gofakeit.Sentence(gofakeit.Number(3, 7)), ".")
		createdAt := gofakeit.DateRange(time.Now().AddDate(0, -6, 0), time.Now())

		post := model.Post{
			ID:        primitive.NewObjectID().Hex(),
			Title:     title,
			Slug:      service.Slugify(title),
			Content:   gofakeit.Paragraph(3, 5, 12, "\n\n"),
			Category:  categories[gofakeit.Number(0, len(categories)-1)],
			Image:     model.DefaultImage,
			AuthorID:  authors[gofakeit.Number(0, len(authors)-1)],
			Likes:     []string{},
			Dislikes:  []string{},
			CreatedAt: createdAt,
			UpdatedAt: createdAt,
		}

		for j := 0; j < gofakeit.Number(0, 8); j++ {
			post.Likes = append(post.Likes, primitive.NewObjectID().Hex())
		}
		for j := 0; j < gofakeit.Number(0, 3); j++ {
			post.Dislikes = append(post.Dislikes, primitive.NewObjectID().Hex())
		}

		posts = append(posts, post)
	}

	if err := repo.SaveAll(posts); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Printf("seeded %d posts into %s", len(posts), cfg.MongoDatabase)
}
