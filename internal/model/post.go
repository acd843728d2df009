package model

import "time"

const (
	DefaultCategory = "uncategorized"
	DefaultImage    = "https://www.hostinger.com/tutorials/wp-content/uploads/sites/2/2021/09/how-to-write-a-blog-post.png"
)

// Post is the single persisted entity of the platform. Likes and Dislikes
// are user-id sets kept disjoint by the reaction toggle updates.
type Post struct {
	ID        string    `inkwell:"id" bson:"_id" json:"id"`
	Title     string    `bson:"title" json:"title"`
	Slug      string    `bson:"slug" json:"slug"`
	Content   string    `bson:"content" json:"content"`
	Category  string    `bson:"category" json:"category"`
	Image     string    `bson:"image" json:"image"`
	AuthorID  string    `bson:"author_id" json:"authorId"`
	Likes     []string  `bson:"likes" json:"likes"`
	Dislikes  []string  `bson:"dislikes" json:"dislikes"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

func (p Post) GetCollectionName() string {
	return "posts"
}
