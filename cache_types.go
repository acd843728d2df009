package inkwell

import "time"

// CacheEntry is a cached response payload. Tags are embedded so whole
// families of entries can be invalidated with a single query.
type CacheEntry struct {
	Key       string   `bson:"_id" json:"key" inkwell:"id"`
	Data      []byte   `bson:"data" json:"data"`
	Tags      []string `bson:"tags,omitempty" json:"tags,omitempty"`
	TTL       int64    `bson:"ttl" json:"ttl"`
	CreatedAt int64    `bson:"created_at" json:"createdAt"`
}

func (c CacheEntry) GetCollectionName() string {
	return "cache_entries"
}

func (c *CacheEntry) IsExpired() bool {
	return time.Now().Unix() > c.TTL
}
