// Package cache provides an optional Redis cache-aside layer for project
// chat history. A nil *ChatCache disables caching entirely.
package cache

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"codeforge/internal/models"
)

const keyPrefix = "codeforge:chat:"

// ChatCache caches chat history per project.
type ChatCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewChat builds a chat cache over an open Redis client.
func NewChat(client *redis.Client, ttl time.Duration) *ChatCache {
	return &ChatCache{client: client, ttl: ttl}
}

func key(projectID int) string {
	return keyPrefix + strconv.Itoa(projectID)
}

// Get returns cached history and whether it was a hit. Redis errors count
// as misses; the store remains the source of truth.
func (c *ChatCache) Get(ctx context.Context, projectID int) ([]models.ChatMessage, bool) {
	if c == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, key(projectID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("chat cache get: %v", err)
		}
		return nil, false
	}
	var msgs []models.ChatMessage
	if err := json.Unmarshal(data, &msgs); err != nil {
		log.Printf("chat cache decode: %v", err)
		return nil, false
	}
	return msgs, true
}

// Set stores chat history with the configured TTL.
func (c *ChatCache) Set(ctx context.Context, projectID int, msgs []models.ChatMessage) {
	if c == nil {
		return
	}
	data, err := json.Marshal(msgs)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key(projectID), data, c.ttl).Err(); err != nil {
		log.Printf("chat cache set: %v", err)
	}
}

// Invalidate drops a project's cached history after a write.
func (c *ChatCache) Invalidate(ctx context.Context, projectID int) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, key(projectID)).Err(); err != nil {
		log.Printf("chat cache invalidate: %v", err)
	}
}
