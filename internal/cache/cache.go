// Package cache holds an optional Redis read-through cache for a
// conversation's message list. Correctness never depends on it: when Redis
// is not configured every call is a no-op and readers fall back to Postgres.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/meer-matthew/STT-Proto/internal/models"
)

const messagesTTL = 24 * time.Hour

var client *redis.Client

// Init connects to Redis. An empty addr leaves caching disabled.
func Init(addr, password string) {
	if addr == "" {
		return
	}
	c := redis.NewClient(&redis.Options{Addr: addr, Password: password})
	if err := c.Ping(context.Background()).Err(); err != nil {
		log.Printf("Warning: Redis unreachable at %s, message caching disabled: %v", addr, err)
		return
	}
	client = c
	log.Printf("Connected to Redis at %s.", addr)
}

// Close releases the Redis connection.
func Close() {
	if client != nil {
		_ = client.Close()
	}
}

func messagesKey(conversationID int64) string {
	return fmt.Sprintf("conversation:%d:messages", conversationID)
}

// GetMessages returns the cached message list, or (nil, false) on miss or
// when caching is disabled.
func GetMessages(ctx context.Context, conversationID int64) ([]models.Message, bool) {
	if client == nil {
		return nil, false
	}
	raw, err := client.LRange(ctx, messagesKey(conversationID), 0, -1).Result()
	if err != nil || len(raw) == 0 {
		return nil, false
	}
	messages := make([]models.Message, 0, len(raw))
	for _, item := range raw {
		var m models.Message
		if err := json.Unmarshal([]byte(item), &m); err != nil {
			// A corrupt entry poisons the whole list; drop it and miss.
			InvalidateMessages(ctx, conversationID)
			return nil, false
		}
		messages = append(messages, m)
	}
	return messages, true
}

// SetMessages replaces the cached message list for a conversation.
func SetMessages(ctx context.Context, conversationID int64, messages []models.Message) {
	if client == nil {
		return
	}
	key := messagesKey(conversationID)
	pipe := client.Pipeline()
	pipe.Del(ctx, key)
	for _, m := range messages {
		data, err := json.Marshal(m)
		if err != nil {
			log.Printf("cache: failed to marshal message %d: %v", m.ID, err)
			continue
		}
		pipe.RPush(ctx, key, data)
	}
	pipe.Expire(ctx, key, messagesTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("cache: failed to store messages for conversation %d: %v", conversationID, err)
	}
}

// InvalidateMessages drops the cached list after a write.
func InvalidateMessages(ctx context.Context, conversationID int64) {
	if client == nil {
		return
	}
	if err := client.Del(ctx, messagesKey(conversationID)).Err(); err != nil {
		log.Printf("cache: failed to invalidate conversation %d: %v", conversationID, err)
	}
}
