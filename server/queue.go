package server

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"key-verification/configs"
)

// Queue stores messages for devices that are not connected.
type Queue interface {
	Push(ctx context.Context, user, device string, message []byte) error
	// Drain returns the queued messages in arrival order and empties the queue.
	Drain(ctx context.Context, user, device string) ([][]byte, error)
	Close() error
}

// RedisQueue keeps one Redis list per device.
type RedisQueue struct {
	client *redis.Client
}

func NewRedisQueue(client *redis.Client) *RedisQueue {
	return &RedisQueue{client: client}
}

func queueKey(user, device string) string {
	return fmt.Sprintf(configs.ServerMessageQueueKey, user, device)
}

func (q *RedisQueue) Push(ctx context.Context, user, device string, message []byte) error {
	return q.client.RPush(ctx, queueKey(user, device), message).Err()
}

func (q *RedisQueue) Drain(ctx context.Context, user, device string) ([][]byte, error) {
	key := queueKey(user, device)

	// Read and clear in one transaction so a concurrent push is not lost
	pipe := q.client.TxPipeline()
	lrange := pipe.LRange(ctx, key, 0, -1)
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	stored := lrange.Val()
	messages := make([][]byte, 0, len(stored))
	for _, m := range stored {
		messages = append(messages, []byte(m))
	}
	return messages, nil
}

func (q *RedisQueue) Close() error {
	return q.client.Close()
}

// MemoryQueue is a process-local Queue.
type MemoryQueue struct {
	mutex    sync.Mutex
	messages map[string][][]byte
}

func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{messages: make(map[string][][]byte)}
}

func (q *MemoryQueue) Push(_ context.Context, user, device string, message []byte) error {
	q.mutex.Lock()
	defer q.mutex.Unlock()
	key := queueKey(user, device)
	q.messages[key] = append(q.messages[key], append([]byte(nil), message...))
	return nil
}

func (q *MemoryQueue) Drain(_ context.Context, user, device string) ([][]byte, error) {
	q.mutex.Lock()
	defer q.mutex.Unlock()
	key := queueKey(user, device)
	messages := q.messages[key]
	delete(q.messages, key)
	return messages, nil
}

// Len returns the number of messages queued for a device.
func (q *MemoryQueue) Len(user, device string) int {
	q.mutex.Lock()
	defer q.mutex.Unlock()
	return len(q.messages[queueKey(user, device)])
}

func (q *MemoryQueue) Close() error {
	return nil
}
