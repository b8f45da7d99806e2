package queue

import (
	"context"
	"sync"
	"time"
)

// MemoryQueue memory-based queue implementation
type MemoryQueue struct {
	topics   map[string]*topic
	config   *MemoryQueueConfig
	mu       sync.RWMutex
	closed   bool
	handlers map[string]MessageHandler
}

type topic struct {
	name     string
	messages chan []byte
}

// MemoryQueueConfig memory queue configuration
type MemoryQueueConfig struct {
	BufferSize int           `json:"buffer_size"`
	Timeout    time.Duration `json:"timeout"`
}

// NewMemoryQueue creates a new memory queue instance
func NewMemoryQueue(config *MemoryQueueConfig) (*MemoryQueue, error) {
	if config == nil {
		config = &MemoryQueueConfig{
			BufferSize: 1000,
			Timeout:    30 * time.Second,
		}
	}

	return &MemoryQueue{
		topics:   make(map[string]*topic),
		config:   config,
		handlers: make(map[string]MessageHandler),
	}, nil
}

// Publish publishes a message to the queue
func (mq *MemoryQueue) Publish(ctx context.Context, name string, message []byte) error {
	mq.mu.Lock()
	if mq.closed {
		mq.mu.Unlock()
		return ErrQueueClosed
	}
	t := mq.getOrCreateTopic(name)
	mq.mu.Unlock()

	select {
	case t.messages <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(mq.config.Timeout):
		return ErrPublishTimeout
	}
}

// Subscribe subscribes to messages from the queue. Handler errors are
// swallowed so a bad message never stops the consumer loop.
func (mq *MemoryQueue) Subscribe(ctx context.Context, name string, handler MessageHandler) error {
	mq.mu.Lock()
	defer mq.mu.Unlock()

	if mq.closed {
		return ErrQueueClosed
	}

	t := mq.getOrCreateTopic(name)
	mq.handlers[name] = handler

	go func() {
		for {
			select {
			case message, ok := <-t.messages:
				if !ok {
					return
				}
				if err := handler(ctx, name, message); err != nil {
					continue
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// getOrCreateTopic must be called with mq.mu held
func (mq *MemoryQueue) getOrCreateTopic(name string) *topic {
	t, exists := mq.topics[name]
	if !exists {
		t = &topic{
			name:     name,
			messages: make(chan []byte, mq.config.BufferSize),
		}
		mq.topics[name] = t
	}
	return t
}

// Close closes the queue connections
func (mq *MemoryQueue) Close() error {
	mq.mu.Lock()
	defer mq.mu.Unlock()

	if mq.closed {
		return nil
	}
	mq.closed = true

	for _, t := range mq.topics {
		close(t.messages)
	}
	mq.topics = make(map[string]*topic)
	mq.handlers = make(map[string]MessageHandler)

	return nil
}

// Health checks the health of the queue
func (mq *MemoryQueue) Health() error {
	mq.mu.RLock()
	defer mq.mu.RUnlock()

	if mq.closed {
		return ErrQueueClosed
	}
	return nil
}
