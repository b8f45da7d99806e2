package snowflake

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIDGenerator(t *testing.T) {
	gen, err := NewIDGenerator(1)
	assert.NoError(t, err)
	assert.NotNil(t, gen)

	gen, err = NewIDGenerator(-1)
	assert.Error(t, err)
	assert.Nil(t, gen)

	gen, err = NewIDGenerator(nodeMask + 1)
	assert.Error(t, err)
	assert.Nil(t, gen)

	gen, err = NewIDGenerator(nodeMask)
	assert.NoError(t, err)
	assert.NotNil(t, gen)
}

func TestNextIDUnique(t *testing.T) {
	gen, err := NewIDGenerator(1)
	require.NoError(t, err)

	seen := make(map[int64]bool)
	for i := 0; i < 10000; i++ {
		id := gen.NextID()
		assert.Positive(t, id)
		assert.False(t, seen[id], "duplicate ID: %d", id)
		seen[id] = true
	}
}

func TestNextIDConcurrent(t *testing.T) {
	gen, err := NewIDGenerator(5)
	require.NoError(t, err)

	const workers = 8
	const perWorker = 1000

	var mu sync.Mutex
	seen := make(map[int64]bool)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				id := gen.NextID()
				mu.Lock()
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*perWorker)
}

func TestParseID(t *testing.T) {
	gen, err := NewIDGenerator(7)
	require.NoError(t, err)

	id := gen.NextID()
	_, nodeID, _ := ParseID(id)
	assert.Equal(t, int64(7), nodeID)
}
