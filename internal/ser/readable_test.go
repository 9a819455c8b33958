package ser

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadableFlagDefault(t *testing.T) {
	var f ReadableFlag
	assert.Equal(t, DefaultHumanReadable, f.Get())

	err := f.Set(false)
	require.Error(t, err, "reading fixes the default")

	var hre *HumanReadableError
	require.True(t, errors.As(err, &hre))
	assert.False(t, hre.Rejected)
	assert.True(t, hre.Current)
	assert.True(t, f.Get())
}

func TestReadableFlagSetOnce(t *testing.T) {
	var f ReadableFlag
	require.NoError(t, f.Set(false))
	assert.False(t, f.Get())

	err := f.Set(true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already set to false")
	assert.False(t, f.Get())
}

func TestReadableFlagConcurrentSet(t *testing.T) {
	var (
		f    ReadableFlag
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)

	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(v bool) {
			defer wg.Done()
			if f.Set(v) == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}(i%2 == 0)
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
}
