package inflight

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSet_Do(t *testing.T) {
	set := NewSet()

	started := make(chan struct{})
	finish := make(chan struct{})
	var calls atomic.Int32

	var firstErr error
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		firstErr = set.Do("createUser:bob", func() error {
			calls.Add(1)
			close(started)
			<-finish
			return nil
		})
	}()

	<-started
	// повтор по тому же ключу подавляется
	err := set.Do("createUser:bob", func() error {
		calls.Add(1)
		return nil
	})
	require.ErrorIs(t, err, ErrBusy)
	require.True(t, set.Busy("createUser:bob"))

	// другой ключ не блокируется
	err = set.Do("createUser:alice", func() error {
		calls.Add(1)
		return nil
	})
	require.NoError(t, err)

	close(finish)
	wg.Wait()
	require.NoError(t, firstErr)
	require.Equal(t, int32(2), calls.Load())
	require.False(t, set.Busy("createUser:bob"))
}

func TestSet_DoReleasesOnError(t *testing.T) {
	set := NewSet()
	failure := errors.New("boom")

	err := set.Do("k", func() error { return failure })
	require.ErrorIs(t, err, failure)
	require.False(t, set.Busy("k"))

	require.Panics(t, func() {
		_ = set.Do("k", func() error { panic("boom") })
	})
	require.False(t, set.Busy("k"))
}

func TestLatest(t *testing.T) {
	latest := NewLatest()

	older := latest.Issue("info:alice")
	newer := latest.Issue("info:alice")
	other := latest.Issue("info:bob")
	require.NotEqual(t, older, newer)

	require.False(t, latest.IsCurrent("info:alice", older))
	require.True(t, latest.IsCurrent("info:alice", newer))

	// новый ответ пришел первым
	require.NoError(t, latest.Complete("info:alice", newer))
	// старый отбрасывается
	require.ErrorIs(t, latest.Complete("info:alice", older), ErrStale)
	// ключи независимы
	require.NoError(t, latest.Complete("info:bob", other))
}
