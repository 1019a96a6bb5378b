//go:build unit

package bookingclient_test

import (
	"testing"

	"campus-booking/pkg/bookingclient"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequencedCache(t *testing.T) {
	t.Run("最新のフェッチ結果を保持", func(t *testing.T) {
		c := bookingclient.NewSequencedCache[int]()
		seq := c.Begin("feed")
		require.True(t, c.Commit("feed", seq, 1))

		v, ok := c.Get("feed")
		require.True(t, ok)
		assert.Equal(t, 1, v)
	})

	t.Run("古いレスポンスは破棄", func(t *testing.T) {
		c := bookingclient.NewSequencedCache[int]()
		first := c.Begin("feed")
		second := c.Begin("feed")

		require.True(t, c.Commit("feed", second, 2))
		require.False(t, c.Commit("feed", first, 1), "遅延したレスポンスが新しい値を上書きしてはならない")

		v, _ := c.Get("feed")
		assert.Equal(t, 2, v)
	})

	t.Run("新しいフェッチ発行後は未着の旧レスポンスも破棄", func(t *testing.T) {
		c := bookingclient.NewSequencedCache[int]()
		first := c.Begin("feed")
		c.Begin("feed") // newer fetch in flight

		require.False(t, c.Commit("feed", first, 1))
		_, ok := c.Get("feed")
		assert.False(t, ok)
	})

	t.Run("二重コミットは無効", func(t *testing.T) {
		c := bookingclient.NewSequencedCache[int]()
		seq := c.Begin("feed")
		require.True(t, c.Commit("feed", seq, 1))
		require.False(t, c.Commit("feed", seq, 99))

		v, _ := c.Get("feed")
		assert.Equal(t, 1, v)
	})

	t.Run("キーごとに独立した系列", func(t *testing.T) {
		c := bookingclient.NewSequencedCache[int]()
		feedSeq := c.Begin("feed")
		c.Begin("grid")

		require.True(t, c.Commit("feed", feedSeq, 1))
	})

	t.Run("Invalidateで値を破棄", func(t *testing.T) {
		c := bookingclient.NewSequencedCache[int]()
		seq := c.Begin("feed")
		require.True(t, c.Commit("feed", seq, 1))

		c.Invalidate("feed")
		_, ok := c.Get("feed")
		assert.False(t, ok)

		// A response from before the invalidation cannot come back.
		require.False(t, c.Commit("feed", seq, 1))
	})
}
