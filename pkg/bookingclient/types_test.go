//go:build unit

package bookingclient_test

import (
	"encoding/json"
	"testing"
	"time"

	"campus-booking/pkg/bookingclient"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLooseTime(t *testing.T) {
	cases := []struct {
		name string
		json string
		want time.Time
	}{
		{"RFC3339", `"2025-04-01T10:30:00Z"`, time.Date(2025, 4, 1, 10, 30, 0, 0, time.UTC)},
		{"タイムゾーン付き", `"2025-04-01T19:30:00+09:00"`, time.Date(2025, 4, 1, 19, 30, 0, 0, time.FixedZone("", 9*3600))},
		{"不正な文字列はゼロ値", `"not-a-timestamp"`, time.Time{}},
		{"数値はゼロ値", `1743500000`, time.Time{}},
		{"nullはゼロ値", `null`, time.Time{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var lt bookingclient.LooseTime
			require.NoError(t, json.Unmarshal([]byte(tc.json), &lt))
			assert.True(t, tc.want.Equal(lt.Time), "got %v", lt.Time)
		})
	}
}

func TestRefs(t *testing.T) {
	payload := `[
		{"id":"1f1e9b1a-0000-4000-8000-000000000001","facilityId":"2f1e9b1a-0000-4000-8000-000000000001","status":"approved","start":"2025-04-01T10:00:00Z","end":"2025-04-01T11:00:00Z","mine":false},
		{"id":"1f1e9b1a-0000-4000-8000-000000000002","facilityId":"2f1e9b1a-0000-4000-8000-000000000001","status":"approved","start":"garbage","end":"2025-04-01T12:00:00Z","mine":false},
		{"id":"1f1e9b1a-0000-4000-8000-000000000003","facilityId":"2f1e9b1a-0000-4000-8000-000000000001","status":"pending","start":"2025-04-01T13:00:00Z","end":"2025-04-01T12:00:00Z","mine":true}
	]`

	var entries []bookingclient.FeedEntry
	require.NoError(t, json.Unmarshal([]byte(payload), &entries))
	require.Len(t, entries, 3)

	t.Run("タイムスタンプ不正のエントリは除外", func(t *testing.T) {
		refs := bookingclient.Refs(entries)
		require.Len(t, refs, 1)
		assert.Equal(t, uuid.MustParse("1f1e9b1a-0000-4000-8000-000000000001"), refs[0].ID)
	})

	t.Run("デコード自体は失敗しない", func(t *testing.T) {
		assert.True(t, entries[1].Start.IsZero())
		assert.False(t, entries[1].End.IsZero())
	})
}

// 外部モジュールの利用者はinternalパッケージを参照できないため、
// 公開シグネチャの型はこのパッケージの名前で扱えることを確認する。
func TestExportedTypeNames(t *testing.T) {
	entry := bookingclient.FeedEntry{
		ID:         uuid.New(),
		FacilityID: uuid.New(),
		Status:     "approved",
	}

	var ref bookingclient.BookingRef = entry.Ref()
	assert.Equal(t, entry.ID, ref.ID)
	assert.False(t, ref.Valid())

	var refs []bookingclient.BookingRef = bookingclient.Refs([]bookingclient.FeedEntry{entry})
	assert.Empty(t, refs)

	var clk bookingclient.Clock = fixedClock{now: time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)}
	w := bookingclient.NewDeadlineWatcher(clk)
	_, watched := w.Remaining(entry.ID)
	assert.False(t, watched)
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}
