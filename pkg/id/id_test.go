package id

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsSortableAndUnique(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 1, 9, 15, 0, 0, time.UTC)
	a := New(now)
	b := New(now)

	assert.Len(t, a, 26)
	assert.NotEqual(t, a, b)
	assert.Less(t, a, b)
	assert.Less(t, b, New(now.Add(time.Second)))
}

func TestTimeRoundTrip(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 1, 9, 15, 0, 123_000_000, time.UTC)
	got, err := Time(New(now))
	require.NoError(t, err)
	assert.Equal(t, now, got)

	_, err = Time("not-a-ulid")
	assert.Error(t, err)
}
