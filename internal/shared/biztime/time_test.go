package biztime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateOf_UsesBusinessTimezone(t *testing.T) {
	require.NoError(t, Init("Asia/Ho_Chi_Minh"))
	t.Cleanup(func() { _ = Init("") })

	// 2024-03-10 20:00 UTC is already 2024-03-11 03:00 in UTC+7.
	instant := time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), DateOf(instant))
	assert.Equal(t, time.Date(2024, 3, 10, 17, 0, 0, 0, time.UTC), StartOfDayUTC(instant))
}

func TestParseAndFormatDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", FormatDate(d))
	assert.Equal(t, "2024-03-02", FormatDate(AddDays(d, 2)))

	_, err = ParseDate("29/02/2024")
	assert.Error(t, err)
}

func TestInit_InvalidTimezone(t *testing.T) {
	assert.Error(t, Init("Mars/Olympus"))
}
