package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDelay(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
		ok   bool
	}{
		{in: "5", want: 5 * time.Minute, ok: true},
		{in: "90s", want: 90 * time.Second, ok: true},
		{in: "1h30m", want: 90 * time.Minute, ok: true},
		{in: "1440", want: 24 * time.Hour, ok: true},
		{in: "1441"},
		{in: "0"},
		{in: "-3"},
		{in: "25h"},
		{in: "soon"},
		{in: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDelay(tt.in)
			if !tt.ok {
				assert.ErrorIs(t, err, ErrInvalidDelay)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseArgs(t *testing.T) {
	d, text, err := ParseArgs("  10   tea is ready ")
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, d)
	assert.Equal(t, "tea is ready", text)

	_, _, err = ParseArgs("10")
	assert.ErrorIs(t, err, ErrMissingText)

	_, _, err = ParseArgs("")
	assert.ErrorIs(t, err, ErrInvalidDelay)
}

func TestSchedule_PopDueInOrder(t *testing.T) {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	var s Schedule

	s.Add(Timer{Text: "late", Due: base.Add(3 * time.Minute)})
	s.Add(Timer{Text: "early", Due: base.Add(time.Minute)})
	s.Add(Timer{Text: "early too", Due: base.Add(time.Minute)})
	require.Equal(t, 3, s.Len())

	_, ok := s.PopDue(base)
	assert.False(t, ok, "nothing is due yet")

	got, ok := s.PopDue(base.Add(2 * time.Minute))
	require.True(t, ok)
	assert.Equal(t, "early", got.Text)

	got, ok = s.PopDue(base.Add(2 * time.Minute))
	require.True(t, ok)
	assert.Equal(t, "early too", got.Text)

	_, ok = s.PopDue(base.Add(2 * time.Minute))
	assert.False(t, ok)

	got, ok = s.PopDue(base.Add(3 * time.Minute))
	require.True(t, ok)
	assert.Equal(t, "late", got.Text)
	assert.Zero(t, s.Len())
}
