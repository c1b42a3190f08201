package occupancy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/crowd-alarm/internal/config"
)

// TestParsePayload covers plain and JSON payloads.
func TestParsePayload(t *testing.T) {
	t.Parallel()

	cases := map[string]int{
		"42":                                    42,
		" 7\n":                                  7,
		`{"person_count": 55}`:                  55,
		`{"camera": "hall", "person_count": 3}`: 3,
	}

	for payload, want := range cases {
		got, err := parsePayload([]byte(payload), config.DefaultCountField)
		require.NoError(t, err, payload)
		require.Equal(t, want, got, payload)
	}

	for _, payload := range []string{"", "many", `{"people": 3}`, `{"person_count": 1.5}`, `[1, 2]`} {
		_, err := parsePayload([]byte(payload), config.DefaultCountField)
		require.ErrorIs(t, err, ErrMalformedCount, payload)
	}

	_, err := parsePayload([]byte("-3"), config.DefaultCountField)
	require.ErrorIs(t, err, ErrNegativeCount)
}

// TestNew_Static builds the static source from configuration.
func TestNew_Static(t *testing.T) {
	t.Parallel()

	source, err := New(context.Background(), &config.Source{
		Kind:   config.SourceStatic,
		Static: config.StaticSource{Counts: []int{1, 2}},
	})
	require.NoError(t, err)

	defer func() {
		_ = source.Close()
	}()

	count, err := source.Count(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

// TestNew_UnknownKind rejects unsupported kinds without returning a typed nil.
func TestNew_UnknownKind(t *testing.T) {
	t.Parallel()

	source, err := New(context.Background(), &config.Source{Kind: "bigquery"})
	require.ErrorIs(t, err, ErrUnknownKind)
	require.Nil(t, source)
}

// TestStatic_Cycles verifies counts wrap around and cancellation is honoured.
func TestStatic_Cycles(t *testing.T) {
	t.Parallel()

	source := NewStatic([]int{30, 38, 45})
	ctx := context.Background()

	var got []int

	for i := 0; i < 5; i++ {
		count, err := source.Count(ctx)
		require.NoError(t, err)

		got = append(got, count)
	}

	require.Equal(t, []int{30, 38, 45, 30, 38}, got)

	_, err := NewStatic(nil).Count(ctx)
	require.ErrorIs(t, err, ErrNoReading)

	_, err = NewStatic([]int{-1}).Count(ctx)
	require.ErrorIs(t, err, ErrNegativeCount)

	canceled, cancel := context.WithCancel(ctx)
	cancel()

	_, err = source.Count(canceled)
	require.ErrorIs(t, err, context.Canceled)
}
