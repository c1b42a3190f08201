package occupancy

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/crowd-alarm/internal/config"
)

const testRedisKey = "hall:count"

// closedAddress returns a local address nothing listens on.
func closedAddress(t *testing.T) string {
	t.Helper()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	address := lis.Addr().String()
	require.NoError(t, lis.Close())

	return address
}

// TestRedis_Count reads the key on every call.
func TestRedis_Count(t *testing.T) {
	t.Parallel()

	server := miniredis.RunT(t)
	ctx := context.Background()

	source, err := OpenRedis(ctx, &config.RedisSource{Addr: server.Addr(), Key: testRedisKey})
	require.NoError(t, err)

	defer func() {
		_ = source.Close()
	}()

	_, err = source.Count(ctx)
	require.ErrorIs(t, err, ErrNoReading)

	cases := []struct {
		value string
		want  int
		err   error
	}{
		{value: "42", want: 42},
		{value: " 38\n", want: 38},
		{value: "0", want: 0},
		{value: "-3", err: ErrNegativeCount},
		{value: "forty", err: ErrMalformedCount},
		{value: "4.5", err: ErrMalformedCount},
	}

	for _, tc := range cases {
		require.NoError(t, server.Set(testRedisKey, tc.value))

		count, err := source.Count(ctx)
		if tc.err != nil {
			require.ErrorIs(t, err, tc.err, tc.value)
			continue
		}

		require.NoError(t, err, tc.value)
		require.Equal(t, tc.want, count, tc.value)
	}
}

// TestRedis_Password authenticates with the configured password.
func TestRedis_Password(t *testing.T) {
	t.Parallel()

	server := miniredis.RunT(t)
	server.RequireAuth("s3cret")
	require.NoError(t, server.Set(testRedisKey, "5"))

	ctx := context.Background()

	_, err := OpenRedis(ctx, &config.RedisSource{Addr: server.Addr(), Key: testRedisKey})
	require.Error(t, err)

	source, err := OpenRedis(ctx, &config.RedisSource{Addr: server.Addr(), Password: "s3cret", Key: testRedisKey})
	require.NoError(t, err)

	defer func() {
		_ = source.Close()
	}()

	count, err := source.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 5, count)
}

// TestRedis_Unreachable fails fast when nothing listens.
func TestRedis_Unreachable(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	source, err := OpenRedis(ctx, &config.RedisSource{Addr: closedAddress(t), Key: testRedisKey})
	require.Error(t, err)
	require.Nil(t, source)
}
