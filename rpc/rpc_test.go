package rpc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const serverAddress = "localhost:17341"

func TestRPCClientServerRoundTrip(t *testing.T) {
	server := NewServer()
	require.NoError(t, server.Register())

	go func() {
		_ = server.Start(serverAddress)
	}()
	time.Sleep(100 * time.Millisecond)

	client, err := NewClient(serverAddress)
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.InitMemory(1000))

	id, err := client.Malloc(100)
	require.NoError(t, err)
	require.NoError(t, client.Free(id))

	stats, err := client.Stats()
	require.NoError(t, err)
	require.False(t, stats.IsBuddy)
	require.Equal(t, uint64(1), stats.AllocSuccess)
}

func TestRPCBuddyStatsDispatch(t *testing.T) {
	server := NewServer()
	require.NoError(t, server.Register())

	addr := "localhost:17342"
	go func() {
		_ = server.Start(addr)
	}()
	time.Sleep(100 * time.Millisecond)

	client, err := NewClient(addr)
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.InitMemory(1000))
	require.NoError(t, client.BuddyInit(1024))

	id, err := client.BuddyMalloc(100)
	require.NoError(t, err)
	require.NoError(t, client.BuddyFree(id))

	// Once a buddy allocator exists, Stats dispatches to it even though the
	// partition allocator was also initialized.
	stats, err := client.Stats()
	require.NoError(t, err)
	require.True(t, stats.IsBuddy)
}

func TestRPCAccessReportsHit(t *testing.T) {
	server := NewServer()
	require.NoError(t, server.Register())

	addr := "localhost:17343"
	go func() {
		_ = server.Start(addr)
	}()
	time.Sleep(100 * time.Millisecond)

	client, err := NewClient(addr)
	require.NoError(t, err)
	defer client.Close()

	hit1, err := client.Access(0)
	require.NoError(t, err)
	require.False(t, hit1)

	hit2, err := client.Access(0)
	require.NoError(t, err)
	require.True(t, hit2)
}
