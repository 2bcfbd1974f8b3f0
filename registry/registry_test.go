package registry

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_EmptyByDefault(t *testing.T) {
	r := New()

	require.False(t, r.IsAccepted("10.0.0.1"))
	require.Equal(t, 0, r.Len())
}

func TestRegistry_AcceptThenQuery(t *testing.T) {
	r := New()

	r.Accept("10.0.0.5")

	require.True(t, r.IsAccepted("10.0.0.5"))
	require.Equal(t, 1, r.Len())
}

func TestRegistry_AcceptIsIdempotent(t *testing.T) {
	r := New()

	r.Accept("10.0.0.5")
	r.Accept("10.0.0.5")

	require.True(t, r.IsAccepted("10.0.0.5"))
	require.Equal(t, 1, r.Len())
}

func TestRegistry_IdentitiesAreIndependent(t *testing.T) {
	r := New()

	r.Accept("10.0.0.1")

	require.True(t, r.IsAccepted("10.0.0.1"))
	require.False(t, r.IsAccepted("10.0.0.2"))
}

func TestRegistry_ConcurrentAccepts(t *testing.T) {
	const clients = 1000

	r := New()

	var wg sync.WaitGroup
	for i := 0; i < clients; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r.Accept(ClientIdentity(fmt.Sprintf("10.%d.%d.%d", i%256, (i/256)%256, i%200)))
		}(i)
	}
	wg.Wait()

	for i := 0; i < clients; i++ {
		id := ClientIdentity(fmt.Sprintf("10.%d.%d.%d", i%256, (i/256)%256, i%200))
		require.True(t, r.IsAccepted(id), "identity %s lost", id)
	}
}

func TestRegistry_ConcurrentReadersAndWriters(t *testing.T) {
	r := New()
	r.Accept("10.0.0.1")

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			r.Accept(ClientIdentity(fmt.Sprintf("192.168.1.%d", i)))
		}(i)
		go func() {
			defer wg.Done()
			assert.True(t, r.IsAccepted("10.0.0.1"))
		}()
	}
	wg.Wait()

	require.Equal(t, 101, r.Len())
}
