package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestFIFOFromSingleProducer(t *testing.T) {
	q := New[int]()
	for i := 0; i < 100; i++ {
		require.NoError(t, q.Send(i))
	}
	require.Equal(t, 100, q.Len())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	for i := 0; i < 100; i++ {
		v, err := q.Recv(ctx)
		require.NoError(t, err)
		require.Equal(t, i, v)
	}
	_, ok := q.TryRecv()
	require.False(t, ok)
}

func TestReadyRearmsWhileItemsRemain(t *testing.T) {
	q := New[string]()
	require.NoError(t, q.Send("a"))
	require.NoError(t, q.Send("b"))

	for _, want := range []string{"a", "b"} {
		select {
		case <-q.Ready():
		case <-time.After(time.Second):
			t.Fatalf("ready did not fire for %q", want)
		}
		got, ok := q.TryRecv()
		require.True(t, ok)
		require.Equal(t, want, got)
	}

	select {
	case <-q.Ready():
		t.Fatalf("ready fired on an empty queue")
	default:
	}
}

func TestSendAfterCloseFails(t *testing.T) {
	q := New[int]()
	require.NoError(t, q.Send(1))
	q.Close()
	q.Close()

	require.True(t, q.Closed())
	require.ErrorIs(t, q.Send(2), ErrClosed)
	require.Equal(t, 0, q.Len())
}

func TestManyProducersNeverBlock(t *testing.T) {
	q := New[int]()
	const producers, per = 8, 250

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < per; i++ {
				_ = q.Send(p*per + i)
			}
		}(p)
	}
	wg.Wait()

	seen := make(map[int]bool, producers*per)
	lastByProducer := make(map[int]int)
	for {
		v, ok := q.TryRecv()
		if !ok {
			break
		}
		p := v / per
		if last, ok := lastByProducer[p]; ok {
			require.Greater(t, v, last, "producer %d out of order", p)
		}
		lastByProducer[p] = v
		seen[v] = true
	}
	require.Len(t, seen, producers*per)
}

func TestRecvHonoursContext(t *testing.T) {
	q := New[int]()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := q.Recv(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
