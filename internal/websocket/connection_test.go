package websocket

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestWriteJSONAfterClose(t *testing.T) {
	observer, _ := newConnectionPair(t)

	if err := observer.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	if err := observer.WriteJSON(map[string]string{"k": "v"}); err != ErrConnectionClosed {
		t.Errorf("expected ErrConnectionClosed, got %v", err)
	}
}

func TestConcurrentWritesDuringClose(t *testing.T) {
	observer, _ := newConnectionPair(t)

	// Writers racing Close must only ever see ErrConnectionClosed or
	// success, never a panic from a closed channel
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if err := observer.WriteJSON(map[string]int{"seq": j}); err != nil && err != ErrConnectionClosed && err != ErrWriteTimeout {
					t.Errorf("unexpected write error: %v", err)
					return
				}
			}
		}()
	}

	time.Sleep(5 * time.Millisecond)
	_ = observer.Close()
	wg.Wait()
}

func TestConnectionHonorsConfiguredBuffer(t *testing.T) {
	observer, _ := newConnectionPair(t)
	defer observer.Close()

	cfg := Config{
		PingInterval: time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: 50 * time.Millisecond,
		BufferSize:   5,
	}
	conn := NewConnection(observer.conn, uuid.New().String(), cfg)
	defer conn.Close()

	if got := cap(conn.writeCh); got != 5 {
		t.Errorf("write buffer capacity = %d, expected 5", got)
	}
	if conn.writeTimeout != 50*time.Millisecond {
		t.Errorf("write timeout = %v, expected 50ms", conn.writeTimeout)
	}
}
