package model

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/benbeisheim/chess-maestro/internal/ws"
)

func TestGameConnections(t *testing.T) {
	t.Parallel()
	gc := NewGameConnections(nil)
	first, dup, broken := &fakeConn{}, &fakeConn{}, &fakeConn{fail: true}

	if !gc.Register("alice", first) {
		t.Fatalf("first connection should register")
	}
	if gc.Register("alice", dup) {
		t.Fatalf("duplicate connection should be rejected")
	}
	if !dup.closed {
		t.Fatalf("duplicate connection should be closed")
	}
	gc.Register("bob", broken)

	gc.Broadcast("g1", GameState{ID: "g1"})
	if got := first.last(t); got.ID != "g1" {
		t.Fatalf("payload id: got=%q", got.ID)
	}
	if gc.Len() != 1 {
		t.Fatalf("failed connection should be dropped, have %d", gc.Len())
	}

	gc.Unregister("alice", dup)
	if gc.Len() != 1 {
		t.Fatalf("stale unregister removed the live connection")
	}
	gc.Unregister("alice", first)
	if gc.Len() != 0 {
		t.Fatalf("connections left: %d", gc.Len())
	}
}

// overlapConn records the most writes it has seen in flight at once.
type overlapConn struct {
	inflight atomic.Int32
	peak     atomic.Int32
	writes   atomic.Int32
}

func (c *overlapConn) WriteJSON(interface{}) error {
	n := c.inflight.Add(1)
	for {
		p := c.peak.Load()
		if n <= p || c.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(time.Millisecond)
	c.inflight.Add(-1)
	c.writes.Add(1)
	return nil
}

func (c *overlapConn) WriteMessage(int, []byte) error { return nil }

func (c *overlapConn) Close() error { return nil }

func TestBroadcastSerializesWrites(t *testing.T) {
	t.Parallel()
	g, err := NewGame("g1", ModeLocal, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := g.AddPlayer("alice"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	raw := &overlapConn{}
	conn := NewSyncConn(raw)
	g.RegisterConnection("alice", conn)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = g.Select("alice", sq(6, i%8))
		}(i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = conn.WriteJSON(ws.ErrorMessage("not your turn"))
		}()
	}
	wg.Wait()

	if peak := raw.peak.Load(); peak != 1 {
		t.Fatalf("overlapping writes on one connection: %d", peak)
	}
	if writes := raw.writes.Load(); writes != 41 {
		t.Fatalf("writes: got=%d want=41", writes)
	}
}

func TestNewSyncConnReusesWrapper(t *testing.T) {
	t.Parallel()
	sc := NewSyncConn(&fakeConn{})
	if NewSyncConn(sc) != sc {
		t.Fatalf("wrapping a SyncConn should return it unchanged")
	}

	gc := NewGameConnections(nil)
	gc.Register("alice", sc)
	gc.Unregister("alice", sc)
	if gc.Len() != 0 {
		t.Fatalf("unregister by the registered wrapper left %d connections", gc.Len())
	}
}
