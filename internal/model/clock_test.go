package model

import (
	"testing"
	"time"
)

type fakeTime struct {
	t time.Time
}

func (f *fakeTime) now() time.Time {
	return f.t
}

func TestClock(t *testing.T) {
	t.Parallel()
	ft := &fakeTime{t: time.Unix(0, 0)}
	c := NewClock(time.Minute)
	c.now = ft.now

	c.Start()
	ft.t = ft.t.Add(10 * time.Second)
	if got := c.GetTimeLeft(); got != 50*time.Second {
		t.Fatalf("running: got=%v want=50s", got)
	}
	c.Stop()
	ft.t = ft.t.Add(time.Hour)
	if got := c.GetTimeLeft(); got != 50*time.Second {
		t.Fatalf("stopped: got=%v want=50s", got)
	}

	c.Start()
	ft.t = ft.t.Add(2 * time.Minute)
	if got := c.GetTimeLeft(); got != 0 {
		t.Fatalf("flag fell: got=%v want=0", got)
	}

	c.Reset()
	if got := c.GetTimeLeft(); got != time.Minute {
		t.Fatalf("reset: got=%v want=1m", got)
	}
}
