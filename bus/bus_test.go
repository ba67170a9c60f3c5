// bus/bus_test.go
package bus

import (
	"context"
	"sort"
	"testing"
	"time"
)

func TestBasicPubSub(t *testing.T) {
	b := NewBus(4)
	conn := b.NewConnection("test")

	sub := conn.Subscribe(T("piico", "connected"))
	conn.Publish(conn.NewMessage(T("piico", "connected"), "hello", false))

	expectOneOf(t, sub, "hello")
}

func TestRetainedMessage(t *testing.T) {
	b := NewBus(2)
	conn := b.NewConnection("test")

	conn.Publish(conn.NewMessage(T("piico", "report"), "persist", true))
	sub := conn.Subscribe(T("piico", "report"))

	expectOneOf(t, sub, "persist")
}

func TestIntTokens(t *testing.T) {
	b := NewBus(4)
	c := b.NewConnection("test")

	s := c.Subscribe(T("bus", 0, "scan"))
	c.Publish(b.NewMessage(T("bus", 1, "scan"), "wrong", false))
	c.Publish(b.NewMessage(T("bus", 0, "scan"), "right", false))
	expectOneOf(t, s, "right")
	expectNoMessage(t, s)

	if got := T("bus", 0, "scan").String(); got != "bus/0/scan" {
		t.Fatalf("String() = %q", got)
	}
}

func TestQueueDropsOldest(t *testing.T) {
	b := NewBus(2)
	c := b.NewConnection("test")
	s := c.Subscribe(T("x"))

	for _, p := range []string{"1", "2", "3"} {
		c.Publish(b.NewMessage(T("x"), p, false))
	}
	got := drainPayloads(t, s, 2)
	if got[0] != "2" || got[1] != "3" {
		t.Fatalf("queue = %v, want [2 3]", got)
	}
}

// -----------------------------------------------------------------------------
// Wildcards
// -----------------------------------------------------------------------------

func TestWildcard_SingleLevel(t *testing.T) {
	b := NewBus(16)
	c := b.NewConnection("test")

	s1 := c.Subscribe(Topic{"piico", "+", "rescan"})
	s2 := c.Subscribe(Topic{"piico", "+", "+"})
	sNo := c.Subscribe(Topic{"piico", "+", "clear"})

	c.Publish(b.NewMessage(Topic{"piico", "control", "rescan"}, "m1", false))
	expectOneOf(t, s1, "m1")
	expectOneOf(t, s2, "m1")
	expectNoMessage(t, sNo)

	c.Publish(b.NewMessage(Topic{"piico", "report"}, "m2", false))
	expectNoMessage(t, s1)
	expectNoMessage(t, s2)
}

func TestWildcard_MultiLevel(t *testing.T) {
	b := NewBus(16)
	c := b.NewConnection("test")

	sPiico := c.Subscribe(T("piico", "#"))
	sAll := c.Subscribe(T("#"))
	sCtrl := c.Subscribe(T("piico", "control", "#"))
	sExact := c.Subscribe(T("piico"))

	c.Publish(b.NewMessage(T("piico"), "bare", false))
	expectOneOf(t, sPiico, "bare")
	expectOneOf(t, sAll, "bare")
	expectOneOf(t, sExact, "bare")
	expectNoMessage(t, sCtrl)

	c.Publish(b.NewMessage(T("piico", "control", "clear"), "clr", false))
	expectOneOf(t, sPiico, "clr")
	expectOneOf(t, sAll, "clr")
	expectOneOf(t, sCtrl, "clr")
	expectNoMessage(t, sExact)

	c.Publish(b.NewMessage(T("config", "piico"), "cfg", false))
	expectOneOf(t, sAll, "cfg")
	expectNoMessage(t, sPiico)
}

func TestWildcard_RetainedDelivery(t *testing.T) {
	b := NewBus(32)
	c := b.NewConnection("test")

	c.Publish(b.NewMessage(T("piico"), "root", true))
	c.Publish(b.NewMessage(T("piico", "report"), "report", true))
	c.Publish(b.NewMessage(T("piico", "status"), "status", true))
	c.Publish(b.NewMessage(T("piico", "status", "bus", 0), "bus0", true))
	c.Publish(b.NewMessage(T("config", "piico"), "cfg", true))

	assertUnorderedEqual(t, drainPayloads(t, c.Subscribe(T("piico", "#")), 4), []string{"root", "report", "status", "bus0"})
	assertUnorderedEqual(t, drainPayloads(t, c.Subscribe(T("piico", "+")), 2), []string{"report", "status"})
	assertUnorderedEqual(t, drainPayloads(t, c.Subscribe(T("+", "piico")), 1), []string{"cfg"})
}

func TestWildcard_RetainedClear(t *testing.T) {
	b := NewBus(16)
	c := b.NewConnection("test")

	c.Publish(b.NewMessage(T("piico", "report"), "stale", true))
	c.Publish(b.NewMessage(T("piico", "status"), "status", true))
	c.Publish(b.NewMessage(T("piico", "report"), nil, true))

	got := drainPayloads(t, c.Subscribe(T("piico", "#")), 1)
	if got[0] != "status" {
		t.Fatalf("want only the status after clearing the report, got %v", got)
	}
	expectNoMessage(t, c.Subscribe(T("piico", "report")))
}

// -----------------------------------------------------------------------------
// Connections
// -----------------------------------------------------------------------------

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := NewBus(4)
	c := b.NewConnection("test")
	s := c.Subscribe(T("x"))
	c.Unsubscribe(s)
	c.Unsubscribe(s)

	if _, ok := <-s.Channel(); ok {
		t.Fatal("channel still open after Unsubscribe")
	}
	c.Publish(b.NewMessage(T("x"), "late", false))
}

func TestDisconnectClosesAll(t *testing.T) {
	b := NewBus(4)
	c := b.NewConnection("test")
	s1 := c.Subscribe(T("x"))
	s2 := c.Subscribe(T("y", "#"))
	c.Disconnect()

	for _, s := range []*Subscription{s1, s2} {
		if _, ok := <-s.Channel(); ok {
			t.Fatalf("%v still open after Disconnect", s.Topic())
		}
	}
}

// -----------------------------------------------------------------------------
// Request–Reply
// -----------------------------------------------------------------------------

func TestRequestReply_RequestWait(t *testing.T) {
	b := NewBus(8)
	reqConn := b.NewConnection("requester")
	respConn := b.NewConnection("responder")

	reqTopic := T("piico", "control", "rescan")
	respSub := respConn.Subscribe(reqTopic)
	defer respConn.Unsubscribe(respSub)

	go func() {
		if msg, ok := <-respSub.Channel(); ok {
			respConn.Reply(msg, "OK", false)
		}
	}()

	req := b.NewMessage(reqTopic, nil, false)
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	reply, err := reqConn.RequestWait(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error waiting for reply: %v", err)
	}
	if got, ok := reply.Payload.(string); !ok || got != "OK" {
		t.Fatalf("unexpected reply payload: %#v", reply.Payload)
	}
	if !topicsEqual(reply.Topic, req.ReplyTo) {
		t.Fatalf("reply topic %v != request ReplyTo %v", reply.Topic, req.ReplyTo)
	}
}

func TestRequestReply_Timeout(t *testing.T) {
	b := NewBus(8)
	reqConn := b.NewConnection("requester")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := reqConn.RequestWait(ctx, b.NewMessage(T("service", "noop"), nil, false)); err == nil {
		t.Fatal("expected timeout error, got nil")
	}
}

func TestReplyWithoutReplyToIsIgnored(t *testing.T) {
	b := NewBus(4)
	c := b.NewConnection("test")
	s := c.Subscribe(T("#"))
	c.Reply(b.NewMessage(T("x"), nil, false), "ignored", false)
	expectNoMessage(t, s)
}

func TestTopic_InvalidTokenPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic for non-comparable token, got none")
		}
	}()
	_ = T([]byte{1, 2, 3})
}

// -----------------------------------------------------------------------------
// helpers
// -----------------------------------------------------------------------------

func topicsEqual(a, b Topic) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func expectOneOf(t *testing.T, sub *Subscription, want string) {
	t.Helper()
	select {
	case got := <-sub.Channel():
		s, ok := got.Payload.(string)
		if !ok || s != want {
			t.Fatalf("unexpected payload: %v (want %q)", got.Payload, want)
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatalf("timeout waiting for %q", want)
	}
}

func expectNoMessage(t *testing.T, sub *Subscription) {
	t.Helper()
	select {
	case got := <-sub.Channel():
		t.Fatalf("unexpected message: %#v", got)
	case <-time.After(60 * time.Millisecond):
	}
}

func drainPayloads(t *testing.T, sub *Subscription, n int) []string {
	t.Helper()
	var out []string
	deadline := time.Now().Add(300 * time.Millisecond)
	for len(out) < n && time.Now().Before(deadline) {
		select {
		case m := <-sub.Channel():
			s, ok := m.Payload.(string)
			if !ok {
				t.Fatalf("non-string payload in drain: %#v", m.Payload)
			}
			out = append(out, s)
		case <-time.After(10 * time.Millisecond):
		}
	}
	if len(out) != n {
		t.Fatalf("drainPayloads: expected %d messages, got %d (%v)", n, len(out), out)
	}
	return out
}

func assertUnorderedEqual(t *testing.T, got, want []string) {
	t.Helper()
	sort.Strings(got)
	sort.Strings(want)
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d (%v vs %v)", len(got), len(want), got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("mismatch at %d: got %q, want %q", i, got[i], want[i])
		}
	}
}
