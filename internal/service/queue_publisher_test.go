package service

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/theater-billing/internal/queue"
)

// silentBroker accepts TCP connections and never speaks AMQP.
func silentBroker(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	done := make(chan struct{})
	t.Cleanup(func() {
		close(done)
		_ = ln.Close()
	})
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func() {
				<-done
				_ = conn.Close()
			}()
		}
	}()
	return "amqp://guest:guest@" + ln.Addr().String() + "/"
}

func TestQueuePublisher_DialRespectsDeadline(t *testing.T) {
	t.Parallel()

	log := logrus.New()
	log.SetOutput(io.Discard)
	pub := NewQueuePublisher(silentBroker(t), log)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := pub.PublishStatementIssued(ctx, queue.StatementIssuedEvent{StatementID: "st-1"})
	elapsed := time.Since(start)
	if err == nil {
		t.Fatalf("expected error from silent broker")
	}
	if elapsed > 2*time.Second {
		t.Fatalf("expected publish to give up near the 300ms deadline, took %s", elapsed)
	}
}

func TestDialTimeout(t *testing.T) {
	t.Parallel()

	if got := dialTimeout(context.Background()); got != defaultDialTimeout {
		t.Fatalf("expected default %s, got %s", defaultDialTimeout, got)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if got := dialTimeout(ctx); got <= 0 || got > time.Second {
		t.Fatalf("expected remaining time within 1s, got %s", got)
	}
	expired, cancel2 := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel2()
	if got := dialTimeout(expired); got != time.Millisecond {
		t.Fatalf("expected 1ms for expired ctx, got %s", got)
	}
}
