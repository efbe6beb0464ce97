package keepalive

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/akademflow/backend/testutil"
)

func newPinger(url string, interval time.Duration) (*Pinger, *testutil.Logger) {
	conf := testutil.NewConfig()
	conf.KeepAlive.URL = url
	conf.KeepAlive.Interval = interval
	logger := testutil.NewLogger()
	return NewPinger(conf, logger), logger
}

func TestPinger_Run(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("pong"))
	}))
	defer srv.Close()

	p, logger := newPinger(srv.URL, 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&hits) >= 3 }, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run() did not return after cancellation")
	}
	assert.Len(t, logger.Entries("warn"), 1, "only the 503 is logged")
}

func TestPinger_Run_disabled(t *testing.T) {
	p, _ := newPinger("", time.Millisecond)
	done := make(chan struct{})
	go func() {
		p.Run(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run() without url must return immediately")
	}
}

func TestPinger_Ping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	p, _ := newPinger(srv.URL, time.Minute)
	assert.Error(t, p.Ping(context.Background()))

	p, _ = newPinger("http://127.0.0.1:1", time.Minute)
	assert.Error(t, p.Ping(context.Background()))
}
