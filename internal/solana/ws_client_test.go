package solana

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/Reddjoseph/DEMOHZK/internal/observability"
)

// wsTestServer accepts WebSocket connections and answers accountSubscribe
// requests. The first connection is dropped right after confirming the
// subscription, forcing the client through its reconnect path.
func wsTestServer(t *testing.T, subscribed chan<- int64) *httptest.Server {
	t.Helper()

	var connSeq, subSeq atomic.Int64
	upgrader := websocket.Upgrader{}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		connNum := connSeq.Add(1)

		for {
			var req map[string]interface{}
			if err := conn.ReadJSON(&req); err != nil {
				return
			}
			if req["method"] != "accountSubscribe" {
				continue
			}
			resp := map[string]interface{}{
				"jsonrpc": "2.0",
				"id":      req["id"],
				"result":  subSeq.Add(1),
			}
			if err := conn.WriteJSON(resp); err != nil {
				return
			}
			select {
			case subscribed <- connNum:
			default:
			}
			if connNum == 1 {
				return
			}
		}
	}))
}

func TestWSClientReconnectResubscribesAndCounts(t *testing.T) {
	subscribed := make(chan int64, 4)
	server := wsTestServer(t, subscribed)
	defer server.Close()

	cfg := WSClientConfig{
		ReconnectDelay:    10 * time.Millisecond,
		MaxReconnectDelay: 50 * time.Millisecond,
		PingInterval:      time.Minute,
		ReadTimeout:       time.Minute,
		WriteTimeout:      time.Second,
	}
	endpoint := "ws" + strings.TrimPrefix(server.URL, "http")

	client, err := NewWSClient(context.Background(), endpoint, &cfg)
	if err != nil {
		t.Fatalf("NewWSClient: %v", err)
	}
	defer client.Close()

	before := testutil.ToFloat64(observability.DefaultMetrics.WSReconnects)

	if _, err := client.SubscribeAccount(context.Background(), "someAccount"); err != nil {
		t.Fatalf("SubscribeAccount: %v", err)
	}
	if got := waitSubscribe(t, subscribed); got != 1 {
		t.Fatalf("first subscribe on connection %d, want 1", got)
	}

	// The server dropped the connection; the client must dial again and
	// resubscribe on its own.
	if got := waitSubscribe(t, subscribed); got != 2 {
		t.Fatalf("resubscribe on connection %d, want 2", got)
	}

	after := testutil.ToFloat64(observability.DefaultMetrics.WSReconnects)
	if after != before+1 {
		t.Errorf("ws_reconnects_total = %v, want %v", after, before+1)
	}
}

func waitSubscribe(t *testing.T, subscribed <-chan int64) int64 {
	t.Helper()
	select {
	case n := <-subscribed:
		return n
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for accountSubscribe")
		return 0
	}
}
