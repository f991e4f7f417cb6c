package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"StratScan/internal/domain/models"
	"StratScan/pkg/config"
)

func startHub(t *testing.T) (*SignalHub, string) {
	t.Helper()
	hub := NewSignalHub(config.WebSocketConfig{WriteTimeout: time.Second, PingInterval: time.Minute, SendBuffer: 4}, nil)
	e := echo.New()
	hub.RegisterRoutes(e)
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/signals"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitClients(t *testing.T, hub *SignalHub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.Clients() != n {
		if time.Now().After(deadline) {
			t.Fatalf("clients=%d want %d", hub.Clients(), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func readResult(t *testing.T, conn *websocket.Conn) models.ScanResult {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var res models.ScanResult
	if err := conn.ReadJSON(&res); err != nil {
		t.Fatalf("read: %v", err)
	}
	return res
}

func TestHubBroadcastsScanResults(t *testing.T) {
	hub, url := startHub(t)
	a, b := dial(t, url), dial(t, url)
	waitClients(t, hub, 2)

	res := &models.ScanResult{ID: "scan-7", Markets: 3, Response: models.EmptySignalResponse()}
	if err := hub.Publish(context.Background(), res); err != nil {
		t.Fatalf("publish: %v", err)
	}
	for _, conn := range []*websocket.Conn{a, b} {
		if got := readResult(t, conn); got.ID != "scan-7" || got.Markets != 3 {
			t.Fatalf("got %+v", got)
		}
	}
}

func TestHubReplaysLatestResultToNewClients(t *testing.T) {
	hub, url := startHub(t)
	if err := hub.Publish(context.Background(), &models.ScanResult{ID: "before"}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	conn := dial(t, url)
	if got := readResult(t, conn); got.ID != "before" {
		t.Fatalf("got %+v", got)
	}
}

func TestHubForgetsDisconnectedClients(t *testing.T) {
	hub, url := startHub(t)
	conn := dial(t, url)
	waitClients(t, hub, 1)
	conn.Close()
	waitClients(t, hub, 0)

	if err := hub.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	late := dial(t, url)
	_ = late.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := late.ReadMessage(); err == nil {
		t.Fatalf("closed hub kept a new client open")
	}
	if hub.Clients() != 0 {
		t.Fatalf("closed hub registered a client")
	}
}

func TestScanResultEncoding(t *testing.T) {
	b, err := json.Marshal(&models.ScanResult{ID: "x", Response: models.EmptySignalResponse()})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"signals":[]`) {
		t.Fatalf("empty lists must encode as arrays: %s", b)
	}
}
