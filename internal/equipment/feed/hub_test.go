package feed

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorillaWS "github.com/gorilla/websocket"

	commonerrors "github.com/gnr-surgicals/inventory/internal/common/errors"
	"github.com/gnr-surgicals/inventory/internal/common/jwtverify"
	"github.com/gnr-surgicals/inventory/internal/common/logger"
	"github.com/gnr-surgicals/inventory/internal/equipment/domain"
)

type mockVerifier struct {
	verifyFunc func(token string) (jwtverify.Claims, error)
}

func (m *mockVerifier) Verify(token string) (jwtverify.Claims, error) {
	return m.verifyFunc(token)
}

func acceptToken(valid string) *mockVerifier {
	return &mockVerifier{
		verifyFunc: func(token string) (jwtverify.Claims, error) {
			if token != valid {
				return jwtverify.Claims{}, commonerrors.ErrInvalidToken
			}
			return jwtverify.Claims{AccountID: "acc-1", Username: "gnrr"}, nil
		},
	}
}

func setupFeed(t *testing.T) (*Hub, *httptest.Server, context.CancelFunc) {
	t.Helper()

	log := logger.NewWriter(io.Discard, "test", "ERROR")
	hub := NewHub(log)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	srv := httptest.NewServer(NewHandler(hub, acceptToken("good"), nil, log))
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return hub, srv, cancel
}

func dial(t *testing.T, srv *httptest.Server, token string) (*gorillaWS.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/equipment?token=" + token
	return gorillaWS.DefaultDialer.Dial(url, nil)
}

func waitForClients(t *testing.T, hub *Hub, n int64) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d clients, have %d", n, hub.ClientCount())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestFeed_BroadcastsEvents(t *testing.T) {
	hub, srv, _ := setupFeed(t)

	conn, _, err := dial(t, srv, "good")
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	waitForClients(t, hub, 1)

	item := domain.Equipment{ID: "eq-1", Name: "Surgical Scissors", SKU: "SS001"}
	hub.Publish(Event{Type: EventCreated, ID: item.ID, Equipment: &item})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var got Event
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Type != EventCreated || got.Equipment == nil || got.Equipment.SKU != "SS001" {
		t.Fatalf("unexpected event %+v", got)
	}
}

func TestFeed_RejectsInvalidToken(t *testing.T) {
	_, srv, _ := setupFeed(t)

	_, resp, err := dial(t, srv, "bad")
	if err == nil {
		t.Fatal("expected handshake failure")
	}
	if !errors.Is(err, gorillaWS.ErrBadHandshake) {
		t.Fatalf("expected bad handshake, got %v", err)
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 response, got %+v", resp)
	}
}

func TestFeed_UnregistersOnClose(t *testing.T) {
	hub, srv, _ := setupFeed(t)

	conn, _, err := dial(t, srv, "good")
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	waitForClients(t, hub, 1)

	conn.Close()
	waitForClients(t, hub, 0)
}

func TestFeed_ShutdownNotifiesClients(t *testing.T) {
	hub, srv, cancel := setupFeed(t)

	conn, _, err := dial(t, srv, "good")
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	waitForClients(t, hub, 1)

	cancel()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var got Event
	if err := json.Unmarshal(data, &got); err != nil || got.Type != EventShutdown {
		t.Fatalf("expected shutdown event, got %s (%v)", data, err)
	}

	// Publishing after shutdown must not block.
	hub.Publish(Event{Type: EventDeleted, ID: "eq-1"})
}
