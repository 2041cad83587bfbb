package notifications

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand_Approve(t *testing.T) {
	cmd, ok := ParseCommand("approve abc-123", "42")
	require.True(t, ok)
	assert.Equal(t, CommandApprove, cmd.Kind)
	assert.Equal(t, "abc-123", cmd.SignalID)
	assert.Equal(t, "42", cmd.ChatID)
}

func TestParseCommand_SlashPrefixAndCase(t *testing.T) {
	cmd, ok := ParseCommand("/Reject sig-9", "42")
	require.True(t, ok)
	assert.Equal(t, CommandReject, cmd.Kind)
	assert.Equal(t, "sig-9", cmd.SignalID)
}

func TestParseCommand_Test(t *testing.T) {
	cmd, ok := ParseCommand("test", "42")
	require.True(t, ok)
	assert.Equal(t, CommandTest, cmd.Kind)
	assert.Empty(t, cmd.SignalID)
}

func TestParseCommand_Unrecognized(t *testing.T) {
	for _, text := range []string{"", "   ", "hello", "approve", "reject", "buy BTCUSDT"} {
		_, ok := ParseCommand(text, "42")
		assert.False(t, ok, "text %q", text)
	}
}

func TestCommandListener_FiltersUnauthorizedChat(t *testing.T) {
	listener := NewCommandListener("token", "42", 1)

	update := telegramUpdate{UpdateID: 1}
	update.Message.Text = "approve sig-1"
	update.Message.Chat.ID = 99 // not the authorized chat

	_, ok := listener.parseUpdate(update)
	assert.False(t, ok)

	update.Message.Chat.ID = 42
	cmd, ok := listener.parseUpdate(update)
	require.True(t, ok)
	assert.Equal(t, CommandApprove, cmd.Kind)
}

func TestCommandListener_RunDeliversCommands(t *testing.T) {
	served := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.Contains(r.URL.Path, "getUpdates"))

		var result []telegramUpdate
		if !served {
			served = true
			approve := telegramUpdate{UpdateID: 7}
			approve.Message.Text = "approve sig-1"
			approve.Message.Chat.ID = 42

			// From an unauthorized chat; must be dropped silently.
			intruder := telegramUpdate{UpdateID: 8}
			intruder.Message.Text = "approve sig-2"
			intruder.Message.Chat.ID = 99

			result = append(result, approve, intruder)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"ok":     true,
			"result": result,
		})
	}))
	defer server.Close()

	listener := NewCommandListener("token", "42", 1)
	listener.baseURL = server.URL
	listener.client = server.Client()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go listener.Run(ctx)

	select {
	case got := <-listener.Commands():
		assert.Equal(t, CommandApprove, got.Kind)
		assert.Equal(t, "sig-1", got.SignalID)
	case <-time.After(3 * time.Second):
		t.Fatal("no command received")
	}

	// The unauthorized update never surfaces.
	select {
	case extra := <-listener.Commands():
		t.Fatalf("unexpected command %+v", extra)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestCommandListener_OffsetAdvances(t *testing.T) {
	var mu sync.Mutex
	var offsets []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		offsets = append(offsets, r.URL.Query().Get("offset"))
		first := len(offsets) == 1
		mu.Unlock()

		var result []telegramUpdate
		if first {
			update := telegramUpdate{UpdateID: 10}
			update.Message.Text = "test"
			update.Message.Chat.ID = 42
			result = append(result, update)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"ok":     true,
			"result": result,
		})
	}))
	defer server.Close()

	listener := NewCommandListener("token", "42", 1)
	listener.baseURL = server.URL
	listener.client = server.Client()

	ctx, cancel := context.WithCancel(context.Background())
	go listener.Run(ctx)

	select {
	case got := <-listener.Commands():
		assert.Equal(t, CommandTest, got.Kind)
	case <-time.After(3 * time.Second):
		t.Fatal("no command received")
	}

	// Let at least one more poll land, then stop.
	deadline := time.After(2 * time.Second)
	for {
		mu.Lock()
		done := len(offsets) >= 2
		mu.Unlock()
		if done {
			break
		}
		select {
		case <-deadline:
			t.Fatal("second poll never happened")
		case <-time.After(10 * time.Millisecond):
		}
	}
	cancel()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "0", offsets[0])
	assert.Equal(t, "11", offsets[1])
}
