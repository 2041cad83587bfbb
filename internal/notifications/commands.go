package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	maxPollBackoff = time.Minute
	minPollBackoff = time.Second
)

// CommandListener long-polls the Telegram getUpdates endpoint and turns
// recognized messages into Commands. Commands from any chat other than the
// authorized one are silently ignored. Transport failures restart the poll
// with bounded backoff; the consumer only ever sees the command stream.
type CommandListener struct {
	baseURL     string
	token       string
	authChatID  string
	pollTimeout int
	client      *http.Client
	commands    chan Command
}

// NewCommandListener creates a listener bound to one authorized chat.
func NewCommandListener(token, authorizedChatID string, pollTimeoutSec int) *CommandListener {
	if pollTimeoutSec <= 0 {
		pollTimeoutSec = 30
	}
	return &CommandListener{
		baseURL:     "https://api.telegram.org",
		token:       token,
		authChatID:  authorizedChatID,
		pollTimeout: pollTimeoutSec,
		client: &http.Client{
			// Above the long-poll timeout so the server closes first.
			Timeout: time.Duration(pollTimeoutSec+5) * time.Second,
		},
		commands: make(chan Command, 16),
	}
}

// Commands returns the inbound command stream. Closed when Run exits.
func (cl *CommandListener) Commands() <-chan Command {
	return cl.commands
}

// Run polls until the context is cancelled.
func (cl *CommandListener) Run(ctx context.Context) {
	defer close(cl.commands)

	offset := 0
	backoff := minPollBackoff

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		updates, nextOffset, err := cl.getUpdates(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("Command poll error: %v, retrying in %s", err, backoff)
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			if backoff *= 2; backoff > maxPollBackoff {
				backoff = maxPollBackoff
			}
			continue
		}
		backoff = minPollBackoff
		offset = nextOffset

		for _, update := range updates {
			cmd, ok := cl.parseUpdate(update)
			if !ok {
				continue
			}
			select {
			case cl.commands <- cmd:
			case <-ctx.Done():
				return
			}
		}
	}
}

type telegramUpdate struct {
	UpdateID int `json:"update_id"`
	Message  struct {
		Text string `json:"text"`
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
	} `json:"message"`
}

func (cl *CommandListener) getUpdates(ctx context.Context, offset int) ([]telegramUpdate, int, error) {
	url := fmt.Sprintf("%s/bot%s/getUpdates?offset=%d&timeout=%d",
		cl.baseURL, cl.token, offset, cl.pollTimeout)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, offset, err
	}

	resp, err := cl.client.Do(req)
	if err != nil {
		return nil, offset, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, offset, fmt.Errorf("getUpdates returned status %d", resp.StatusCode)
	}

	var payload struct {
		OK     bool             `json:"ok"`
		Result []telegramUpdate `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, offset, fmt.Errorf("failed to decode updates: %w", err)
	}
	if !payload.OK {
		return nil, offset, fmt.Errorf("getUpdates returned ok=false")
	}

	next := offset
	for _, u := range payload.Result {
		if u.UpdateID >= next {
			next = u.UpdateID + 1
		}
	}
	return payload.Result, next, nil
}

func (cl *CommandListener) parseUpdate(update telegramUpdate) (Command, bool) {
	chatID := strconv.FormatInt(update.Message.Chat.ID, 10)
	if chatID != cl.authChatID {
		return Command{}, false
	}
	return ParseCommand(update.Message.Text, chatID)
}

// ParseCommand matches the fixed keywords of the command surface:
// "approve <id>", "reject <id>" and "test". Anything else is ignored.
func ParseCommand(text, chatID string) (Command, bool) {
	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) == 0 {
		return Command{}, false
	}

	keyword := strings.ToLower(strings.TrimPrefix(fields[0], "/"))
	switch keyword {
	case "approve":
		if len(fields) < 2 {
			return Command{}, false
		}
		return Command{Kind: CommandApprove, SignalID: fields[1], ChatID: chatID}, true
	case "reject":
		if len(fields) < 2 {
			return Command{}, false
		}
		return Command{Kind: CommandReject, SignalID: fields[1], ChatID: chatID}, true
	case "test":
		return Command{Kind: CommandTest, ChatID: chatID}, true
	default:
		return Command{}, false
	}
}
