package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/moyim-dev/moyim/internal/backend"
	"github.com/moyim-dev/moyim/shared/api"
	internal_errors "github.com/moyim-dev/moyim/shared/errors"
	"github.com/moyim-dev/moyim/shared/logger"
)

const (
	// Server pings are expected well inside this window; a silent
	// connection is treated as dead.
	readTimeout = 2 * time.Minute

	writeTimeout = 10 * time.Second
)

// subscribeFrame is sent once after the dial to scope the stream.
type subscribeFrame struct {
	BoardId string `json:"board_id,omitempty"`
	GroupId string `json:"group_id,omitempty"`
}

// Subscribe dials the change-stream websocket and delivers decoded
// events until ctx is cancelled or the connection dies. The stream is
// not reconnected here; the consumer's periodic refresh covers gaps, so
// a dead stream simply closes the channel.
func (c *Client) Subscribe(ctx context.Context, f backend.Filter) (<-chan api.ChangeEvent, error) {
	header := http.Header{}
	if c.token != "" {
		header.Set("Authorization", "Bearer "+c.token)
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.StreamURL, header)
	if err != nil {
		return nil, &internal_errors.NetworkError{Op: "DIAL " + c.StreamURL, Cause: err}
	}

	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(subscribeFrame{BoardId: f.BoardId, GroupId: f.GroupId}); err != nil {
		conn.Close()
		return nil, &internal_errors.NetworkError{Op: "SUBSCRIBE " + c.StreamURL, Cause: err}
	}

	conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPingHandler(func(appData string) error {
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		return conn.WriteMessage(websocket.PongMessage, []byte(appData))
	})

	events := make(chan api.ChangeEvent, 16)

	// Reader owns the connection; the watcher tears it down on ctx
	// cancellation, which unblocks ReadMessage.
	go func() {
		<-ctx.Done()
		conn.Close()
	}()
	go func() {
		defer close(events)
		for {
			_, frame, err := conn.ReadMessage()
			if err != nil {
				if ctx.Err() == nil {
					logger.Log.Warn("change stream closed", "error", err)
				}
				return
			}
			conn.SetReadDeadline(time.Now().Add(readTimeout))

			var ev api.ChangeEvent
			if err := json.Unmarshal(frame, &ev); err != nil {
				logger.Log.Warn("skipping malformed change frame", "error", err)
				continue
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	return events, nil
}
