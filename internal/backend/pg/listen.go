package pg

import (
	"context"
	"encoding/json"
	"time"

	"github.com/lib/pq"

	"github.com/moyim-dev/moyim/internal/backend"
	"github.com/moyim-dev/moyim/shared/api"
	"github.com/moyim-dev/moyim/shared/logger"
)

// Change stream over LISTEN/NOTIFY. A row trigger on the comments table
// emits a JSON payload on the comments_changes channel for every
// insert/update/delete; insert payloads are re-read with their author
// joined in before delivery.

const (
	notifyChannel = "comments_changes"

	minReconnectInterval = 10 * time.Second
	maxReconnectInterval = time.Minute
	pingInterval         = 90 * time.Second
)

type notifyPayload struct {
	Op     string `json:"op"`
	Table  string `json:"table"`
	Record struct {
		Id        string    `json:"id"`
		PostId    string    `json:"post_id"`
		ParentId  string    `json:"parent_id"`
		AuthorId  string    `json:"author_id"`
		Content   string    `json:"content"`
		CreatedAt time.Time `json:"created_at"`
	} `json:"record"`
}

// Subscribe opens the change stream. NOTIFY has no server-side
// per-subscriber filtering, so the full comment stream is delivered and
// scoping happens in the merge reducer (events for posts outside the
// working set fall out as no-targets).
func (s *Storage) Subscribe(ctx context.Context, _ backend.Filter) (<-chan api.ChangeEvent, error) {
	listener := pq.NewListener(s.connStr, minReconnectInterval, maxReconnectInterval,
		func(ev pq.ListenerEventType, err error) {
			if err != nil {
				logger.Log.Error("listener event", "component", "pg", "event", ev, "error", err)
			}
		})
	if err := listener.Listen(notifyChannel); err != nil {
		listener.Close()
		return nil, err
	}

	ch := make(chan api.ChangeEvent, 16)
	go func() {
		defer close(ch)
		defer listener.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case n := <-listener.Notify:
				if n == nil {
					// connection was re-established; missed events are
					// healed by the next consistency refresh
					continue
				}
				ev, ok := s.decodeNotification(ctx, n.Extra)
				if !ok {
					continue
				}
				select {
				case ch <- ev:
				case <-ctx.Done():
					return
				}
			case <-time.After(pingInterval):
				go listener.Ping()
			}
		}
	}()
	return ch, nil
}

func (s *Storage) decodeNotification(ctx context.Context, payload string) (api.ChangeEvent, bool) {
	var p notifyPayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		logger.Log.Error("undecodable notify payload", "component", "pg", "error", err)
		return api.ChangeEvent{}, false
	}

	ev := api.ChangeEvent{Op: api.Operation(p.Op), Table: p.Table}

	if p.Table == api.TableComments && p.Op == string(api.OpInsert) {
		rec, err := s.fetchComment(ctx, p.Record.Id)
		if err != nil {
			// the row may already be gone; deliver what the payload
			// carried so at least the op is observable
			logger.Log.Warn("could not enrich inserted comment", "component", "pg", "id", p.Record.Id, "error", err)
			rec = api.CommentRecord{
				Id:        p.Record.Id,
				PostId:    p.Record.PostId,
				ParentId:  p.Record.ParentId,
				Content:   p.Record.Content,
				CreatedAt: p.Record.CreatedAt,
				Author:    api.UserRecord{Id: p.Record.AuthorId},
			}
		}
		ev.Comment = &rec
	}
	return ev, true
}
