package storage

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// roomEvent is the payload the notify_room_event trigger publishes on
// the room_events channel.
type roomEvent struct {
	RoomCode string `json:"room_code"`
	Table    string `json:"table"`
}

// Feed fans LISTEN/NOTIFY wakeups out to per-room subscribers.
// Delivery is at-least-once with no ordering guarantee, so events carry
// no state: a wakeup only ever means "re-read the snapshot". That also
// makes dropping a wakeup on a full subscriber buffer safe, since an
// undelivered wakeup is indistinguishable from one coalesced into the
// pending re-read.
type Feed struct {
	pool   subscriberPool
	listen func(ctx context.Context) error
}

type subscriberPool struct {
	mu   sync.Mutex
	subs map[string]map[chan struct{}]struct{}
}

func NewFeed(repo *PostgresRepo) *Feed {
	f := &Feed{
		pool: subscriberPool{subs: make(map[string]map[chan struct{}]struct{})},
	}
	f.listen = func(ctx context.Context) error {
		return f.listenOnce(ctx, repo)
	}
	return f
}

// Subscribe registers for wakeups on one room. The returned cancel
// function must be called when the watcher goes away.
func (f *Feed) Subscribe(roomCode string) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 8)

	f.pool.mu.Lock()
	if f.pool.subs[roomCode] == nil {
		f.pool.subs[roomCode] = make(map[chan struct{}]struct{})
	}
	f.pool.subs[roomCode][ch] = struct{}{}
	f.pool.mu.Unlock()

	cancel := func() {
		f.pool.mu.Lock()
		defer f.pool.mu.Unlock()
		delete(f.pool.subs[roomCode], ch)
		if len(f.pool.subs[roomCode]) == 0 {
			delete(f.pool.subs, roomCode)
		}
	}
	return ch, cancel
}

func (f *Feed) dispatch(roomCode string) {
	f.pool.mu.Lock()
	defer f.pool.mu.Unlock()

	for ch := range f.pool.subs[roomCode] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Run keeps a LISTEN connection alive until ctx is done, reconnecting
// with a flat backoff after failures.
func (f *Feed) Run(ctx context.Context) {
	for {
		if err := f.listen(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Error().Err(err).Msg("room event feed disconnected, reconnecting")
		}

		select {
		case <-time.After(time.Second):
		case <-ctx.Done():
			return
		}
	}
}

func (f *Feed) listenOnce(ctx context.Context, repo *PostgresRepo) error {
	conn, err := repo.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `LISTEN room_events`); err != nil {
		return err
	}

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}

		var event roomEvent
		if err := json.Unmarshal([]byte(notification.Payload), &event); err != nil {
			log.Warn().Str("payload", notification.Payload).Msg("unparseable room event, skipping")
			continue
		}
		f.dispatch(event.RoomCode)
	}
}
