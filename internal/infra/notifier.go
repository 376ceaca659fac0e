package infra

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Notifier publishes change notifications over Redis pub/sub so read views
// (floor plan, kitchen display, inventory screens) can refresh.
//
// Channel layout: events:{restaurant_id}:{entity}. The payload names only
// the entity and row id — it is a refresh trigger, never an authoritative
// delta; subscribers re-fetch through the normal read endpoints.
type Notifier struct {
	rdb *redis.Client
}

func NewNotifier(rdb *redis.Client) *Notifier { return &Notifier{rdb: rdb} }

// ChangeEvent is the wire format of one notification.
type ChangeEvent struct {
	Entity string `json:"entity"` // orders | order_items | tables | items | movements
	ID     string `json:"id"`
}

// Publish fires a change event. Publishing is best-effort: a failed publish
// is logged and swallowed — write-path correctness never depends on it.
func (n *Notifier) Publish(ctx context.Context, restaurantID uuid.UUID, entity string, id uuid.UUID) {
	if n == nil || n.rdb == nil {
		return
	}
	payload, err := json.Marshal(ChangeEvent{Entity: entity, ID: id.String()})
	if err != nil {
		return
	}
	channel := fmt.Sprintf("events:%s:%s", restaurantID, entity)
	if err := n.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		log.Warn().Str("channel", channel).Err(err).Msg("change notification dropped")
	}
}
