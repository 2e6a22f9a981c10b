package models

// GameEvent is one entry in the client-submitted batch for a session.
// Events are ephemeral: the batch is replayed by the scoring engine and
// discarded, individual events are never persisted.
type GameEvent struct {
	Type      string   `json:"type"`
	ItemType  ItemType `json:"itemType,omitempty"`
	Timestamp int64    `json:"timestamp"`
}

const (
	EventCollect = "collect"
	EventBombHit = "bomb_hit"
)

// ItemType identifies what was collected. Unknown types score zero rather
// than erroring, so an old client cannot wedge a session.
type ItemType string

const (
	ItemPicture        ItemType = "picture"
	ItemPowerUpPoint2  ItemType = "powerup_point_2"
	ItemPowerUpPoint5  ItemType = "powerup_point_5"
	ItemPowerUpPoint10 ItemType = "powerup_point_10"
	ItemPowerUpPumpkin ItemType = "powerup_pumpkin"
)
