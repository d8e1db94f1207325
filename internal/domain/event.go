package domain

import "time"

type EventType string

const (
	EventAssetCreated EventType = "asset.created"
	EventAssetDeleted EventType = "asset.deleted"
)

// AssetEvent is published on the lifecycle topic after an asset is created
// or deleted. Consumers must tolerate duplicates: publishing is best effort
// and never gates the request that triggered it.
type AssetEvent struct {
	Type       EventType `json:"type"`
	Domain     string    `json:"domain"`
	AssetID    string    `json:"asset_id"`
	Filename   string    `json:"filename"`
	Path       string    `json:"path"`
	OccurredAt time.Time `json:"occurred_at"`
}
