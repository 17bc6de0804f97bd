package messaging

type ChangeTopic string

const (
	// CatalogChanged is published by the content repository pipeline when
	// products are added, updated or removed. Consumers drop their result
	// caches since any cached query may now be stale.
	CatalogChanged ChangeTopic = "catalog_change"
)

// CatalogChange describes what changed, an empty Categories slice means the
// whole catalog should be considered stale.
type CatalogChange struct {
	Categories []string `json:"categories,omitempty"`
	Reason     string   `json:"reason,omitempty"`
}
