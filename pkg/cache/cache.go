package cache

import (
	"context"
	"time"
)

// Default TTLs for the three pipeline stages. Record stores change
// often, measured layouts less so, and finished artifacts are cheap to
// keep around.
const (
	TTLTree     = 1 * time.Hour
	TTLLayout   = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is the storage interface shared by the file, Redis, and null
// implementations. Get reports a miss with hit=false rather than an
// error; errors are reserved for storage failures.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// LayoutKeyOpts distinguish layouts measured from the same records.
type LayoutKeyOpts struct {
	VizType    string  `json:"viz_type"`
	NodeWidth  float64 `json:"node_width,omitempty"`
	NodeHeight float64 `json:"node_height,omitempty"`
	CoupleGap  float64 `json:"couple_gap,omitempty"`
	ClusterGap float64 `json:"cluster_gap,omitempty"`
	BandGap    float64 `json:"band_gap,omitempty"`
	Padding    float64 `json:"padding,omitempty"`
	Detailed   bool    `json:"detailed,omitempty"`
}

// ArtifactKeyOpts distinguish rendered outputs of the same layout.
type ArtifactKeyOpts struct {
	Format      string  `json:"format"`
	Style       string  `json:"style"`
	Interactive bool    `json:"interactive"`
	Popups      bool    `json:"popups"`
	Scale       float64 `json:"scale,omitempty"`
}

// Keyer generates cache keys for the pipeline stages. Keys are
// content-addressed: the same records, options, and stage always map
// to the same key, so cached entries never need explicit invalidation.
type Keyer interface {
	// TreeKey generates a key for a serialized record store.
	TreeKey(recordsHash string) string
	// LayoutKey generates a key for a measured layout.
	LayoutKey(treeHash string, opts LayoutKeyOpts) string
	// ArtifactKey generates a key for a rendered artifact.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key generator.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard key generator.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// TreeKey generates a key for a serialized record store.
func (k *DefaultKeyer) TreeKey(recordsHash string) string {
	return "tree:" + recordsHash
}

// LayoutKey generates a key for a measured layout.
func (k *DefaultKeyer) LayoutKey(treeHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", treeHash, opts)
}

// ArtifactKey generates a key for a rendered artifact.
func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
