package cache

// FrameKeyOpts identifies a computed frame. Two snapshots with equal options
// produce identical frames.
type FrameKeyOpts struct {
	TileSize  float64    `json:"tile_size"`
	Gap       float64    `json:"gap"`
	Columns   int        `json:"columns"`
	Rows      int        `json:"rows"`
	Effect    [6]float64 `json:"effect"`
	ViewportW float64    `json:"viewport_w"`
	ViewportH float64    `json:"viewport_h"`
	OffsetX   float64    `json:"offset_x"`
	OffsetY   float64    `json:"offset_y"`
	VelocityX float64    `json:"velocity_x"`
	VelocityY float64    `json:"velocity_y"`
}

// ArtifactKeyOpts identifies one rendered output of a frame.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Scale  float64 `json:"scale"`
	Labels bool    `json:"labels"`
}

// Keyer derives cache keys.
type Keyer interface {
	FrameKey(opts FrameKeyOpts) string
	ArtifactKey(frameHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes options into namespaced keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// FrameKey returns "frame:<sha256 of opts>".
func (DefaultKeyer) FrameKey(opts FrameKeyOpts) string {
	return hashKey("frame", opts)
}

// ArtifactKey returns "artifact:<frameHash>:<sha256 of opts>".
func (DefaultKeyer) ArtifactKey(frameHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+frameHash, opts)
}
