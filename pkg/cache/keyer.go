package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// keyVersion is bumped whenever the layout or artifact encoding changes, so
// entries written by older builds are never read back.
const keyVersion = 1

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey returns the key of a placement result.
	LayoutKey(chainHash string, opts LayoutKeyOpts) string

	// ArtifactKey returns the key of an exported artifact.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds the placement inputs besides the chain itself.
type LayoutKeyOpts struct {
	Min         [3]int `json:"min"`
	Max         [3]int `json:"max"`
	Orientation string `json:"orientation"`
	Placer      string `json:"placer,omitempty"`
}

// ArtifactKeyOpts holds the export inputs besides the layout itself.
type ArtifactKeyOpts struct {
	Format      string `json:"format"`
	Author      string `json:"author,omitempty"`
	DataVersion int    `json:"data_version,omitempty"`
	Detailed    bool   `json:"detailed,omitempty"`
}

// DefaultKeyer hashes all inputs into "kind:sha256" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(chainHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", chainHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// ScopedKeyer prefixes every key of an inner Keyer, so several deployments
// can share one Redis database.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or a DefaultKeyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// LayoutKey implements Keyer.
func (k *ScopedKeyer) LayoutKey(chainHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(chainHash, opts)
}

// ArtifactKey implements Keyer.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}

// hashKey returns "kind:" followed by the SHA-256 of the versioned JSON
// encoding of parts.
func hashKey(kind string, parts ...any) string {
	data, _ := json.Marshal(append([]any{keyVersion}, parts...))
	return kind + ":" + Hash(data)
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

var (
	_ Keyer = DefaultKeyer{}
	_ Keyer = (*ScopedKeyer)(nil)
)
