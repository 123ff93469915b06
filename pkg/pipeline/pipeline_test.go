package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cmdtower/pkg/chain"
	"github.com/matzehuels/cmdtower/pkg/coord"
	"github.com/matzehuels/cmdtower/pkg/errors"
	"github.com/matzehuels/cmdtower/pkg/layout"
	"github.com/matzehuels/cmdtower/pkg/store"
	"github.com/matzehuels/cmdtower/pkg/structure"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"json", false},
		{"nbt", false},
		{"dot", false},
		{"svg", false},
		{"png", false},
		{"txt", false},
		{"pdf", true},
		{"NBT", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s, want %s", tt.format, errors.GetCode(err), errors.ErrCodeInvalidFormat)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"nbt", "svg"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"nbt", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateBox(t *testing.T) {
	tests := []struct {
		name     string
		min, max coord.Coordinate
		limit    int
		wantErr  bool
	}{
		{"unit", coord.Of(0, 0, 0), coord.Of(1, 1, 1), 0, false},
		{"negative", coord.Of(-4, -4, -4), coord.Of(0, 0, 0), 0, false},
		{"empty", coord.Of(0, 0, 0), coord.Of(0, 0, 0), 0, true},
		{"flat", coord.Of(0, 0, 0), coord.Of(4, 0, 4), 0, true},
		{"inverted", coord.Of(4, 4, 4), coord.Of(0, 0, 0), 0, true},
		{"at limit", coord.Of(0, 0, 0), coord.Of(4, 4, 4), 64, false},
		{"over limit", coord.Of(0, 0, 0), coord.Of(4, 4, 5), 64, true},
		{"huge without limit", coord.Of(0, 0, 0), coord.Of(100000, 100000, 100000), 0, false},
		{"huge with limit", coord.Of(0, 0, 0), coord.Of(100000, 100000, 100000), 1 << 18, true},
		{"overflow", coord.Of(math.MinInt, 0, 0), coord.Of(math.MaxInt, 1, 1), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBox(tt.min, tt.max, tt.limit)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateBox() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidArgument) {
				t.Errorf("code = %s, want %s", errors.GetCode(err), errors.ErrCodeInvalidArgument)
			}
		})
	}
}

func TestExecuteRejectsBoxOverMaxVolume(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	c := &chain.Chain{Commands: []chain.Command{{Text: "say first"}, {Text: "say x", Conditional: true}}}
	_, err := r.Execute(context.Background(), c, Options{
		Max:       coord.Of(100000, 100000, 100000),
		MaxVolume: 64 * 64 * 64,
	})
	if !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Fatalf("err = %v, want INVALID_ARGUMENT", err)
	}

	neg := Options{MaxVolume: -1}
	if err := neg.ValidateForPlace(); !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("negative MaxVolume: err = %v, want INVALID_ARGUMENT", err)
	}
}

func TestSetPlacementDefaults(t *testing.T) {
	opts := Options{Min: coord.Of(10, 64, 10)}
	opts.SetPlacementDefaults()

	if want := coord.Of(26, 80, 26); opts.Max != want {
		t.Errorf("Max should be %s, got %s", want, opts.Max)
	}
	if opts.Orientation != DefaultOrientation {
		t.Errorf("Orientation should be %s, got %s", DefaultOrientation, opts.Orientation)
	}

	// Explicit values are kept
	o := coord.Orientation{Primary: coord.North, Secondary: coord.West, Tertiary: coord.Down}
	opts = Options{Max: coord.Of(2, 2, 2), Orientation: o}
	opts.SetPlacementDefaults()
	if opts.Max != coord.Of(2, 2, 2) || opts.Orientation != o {
		t.Errorf("explicit values overwritten: %+v", opts)
	}
}

func TestSetExportDefaults(t *testing.T) {
	opts := Options{}
	opts.SetExportDefaults()

	if len(opts.Formats) != 1 || opts.Formats[0] != FormatJSON {
		t.Errorf("Formats should be [json], got %v", opts.Formats)
	}
	if opts.Author != DefaultAuthor {
		t.Errorf("Author should be %s, got %s", DefaultAuthor, opts.Author)
	}
	if opts.DataVersion != DefaultDataVersion {
		t.Errorf("DataVersion should be %d, got %d", DefaultDataVersion, opts.DataVersion)
	}

	// The default slice must not be shared
	opts.Formats[0] = FormatNBT
	if DefaultFormats[0] != FormatJSON {
		t.Error("SetExportDefaults aliased DefaultFormats")
	}
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"defaults", Options{}, ""},
		{"bad box", Options{Min: coord.Of(4, 4, 4), Max: coord.Of(4, 8, 8)}, errors.ErrCodeInvalidArgument},
		{"bad orientation", Options{Orientation: coord.Orientation{Primary: coord.East, Secondary: coord.West, Tertiary: coord.Up}}, errors.ErrCodeInvalidOrientation},
		{"bad format", Options{Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"bad author", Options{Author: "a\nb"}, errors.ErrCodeInvalidArgument},
		{"bad data version", Options{DataVersion: -1}, errors.ErrCodeInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %q, want %q (err %v)", got, tt.code, err)
			}
		})
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Formats: []string{FormatNBT}}

	// First call
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}

	originalMax := opts.Max
	originalOrientation := opts.Orientation
	originalAuthor := opts.Author

	// Second call should be idempotent
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}

	if opts.Max != originalMax {
		t.Error("Max changed on second call")
	}
	if opts.Orientation != originalOrientation {
		t.Error("Orientation changed on second call")
	}
	if opts.Author != originalAuthor {
		t.Error("Author changed on second call")
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{Author: "steve", DataVersion: 3700, Detailed: true, Background: true}

	nbt := opts.ArtifactKeyOpts(FormatNBT)
	if nbt.Author != "steve" || nbt.DataVersion != 3700 || nbt.Detailed {
		t.Errorf("nbt key opts = %+v", nbt)
	}
	if nbt.Format == FormatNBT {
		t.Error("background fill should change the nbt key")
	}

	svg := opts.ArtifactKeyOpts(FormatSVG)
	if svg.Author != "" || !svg.Detailed {
		t.Errorf("svg key opts = %+v", svg)
	}
}

// =============================================================================
// Runner
// =============================================================================

// memCache is an in-memory cache that counts traffic.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	gets int
	sets int
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	data, ok := c.data[key]
	return data, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.data[key] = append([]byte(nil), data...)
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func testChain(n int) *chain.Chain {
	c := &chain.Chain{Name: "test"}
	for i := 0; i < n; i++ {
		c.Commands = append(c.Commands, chain.Command{Text: "say " + strings.Repeat("x", i+1)})
	}
	if err := c.Normalize(); err != nil {
		panic(err)
	}
	return c
}

func quietLogger() *log.Logger {
	var buf bytes.Buffer
	return log.NewWithOptions(&buf, log.Options{})
}

func TestRunnerExecute(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, quietLogger())

	res, err := r.Execute(ctx, testChain(8), Options{
		Max:     coord.Of(4, 4, 4),
		Formats: []string{FormatJSON, FormatNBT, FormatDOT, FormatText},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if res.Stats.Commands != 8 || res.Stats.SideLength != 2 || res.Stats.Attempts != 1 {
		t.Errorf("stats = %+v", res.Stats)
	}
	if res.CacheInfo.PlaceHit || res.CacheInfo.ExportHit {
		t.Errorf("null cache reported hits: %+v", res.CacheInfo)
	}
	if len(res.Layout.Blocks) != 8 {
		t.Fatalf("blocks = %d, want 8", len(res.Layout.Blocks))
	}
	if res.ChainHash != res.Layout.ChainHash {
		t.Errorf("chain hash mismatch: %s vs %s", res.ChainHash, res.Layout.ChainHash)
	}

	l, err := layout.Unmarshal(res.Artifacts[FormatJSON])
	if err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if l.ID != res.Layout.ID {
		t.Errorf("json artifact id = %s, want %s", l.ID, res.Layout.ID)
	}

	root, err := structure.Decode(bytes.NewReader(res.Artifacts[FormatNBT]))
	if err != nil {
		t.Fatalf("nbt artifact: %v", err)
	}
	if got := root["DataVersion"]; got != int32(DefaultDataVersion) {
		t.Errorf("DataVersion = %v, want %d", got, DefaultDataVersion)
	}

	if !strings.HasPrefix(string(res.Artifacts[FormatDOT]), "digraph G {") {
		t.Errorf("dot artifact = %q", res.Artifacts[FormatDOT])
	}

	back, err := chain.ParseText(res.Artifacts[FormatText])
	if err != nil {
		t.Fatalf("txt artifact: %v", err)
	}
	if back.Len() != 8 {
		t.Errorf("txt artifact has %d commands", back.Len())
	}
}

func TestRunnerExecuteNotEnoughSpace(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	_, err := r.Execute(context.Background(), testChain(9), Options{Max: coord.Of(2, 2, 2)})
	if !errors.Is(err, errors.ErrCodeNotEnoughSpace) {
		t.Fatalf("err = %v, want NOT_ENOUGH_SPACE", err)
	}
}

func TestRunnerExecuteInvalid(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	ctx := context.Background()

	if _, err := r.Execute(ctx, nil, Options{}); !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("nil chain: err = %v", err)
	}

	bad := &chain.Chain{Commands: []chain.Command{{Text: "say a"}, {Text: "say b", Mode: chain.ModeRepeat}}}
	if _, err := r.Execute(ctx, bad, Options{}); !errors.Is(err, errors.ErrCodeInvalidChain) {
		t.Errorf("bad chain: err = %v", err)
	}
}

func TestRunnerPlaceCache(t *testing.T) {
	ctx := context.Background()
	mc := newMemCache()
	r := NewRunner(mc, nil, quietLogger())
	opts := Options{Max: coord.Of(4, 4, 4)}

	first, hit, err := r.PlaceWithCacheInfo(ctx, testChain(5), opts)
	if err != nil {
		t.Fatalf("first place: %v", err)
	}
	if hit {
		t.Error("first place should miss")
	}
	if mc.sets != 1 {
		t.Errorf("sets = %d, want 1", mc.sets)
	}

	renamed := testChain(5)
	renamed.Name = "other"
	second, hit, err := r.PlaceWithCacheInfo(ctx, renamed, opts)
	if err != nil {
		t.Fatalf("second place: %v", err)
	}
	if !hit {
		t.Error("second place should hit")
	}
	if second.ID == first.ID {
		t.Error("cached layout should get a fresh id")
	}
	if second.Name != "other" {
		t.Errorf("name = %q, want other", second.Name)
	}
	a, _ := json.Marshal(first.Blocks)
	b, _ := json.Marshal(second.Blocks)
	if !bytes.Equal(a, b) {
		t.Error("cached blocks differ")
	}

	// Refresh bypasses the cache
	opts.Refresh = true
	if _, hit, err := r.PlaceWithCacheInfo(ctx, testChain(5), opts); err != nil || hit {
		t.Errorf("refresh: hit=%v err=%v", hit, err)
	}

	// A different box is a different key
	if _, hit, _ := r.PlaceWithCacheInfo(ctx, testChain(5), Options{Max: coord.Of(5, 5, 5)}); hit {
		t.Error("different box should miss")
	}
}

func TestRunnerExportCache(t *testing.T) {
	ctx := context.Background()
	mc := newMemCache()
	r := NewRunner(mc, nil, quietLogger())

	l, err := r.Place(ctx, testChain(3), Options{Max: coord.Of(4, 4, 4)})
	if err != nil {
		t.Fatalf("place: %v", err)
	}

	opts := Options{Formats: []string{FormatNBT, FormatDOT}}
	first, hit, err := r.ExportWithCacheInfo(ctx, l, opts)
	if err != nil {
		t.Fatalf("first export: %v", err)
	}
	if hit {
		t.Error("first export should miss")
	}

	second, hit, err := r.ExportWithCacheInfo(ctx, l, opts)
	if err != nil {
		t.Fatalf("second export: %v", err)
	}
	if !hit {
		t.Error("second export should hit")
	}
	for _, f := range opts.Formats {
		if !bytes.Equal(first[f], second[f]) {
			t.Errorf("%s artifact differs between runs", f)
		}
	}

	// JSON alone is never reported as a hit
	if _, hit, _ := r.ExportWithCacheInfo(ctx, l, Options{Formats: []string{FormatJSON}}); hit {
		t.Error("json export should not report a cache hit")
	}

	if _, err := r.Export(ctx, nil, opts); !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("nil layout: err = %v", err)
	}
}

func TestRunnerExecuteStore(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, quietLogger())
	r.Store = store.NewMemoryStore()
	defer r.Close()

	res, err := r.Execute(ctx, testChain(4), Options{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	got, err := r.Store.Get(ctx, res.Layout.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Blocks) != 4 {
		t.Errorf("stored blocks = %d, want 4", len(got.Blocks))
	}
}

func TestRunnerWrapsCache(t *testing.T) {
	r := NewRunner(newMemCache(), nil, nil)
	if r.Keyer == nil || r.Logger == nil {
		t.Fatal("defaults not applied")
	}
	if _, ok := r.Cache.(*memCache); ok {
		t.Error("cache should be instrumented")
	}
}
