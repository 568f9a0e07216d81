package pipeline

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kintree/kintree/pkg/cache"
	"github.com/kintree/kintree/pkg/errors"
	"github.com/kintree/kintree/pkg/family"
)

func testTree() *family.Tree {
	return family.New([]family.Person{
		{ID: 1, Generation: 0, CoupleID: 1, PartnerID: 2, Status: family.StatusMarried, Name: "Astrid", Surname: "Berg"},
		{ID: 2, Generation: 0, CoupleID: 1, PartnerID: 1, Status: family.StatusMarried, Name: "Olav", Surname: "Berg"},
		{ID: 3, Generation: 1, ParentCoupleID: 1, Name: "Kari", Surname: "Berg"},
	})
}

func TestValidateAndSetDefaults(t *testing.T) {
	opts := Options{Tree: testTree()}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error: %v", err)
	}
	if opts.VizType != VizTypeTree {
		t.Errorf("VizType = %q, want %q", opts.VizType, VizTypeTree)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Style != DefaultStyle {
		t.Errorf("Style = %q, want %q", opts.Style, DefaultStyle)
	}
	if opts.Metrics.NodeWidth == 0 {
		t.Error("Metrics defaults not applied")
	}
}

func TestValidateRejectsMissingSource(t *testing.T) {
	opts := Options{}
	err := opts.ValidateAndSetDefaults()
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
}

func TestValidateRejectsBadFormat(t *testing.T) {
	opts := Options{Tree: testTree(), Formats: []string{"gif"}}
	err := opts.ValidateAndSetDefaults()
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("error = %v, want %s", err, errors.ErrCodeInvalidFormat)
	}
}

func TestValidateRejectsBadVizType(t *testing.T) {
	opts := Options{Tree: testTree(), VizType: "sunburst"}
	err := opts.ValidateAndSetDefaults()
	if !errors.Is(err, errors.ErrCodeInvalidVizType) {
		t.Errorf("error = %v, want %s", err, errors.ErrCodeInvalidVizType)
	}
}

func TestValidateRejectsDOTForTreeViz(t *testing.T) {
	opts := Options{Tree: testTree(), Formats: []string{FormatDOT}}
	err := opts.ValidateAndSetDefaults()
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("error = %v, want %s", err, errors.ErrCodeInvalidFormat)
	}
}

func TestGenerateLayoutTree(t *testing.T) {
	l, err := GenerateLayout(testTree(), Options{Tree: testTree()})
	if err != nil {
		t.Fatalf("GenerateLayout() error: %v", err)
	}
	if l.VizType != VizTypeTree {
		t.Errorf("VizType = %q, want tree", l.VizType)
	}
	if len(l.Boxes) != 3 {
		t.Errorf("boxes = %d, want 3", len(l.Boxes))
	}
	if l.Width <= 0 || l.Height <= 0 {
		t.Errorf("extent = %vx%v, want positive", l.Width, l.Height)
	}
}

func TestGenerateLayoutNodelink(t *testing.T) {
	l, err := GenerateLayout(testTree(), Options{Tree: testTree(), VizType: VizTypeNodelink})
	if err != nil {
		t.Fatalf("GenerateLayout() error: %v", err)
	}
	if !l.IsNodelink() {
		t.Error("layout should be nodelink")
	}
	if !strings.Contains(l.DOT, "digraph G {") {
		t.Errorf("DOT source missing: %q", l.DOT)
	}
}

func TestLayoutRoundTrip(t *testing.T) {
	l, err := GenerateLayout(testTree(), Options{Tree: testTree()})
	if err != nil {
		t.Fatalf("GenerateLayout() error: %v", err)
	}

	data, err := MarshalLayout(l)
	if err != nil {
		t.Fatalf("MarshalLayout() error: %v", err)
	}
	back, err := UnmarshalLayout(data)
	if err != nil {
		t.Fatalf("UnmarshalLayout() error: %v", err)
	}

	if back.VizType != l.VizType || len(back.Boxes) != len(l.Boxes) {
		t.Errorf("round trip mismatch: %+v vs %+v", back, l)
	}
	if _, ok := back.Geometry().Box(family.Anchor(1)); !ok {
		t.Error("geometry lost person-1 box")
	}
}

func TestUnmarshalLayoutRejectsGarbage(t *testing.T) {
	if _, err := UnmarshalLayout([]byte("{misc")); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("error = %v, want %s", err, errors.ErrCodeInvalidFormat)
	}
	if _, err := UnmarshalLayout([]byte("{}")); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("error = %v, want %s", err, errors.ErrCodeInvalidFormat)
	}
}

func TestRunnerExecuteSVG(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	defer r.Close()

	result, err := r.Execute(context.Background(), Options{Tree: testTree(), Interactive: true})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	svg, ok := result.Artifacts[FormatSVG]
	if !ok {
		t.Fatal("svg artifact missing")
	}
	for _, want := range []string{`id="person-1"`, "zoomAround"} {
		if !strings.Contains(string(svg), want) {
			t.Errorf("svg missing %q", want)
		}
	}
	if result.Stats.PersonCount != 3 {
		t.Errorf("PersonCount = %d, want 3", result.Stats.PersonCount)
	}
	if result.TreeHash == "" {
		t.Error("TreeHash not computed")
	}
}

func TestRunnerExecuteFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "family.json")
	if err := family.ExportFile(testTree(), path); err != nil {
		t.Fatalf("ExportFile() error: %v", err)
	}

	r := NewRunner(nil, nil, nil)
	defer r.Close()

	result, err := r.Execute(context.Background(), Options{Input: path, Formats: []string{FormatJSON}})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if _, ok := result.Artifacts[FormatJSON]; !ok {
		t.Fatal("json artifact missing")
	}
}

func TestRunnerCachesAcrossRuns(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error: %v", err)
	}
	r := NewRunner(c, nil, nil)
	defer r.Close()

	ctx := context.Background()
	opts := Options{Tree: testTree()}

	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("first Execute() error: %v", err)
	}
	if first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Error("first run should miss the cache")
	}

	second, err := r.Execute(ctx, Options{Tree: testTree()})
	if err != nil {
		t.Fatalf("second Execute() error: %v", err)
	}
	if !second.CacheInfo.LayoutHit {
		t.Error("second run should hit the layout cache")
	}
	if !second.CacheInfo.RenderHit {
		t.Error("second run should hit the artifact cache")
	}
	if string(first.Artifacts[FormatSVG]) != string(second.Artifacts[FormatSVG]) {
		t.Error("cached artifact differs from rendered artifact")
	}
}

func TestRunnerRefreshSkipsCache(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error: %v", err)
	}
	r := NewRunner(c, nil, nil)
	defer r.Close()

	ctx := context.Background()
	if _, err := r.Execute(ctx, Options{Tree: testTree()}); err != nil {
		t.Fatalf("prime Execute() error: %v", err)
	}

	result, err := r.Execute(ctx, Options{Tree: testTree(), Refresh: true})
	if err != nil {
		t.Fatalf("refresh Execute() error: %v", err)
	}
	if result.CacheInfo.LayoutHit || result.CacheInfo.RenderHit {
		t.Error("refresh run should bypass the cache")
	}
}
