package sink

import (
	"encoding/json"
	"testing"
)

func TestRenderJSON(t *testing.T) {
	tr := sampleTree()
	d, g := sampleLayout(tr)

	data, err := RenderJSON(d, g, WithJSONTree(tr), WithJSONStyle("simple"))
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}

	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}

	if out.Width != g.Width || out.Height != g.Height {
		t.Errorf("extent = %vx%v, want %vx%v", out.Width, out.Height, g.Width, g.Height)
	}
	if out.Style != "simple" {
		t.Errorf("Style = %q, want %q", out.Style, "simple")
	}
	if len(out.Nodes) != 4 {
		t.Errorf("Nodes count = %d, want 4", len(out.Nodes))
	}
	if len(out.Bands) != 2 {
		t.Errorf("Bands count = %d, want 2", len(out.Bands))
	}
	if len(out.Glyphs) != 1 {
		t.Errorf("Glyphs count = %d, want 1 (married couple)", len(out.Glyphs))
	}
	if len(out.Lines) == 0 {
		t.Error("descent connector lines missing")
	}
}

func TestRenderJSONWithoutTree(t *testing.T) {
	tr := sampleTree()
	d, g := sampleLayout(tr)

	data, err := RenderJSON(d, g)
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}

	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}
	if len(out.Lines) != 0 || len(out.Glyphs) != 0 {
		t.Error("connector geometry exported without a record store")
	}
	for _, n := range out.Nodes {
		if n.Meta != nil {
			t.Errorf("node %s carries metadata without a record store", n.ID)
		}
	}
}

func TestRenderJSONNodeMeta(t *testing.T) {
	tr := sampleTree()
	d, g := sampleLayout(tr)

	data, err := RenderJSON(d, g, WithJSONTree(tr))
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}

	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}

	byID := make(map[string]jsonNode)
	for _, n := range out.Nodes {
		byID[n.ID] = n
	}

	nils := byID["person-4"]
	if nils.Meta == nil || nils.Meta.BirthPlace != "Bergen" {
		t.Errorf("person-4 meta = %+v, want birth place Bergen", nils.Meta)
	}
	if kari := byID["person-3"]; kari.Meta != nil {
		t.Errorf("person-3 meta = %+v, want nil (no metadata)", kari.Meta)
	}
	if olav := byID["person-2"]; !olav.Deceased {
		t.Error("person-2 not marked deceased")
	}
}
