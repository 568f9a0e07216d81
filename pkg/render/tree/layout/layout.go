// Package layout builds the visual tree of a family diagram: one band
// per generation, couple clusters inside each band, one node per
// person.
//
// Layout is a two-phase pipeline. Build constructs the band/cluster/
// node tree from the record store; Measure assigns every node a
// bounding box from explicit metrics. Connector geometry consumes
// only measured output — boxes simply do not exist before Measure, so
// nothing can draw against a half-built tree.
package layout

import (
	"github.com/kintree/kintree/pkg/family"
)

// Node is one rendered person. The anchor id is the stable key
// ("person-{id}") connector geometry uses to resolve the node's box.
type Node struct {
	PersonID int
	Anchor   string
	Variant  family.Variant
	Label    string // display name
	Sub      string // secondary line (birth date), may be empty
	Photo    string // photo reference, empty means fallback
}

// Cluster is the adjacent grouping of the people sharing a couple id,
// or a single unpartnered person. CoupleID is family.NoCouple for
// singleton clusters.
type Cluster struct {
	CoupleID int
	Nodes    []Node
}

// Band is one horizontal generation row.
type Band struct {
	Generation int
	Clusters   []Cluster
}

// Diagram is the built (but not yet measured) visual tree.
type Diagram struct {
	Bands []Band
}

// Build constructs the visual tree from the record store.
//
// Bands are emitted in ascending generation order. Within a band,
// people are visited in stored order; a person who belongs to a
// couple pulls every couple member into one cluster and marks them
// all placed, so the partner is not emitted again later in the
// iteration. Couples with a malformed member count are clustered
// as-is rather than rejected.
func Build(t *family.Tree) Diagram {
	var d Diagram
	placed := make(map[int]bool)

	for _, gen := range t.Generations() {
		band := Band{Generation: gen}

		for _, p := range t.Generation(gen) {
			if placed[p.ID] {
				continue
			}
			if p.HasCouple() {
				members := t.Couple(p.CoupleID)
				if len(members) == 0 {
					members = []*family.Person{p}
				}
				cluster := Cluster{CoupleID: p.CoupleID}
				for _, m := range members {
					cluster.Nodes = append(cluster.Nodes, newNode(m))
					placed[m.ID] = true
				}
				band.Clusters = append(band.Clusters, cluster)
				continue
			}
			band.Clusters = append(band.Clusters, Cluster{
				CoupleID: family.NoCouple,
				Nodes:    []Node{newNode(p)},
			})
			placed[p.ID] = true
		}

		if len(band.Clusters) > 0 {
			d.Bands = append(d.Bands, band)
		}
	}
	return d
}

func newNode(p *family.Person) Node {
	return Node{
		PersonID: p.ID,
		Anchor:   p.Anchor(),
		Variant:  p.NodeVariant(),
		Label:    p.DisplayName(),
		Sub:      p.BirthDate,
		Photo:    p.Photo,
	}
}

// Nodes yields every node of the diagram in band order. Convenience
// for sinks and tests.
func (d Diagram) Nodes() []Node {
	var nodes []Node
	for _, b := range d.Bands {
		for _, c := range b.Clusters {
			nodes = append(nodes, c.Nodes...)
		}
	}
	return nodes
}
