package family

import (
	"fmt"
	"slices"
	"sort"
)

// Anchor returns the anchor id for a person id ("person-{id}").
// Every rendered node carries this id, and it is the key connector
// geometry uses to resolve bounding boxes.
func Anchor(id int) string { return fmt.Sprintf("person-%d", id) }

// Tree is the record store: the flat list of Person records plus the
// three derived indices. The indices are replaced wholesale by
// Rebuild; they are never patched incrementally.
//
// Tree is not safe for concurrent use. Callers that share a Tree
// across goroutines (the HTTP server does) must serialize access.
type Tree struct {
	records []Person

	byID         map[int]*Person
	byGeneration map[int][]*Person
	byCouple     map[int][]*Person
}

// New creates a Tree over a copy of records and builds the indices.
func New(records []Person) *Tree {
	t := &Tree{records: slices.Clone(records)}
	t.Rebuild()
	return t
}

// Rebuild recomputes the id, generation, and couple indices from the
// record list. It is idempotent and has no side effect beyond
// replacing the indices. Malformed data — couples with more than two
// members, parent references that resolve to nothing — is kept as-is;
// the renderer degrades instead of this method failing.
func (t *Tree) Rebuild() {
	t.byID = make(map[int]*Person, len(t.records))
	t.byGeneration = make(map[int][]*Person)
	t.byCouple = make(map[int][]*Person)

	for i := range t.records {
		p := &t.records[i]
		t.byID[p.ID] = p
		t.byGeneration[p.Generation] = append(t.byGeneration[p.Generation], p)
		if p.HasCouple() {
			t.byCouple[p.CoupleID] = append(t.byCouple[p.CoupleID], p)
		}
	}
}

// Records returns a copy of the record list in stored order.
func (t *Tree) Records() []Person { return slices.Clone(t.records) }

// Len returns the number of records.
func (t *Tree) Len() int { return len(t.records) }

// Person looks up one record by id.
func (t *Tree) Person(id int) (*Person, bool) {
	p, ok := t.byID[id]
	return p, ok
}

// Generations returns the distinct generation ids in ascending order.
// Ascending generation is top-to-bottom in the rendered diagram.
func (t *Tree) Generations() []int {
	gens := make([]int, 0, len(t.byGeneration))
	for g := range t.byGeneration {
		gens = append(gens, g)
	}
	sort.Ints(gens)
	return gens
}

// Generation returns the people of one generation in stored order.
func (t *Tree) Generation(gen int) []*Person { return t.byGeneration[gen] }

// Couple returns the members sharing a couple id, in stored order.
// Well-formed couples have one or two members; anything else is
// returned untouched and tolerated downstream.
func (t *Tree) Couple(cid int) []*Person {
	if cid == NoCouple {
		return nil
	}
	return t.byCouple[cid]
}

// Couples returns the distinct couple ids in ascending order.
func (t *Tree) Couples() []int {
	ids := make([]int, 0, len(t.byCouple))
	for cid := range t.byCouple {
		ids = append(ids, cid)
	}
	sort.Ints(ids)
	return ids
}

// Children returns every person whose ParentCoupleID equals cid, in
// stored order.
func (t *Tree) Children(cid int) []*Person {
	if cid == NoCouple {
		return nil
	}
	var kids []*Person
	for i := range t.records {
		if t.records[i].ParentCoupleID == cid {
			kids = append(kids, &t.records[i])
		}
	}
	return kids
}

// CoupleStatus resolves the relationship status for a couple: the
// first member with a specified status wins, otherwise unspecified.
func (t *Tree) CoupleStatus(cid int) Status {
	for _, p := range t.Couple(cid) {
		if p.Status != StatusUnspecified {
			return p.Status
		}
	}
	return StatusUnspecified
}

// =============================================================================
// Mutations
// =============================================================================

// Add appends a record with a freshly minted id (max existing + 1)
// and rebuilds the indices. The returned id is stable for the
// record's lifetime.
func (t *Tree) Add(p Person) int {
	p.ID = t.nextID()
	t.records = append(t.records, p)
	t.Rebuild()
	return p.ID
}

// Edit mutates the display fields of one record. Structural fields
// (generation, couple, parent references) are left untouched.
// Returns false if the id does not exist.
func (t *Tree) Edit(id int, fields Person) bool {
	p, ok := t.byID[id]
	if !ok {
		return false
	}
	p.Name = fields.Name
	p.MiddleName = fields.MiddleName
	p.Surname = fields.Surname
	p.PreferredName = fields.PreferredName
	p.BirthDate = fields.BirthDate
	p.BirthPlace = fields.BirthPlace
	p.Gender = fields.Gender
	p.Alive = fields.Alive
	p.Photo = fields.Photo
	p.LinkedIn = fields.LinkedIn
	p.Facebook = fields.Facebook
	p.WhatsApp = fields.WhatsApp
	p.YouTube = fields.YouTube
	t.Rebuild()
	return true
}

// Delete removes the record and every record whose ParentCoupleID
// equals the deleted person's couple membership. The cascade is one
// level deep only: grandchildren of the deleted person survive with a
// dangling parent reference, which the renderer tolerates.
// Returns false if the id does not exist.
func (t *Tree) Delete(id int) bool {
	p, ok := t.byID[id]
	if !ok {
		return false
	}
	couple := p.CoupleID

	kept := t.records[:0]
	for _, r := range t.records {
		if r.ID == id {
			continue
		}
		if couple != NoCouple && r.ParentCoupleID == couple {
			continue
		}
		kept = append(kept, r)
	}
	t.records = kept
	t.Rebuild()
	return true
}

// SetPartner pairs two people under a freshly minted couple id
// (max existing + 1) and records the partner reference both ways.
// Returns false if either id does not exist.
func (t *Tree) SetPartner(a, b int) bool {
	pa, okA := t.byID[a]
	pb, okB := t.byID[b]
	if !okA || !okB {
		return false
	}
	cid := t.nextCoupleID()
	pa.CoupleID = cid
	pa.PartnerID = b
	pb.CoupleID = cid
	pb.PartnerID = a
	t.Rebuild()
	return true
}

// ClearPartner dissolves the couple the person belongs to: every
// member sharing the couple id is reset to no-couple. A person with
// no couple is a no-op. Returns false if the id does not exist.
func (t *Tree) ClearPartner(id int) bool {
	p, ok := t.byID[id]
	if !ok {
		return false
	}
	cid := p.CoupleID
	if cid == NoCouple {
		return true
	}
	for i := range t.records {
		if t.records[i].CoupleID == cid {
			t.records[i].CoupleID = NoCouple
			t.records[i].PartnerID = 0
		}
	}
	t.Rebuild()
	return true
}

// Replace swaps in a whole new record list (import) and rebuilds.
func (t *Tree) Replace(records []Person) {
	t.records = slices.Clone(records)
	t.Rebuild()
}

func (t *Tree) nextID() int {
	maxID := 0
	for i := range t.records {
		if t.records[i].ID > maxID {
			maxID = t.records[i].ID
		}
	}
	return maxID + 1
}

func (t *Tree) nextCoupleID() int {
	maxC := 0
	for i := range t.records {
		if t.records[i].CoupleID > maxC {
			maxC = t.records[i].CoupleID
		}
	}
	return maxC + 1
}
