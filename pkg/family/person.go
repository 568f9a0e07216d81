// Package family holds the in-memory family record store.
//
// A Tree owns the flat list of Person records plus derived indices
// (by id, by generation, by couple). The indices are rebuilt on every
// mutation; nothing in this package validates genealogical
// consistency — malformed data degrades at render time instead of
// being rejected here.
package family

import "strings"

// NoCouple is the zero value for CoupleID and ParentCoupleID and
// means "no partnership" / "no recorded parents".
const NoCouple = 0

// Status is the relationship status of a couple. It is stored on the
// members and describes the pair, not the individual.
type Status int

// Relationship statuses. Anything unrecognized parses as
// StatusUnspecified and renders as the dotted connector.
const (
	StatusUnspecified Status = iota
	StatusDating
	StatusEngaged
	StatusMarried
	StatusDivorced
)

var statusNames = map[Status]string{
	StatusUnspecified: "",
	StatusDating:      "dating",
	StatusEngaged:     "engaged",
	StatusMarried:     "married",
	StatusDivorced:    "divorced",
}

// ParseStatus maps free text onto a Status, case-insensitively.
// Unknown or empty text yields StatusUnspecified.
func ParseStatus(s string) Status {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "married":
		return StatusMarried
	case "divorced":
		return StatusDivorced
	case "engaged":
		return StatusEngaged
	case "dating":
		return StatusDating
	default:
		return StatusUnspecified
	}
}

// String returns the lowercase wire form of the status.
func (s Status) String() string { return statusNames[s] }

// Person is one genealogical individual.
//
// ID, Generation, CoupleID, ParentCoupleID and Status drive layout
// and connector drawing; every other field is display-only and opaque
// to the engine.
type Person struct {
	ID             int    `json:"id"`
	Generation     int    `json:"generation"`
	CoupleID       int    `json:"couple_id,omitempty"`
	ParentCoupleID int    `json:"parent_couple_id,omitempty"`
	PartnerID      int    `json:"partner_id,omitempty"`
	Status         Status `json:"-"`

	Name          string `json:"name"`
	MiddleName    string `json:"middle_name,omitempty"`
	Surname       string `json:"surname,omitempty"`
	PreferredName string `json:"preferred_name,omitempty"`
	BirthDate     string `json:"birth_date,omitempty"`
	BirthPlace    string `json:"birth_place,omitempty"`
	Gender        string `json:"gender,omitempty"`
	Alive         string `json:"alive,omitempty"`
	Photo         string `json:"photo,omitempty"`

	LinkedIn string `json:"linkedin,omitempty"`
	Facebook string `json:"facebook,omitempty"`
	WhatsApp string `json:"whatsapp,omitempty"`
	YouTube  string `json:"youtube,omitempty"`
}

// HasCouple reports whether the person belongs to a couple.
func (p *Person) HasCouple() bool { return p.CoupleID != NoCouple }

// HasParents reports whether the person references a parent couple.
func (p *Person) HasParents() bool { return p.ParentCoupleID != NoCouple }

// Anchor returns the stable anchor id used for this person's rendered
// node ("person-{id}"). Connector geometry resolves boxes by anchor.
func (p *Person) Anchor() string { return Anchor(p.ID) }

// Deceased reports whether the free-form alive field marks the person
// as deceased. Anything that does not mention "deceased" counts as
// living.
func (p *Person) Deceased() bool {
	return strings.Contains(strings.ToLower(p.Alive), "deceased")
}

// Node visual variants, chosen from the gender field. Purely
// cosmetic; the variant never affects layout.
type Variant int

// Variants for person node styling.
const (
	VariantNeutral Variant = iota
	VariantF
	VariantM
)

// NodeVariant picks the visual variant by case-insensitive gender
// prefix: "f…" and "m…" get their own styles, anything else neutral.
func (p *Person) NodeVariant() Variant {
	g := strings.ToLower(p.Gender)
	switch {
	case strings.HasPrefix(g, "f"):
		return VariantF
	case strings.HasPrefix(g, "m"):
		return VariantM
	default:
		return VariantNeutral
	}
}

// DisplayName returns the label shown on the node: preferred name if
// set, otherwise the given name, with the surname appended.
func (p *Person) DisplayName() string {
	first := p.PreferredName
	if first == "" {
		first = p.Name
	}
	if p.Surname == "" {
		return first
	}
	if first == "" {
		return p.Surname
	}
	return first + " " + p.Surname
}
