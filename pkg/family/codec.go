package family

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/kintree/kintree/pkg/errors"
)

// =============================================================================
// JSON Serialization API
// =============================================================================
//
// The canonical format is a JSON array of person objects. Export →
// Import round-trips field for field. Decoding additionally accepts
// the legacy spreadsheet export: capitalized keys ("FamID",
// "Couple ID", "Child to", …) and the "-" string sentinel for absent
// references.

// MarshalRecords serializes a record list as canonical JSON bytes.
func MarshalRecords(records []Person) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeRecordsTo(records, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteRecords writes a record list as canonical JSON to w.
func WriteRecords(records []Person, w io.Writer) error {
	return writeRecordsTo(records, w)
}

// ExportFile writes a tree's records to a JSON file.
func ExportFile(t *Tree, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeRecordsTo(t.Records(), f)
}

// ReadRecords decodes a record list from r. On any parse failure the
// returned error carries ErrCodeInvalidFormat and no partial data is
// returned, so callers can leave an existing store untouched.
func ReadRecords(r io.Reader) ([]Person, error) {
	var wire []wirePerson
	if err := json.NewDecoder(r).Decode(&wire); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode records")
	}
	records := make([]Person, len(wire))
	for i, w := range wire {
		records[i] = w.person()
	}
	return records, nil
}

// ImportFile reads a JSON file at path and returns a new Tree.
func ImportFile(path string) (*Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	records, err := ReadRecords(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return New(records), nil
}

// =============================================================================
// Wire Format
// =============================================================================

func writeRecordsTo(records []Person, w io.Writer) error {
	wire := make([]wirePerson, len(records))
	for i, p := range records {
		wire[i] = toWire(p)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(wire); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// wirePerson is the serialization shape. Reference fields use flexID
// so that legacy payloads ("-", "12") decode alongside canonical
// integers; encoding always emits integers.
type wirePerson struct {
	ID             flexID `json:"id"`
	Generation     int    `json:"generation"`
	CoupleID       flexID `json:"couple_id,omitempty"`
	ParentCoupleID flexID `json:"parent_couple_id,omitempty"`
	PartnerID      flexID `json:"partner_id,omitempty"`
	Status         string `json:"status,omitempty"`

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

// UnmarshalJSON decodes the canonical fields, then overlays the
// legacy spreadsheet keys ("FamID", "Couple ID", …). The legacy
// names contain spaces, which struct tags cannot express, so they
// are read from the raw object by hand.
func (w *wirePerson) UnmarshalJSON(data []byte) error {
	type alias wirePerson
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*w = wirePerson(a)

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if err := legacyFlex(raw, "FamID", &w.ID); err != nil {
		return err
	}
	if err := legacyFlex(raw, "Couple ID", &w.CoupleID); err != nil {
		return err
	}
	if err := legacyFlex(raw, "Child to", &w.ParentCoupleID); err != nil {
		return err
	}
	if err := legacyFlex(raw, "Paired with", &w.PartnerID); err != nil {
		return err
	}
	if err := legacyGen(raw, &w.Generation); err != nil {
		return err
	}
	legacyString(raw, "Marital status", &w.Status)
	legacyString(raw, "Name", &w.Name)
	legacyString(raw, "Middle name", &w.MiddleName)
	legacyString(raw, "Surname", &w.Surname)
	legacyString(raw, "Preferred name", &w.PreferredName)
	legacyString(raw, "Date of birth", &w.BirthDate)
	legacyString(raw, "Place of birth", &w.BirthPlace)
	legacyString(raw, "Gender", &w.Gender)
	legacyString(raw, "Alive / deceased", &w.Alive)
	legacyString(raw, "LinkedIn", &w.LinkedIn)
	legacyString(raw, "Facebook", &w.Facebook)
	legacyString(raw, "WhatsApp", &w.WhatsApp)
	legacyString(raw, "YouTube", &w.YouTube)
	return nil
}

func legacyFlex(raw map[string]json.RawMessage, key string, dst *flexID) error {
	v, ok := raw[key]
	if !ok {
		return nil
	}
	return json.Unmarshal(v, dst)
}

// legacyGen reads "Gen ID", which legacy payloads write as either a
// number or a numeric string.
func legacyGen(raw map[string]json.RawMessage, dst *int) error {
	v, ok := raw["Gen ID"]
	if !ok {
		return nil
	}
	var f flexID
	if err := json.Unmarshal(v, &f); err != nil {
		return err
	}
	*dst = int(f)
	return nil
}

func legacyString(raw map[string]json.RawMessage, key string, dst *string) {
	v, ok := raw[key]
	if !ok {
		return
	}
	var s string
	if json.Unmarshal(v, &s) == nil {
		*dst = s
	}
}

func toWire(p Person) wirePerson {
	return wirePerson{
		ID:             flexID(p.ID),
		Generation:     p.Generation,
		CoupleID:       flexID(p.CoupleID),
		ParentCoupleID: flexID(p.ParentCoupleID),
		PartnerID:      flexID(p.PartnerID),
		Status:         p.Status.String(),
		Name:           p.Name,
		MiddleName:     p.MiddleName,
		Surname:        p.Surname,
		PreferredName:  p.PreferredName,
		BirthDate:      p.BirthDate,
		BirthPlace:     p.BirthPlace,
		Gender:         p.Gender,
		Alive:          p.Alive,
		Photo:          p.Photo,
		LinkedIn:       p.LinkedIn,
		Facebook:       p.Facebook,
		WhatsApp:       p.WhatsApp,
		YouTube:        p.YouTube,
	}
}

func (w wirePerson) person() Person {
	p := Person{
		ID:             int(w.ID),
		Generation:     w.Generation,
		CoupleID:       int(w.CoupleID),
		ParentCoupleID: int(w.ParentCoupleID),
		PartnerID:      int(w.PartnerID),
		Status:         ParseStatus(w.Status),
		Name:           w.Name,
		MiddleName:     w.MiddleName,
		Surname:        w.Surname,
		PreferredName:  w.PreferredName,
		BirthDate:      w.BirthDate,
		BirthPlace:     w.BirthPlace,
		Gender:         w.Gender,
		Alive:          w.Alive,
		Photo:          w.Photo,
		LinkedIn:       w.LinkedIn,
		Facebook:       w.Facebook,
		WhatsApp:       w.WhatsApp,
		YouTube:        w.YouTube,
	}
	return p
}

// flexID decodes an integer reference that legacy payloads write as
// a number, a numeric string, or the "-" absent sentinel.
type flexID int

// UnmarshalJSON implements tolerant decoding for reference fields.
func (f *flexID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*f = 0
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		str = strings.TrimSpace(str)
		if str == "" || str == "-" {
			*f = 0
			return nil
		}
		n, err := strconv.Atoi(str)
		if err != nil {
			return fmt.Errorf("invalid id %q", str)
		}
		*f = flexID(n)
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexID(n)
	return nil
}

// MarshalJSON always emits the integer form.
func (f flexID) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Itoa(int(f))), nil
}
