package family

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/kintree/kintree/pkg/errors"
)

func TestRoundTrip(t *testing.T) {
	records := []Person{
		{
			ID: 1, Generation: 0, CoupleID: 3, PartnerID: 2,
			Status: StatusMarried, Name: "Ada", Surname: "Byron",
			BirthDate: "1815-12-10", Gender: "female", Photo: "1.jpg",
			LinkedIn: "https://example.com/ada",
		},
		{ID: 2, Generation: 0, CoupleID: 3, PartnerID: 1, Name: "Bert"},
		{ID: 5, Generation: 1, ParentCoupleID: 3, Name: "Cleo", Alive: "Alive"},
	}

	data, err := MarshalRecords(records)
	if err != nil {
		t.Fatalf("MarshalRecords: %v", err)
	}
	got, err := ReadRecords(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadRecords: %v", err)
	}
	if !reflect.DeepEqual(got, records) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, records)
	}
}

func TestReadRecordsLegacyFormat(t *testing.T) {
	payload := `[{
		"FamID": 4,
		"Gen ID": "2",
		"Couple ID": "-",
		"Child to": "3",
		"Paired with": "-",
		"Marital status": "Married",
		"Name": "Ada",
		"Middle name": "King",
		"Surname": "Lovelace",
		"Preferred name": "Ada",
		"Date of birth": "1815-12-10",
		"Gender": "Female",
		"Alive / deceased": "Deceased",
		"photo": "4.jpg"
	}]`

	got, err := ReadRecords(strings.NewReader(payload))
	if err != nil {
		t.Fatalf("ReadRecords: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d records, want 1", len(got))
	}
	p := got[0]
	if p.ID != 4 {
		t.Errorf("ID = %d, want 4", p.ID)
	}
	if p.Generation != 2 {
		t.Errorf("Generation = %d, want 2", p.Generation)
	}
	if p.CoupleID != NoCouple {
		t.Errorf("CoupleID = %d, want absent", p.CoupleID)
	}
	if p.ParentCoupleID != 3 {
		t.Errorf("ParentCoupleID = %d, want 3", p.ParentCoupleID)
	}
	if p.Status != StatusMarried {
		t.Errorf("Status = %v, want married", p.Status)
	}
	if p.Surname != "Lovelace" || p.MiddleName != "King" {
		t.Errorf("name fields not mapped: %+v", p)
	}
	if p.BirthDate != "1815-12-10" {
		t.Errorf("BirthDate = %q", p.BirthDate)
	}
}

func TestReadRecordsParseFailure(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"truncated", `[{"id": 1,`},
		{"not an array", `{"id": 1}`},
		{"bad reference", `[{"id": 1, "couple_id": "twelve"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadRecords(strings.NewReader(tt.payload))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("error code = %q, want INVALID_FORMAT", errors.GetCode(err))
			}
		})
	}
}

func TestImportFailureLeavesStoreUnchanged(t *testing.T) {
	tr := New(sampleRecords())
	before := tr.Records()

	_, err := ReadRecords(strings.NewReader(`[{"id": `))
	if err == nil {
		t.Fatal("expected parse error")
	}

	// The store is only replaced on success; a decode error never
	// produces partial records to replace it with.
	if !reflect.DeepEqual(tr.Records(), before) {
		t.Error("store changed after failed import")
	}
}

func TestFlexIDForms(t *testing.T) {
	tests := []struct {
		in      string
		want    flexID
		wantErr bool
	}{
		{`7`, 7, false},
		{`"7"`, 7, false},
		{`"-"`, 0, false},
		{`""`, 0, false},
		{`null`, 0, false},
		{`"seven"`, 0, true},
	}

	for _, tt := range tests {
		var f flexID
		err := f.UnmarshalJSON([]byte(tt.in))
		if (err != nil) != tt.wantErr {
			t.Errorf("UnmarshalJSON(%s) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && f != tt.want {
			t.Errorf("UnmarshalJSON(%s) = %d, want %d", tt.in, f, tt.want)
		}
	}
}
