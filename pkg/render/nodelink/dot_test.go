package nodelink

import (
	"strings"
	"testing"

	"github.com/kintree/kintree/pkg/family"
)

func TestToDOT(t *testing.T) {
	tr := family.New([]family.Person{
		{ID: 1, Generation: 0, CoupleID: 1, PartnerID: 2, Status: family.StatusMarried, Name: "Astrid", Gender: "Female"},
		{ID: 2, Generation: 0, CoupleID: 1, PartnerID: 1, Status: family.StatusMarried, Name: "Olav", Gender: "Male"},
		{ID: 3, Generation: 1, ParentCoupleID: 1, Name: "Kari"},
	})

	dot := ToDOT(tr, Options{})

	for _, want := range []string{
		"digraph G {",
		`"person-1"`,
		`"couple-1" [shape=point`,
		`"person-1" -> "couple-1"`,
		`"couple-1" -> "person-3"`,
		"rank=same",
		`fillcolor="#fde8ef"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTDetailedLabels(t *testing.T) {
	tr := family.New([]family.Person{
		{ID: 1, Generation: 0, CoupleID: 1, Status: family.StatusMarried, Name: "Astrid", BirthDate: "1940-02-03"},
	})

	plain := ToDOT(tr, Options{})
	if strings.Contains(plain, "1940-02-03") {
		t.Error("plain labels include birth data")
	}

	detailed := ToDOT(tr, Options{Detailed: true})
	for _, want := range []string{"b. 1940-02-03", "married"} {
		if !strings.Contains(detailed, want) {
			t.Errorf("detailed DOT missing %q", want)
		}
	}
}

func TestToDOTDivorcedEdgeDashed(t *testing.T) {
	tr := family.New([]family.Person{
		{ID: 1, Generation: 0, CoupleID: 1, PartnerID: 2, Status: family.StatusDivorced},
		{ID: 2, Generation: 0, CoupleID: 1, PartnerID: 1, Status: family.StatusDivorced},
	})
	if !strings.Contains(ToDOT(tr, Options{}), "[style=dashed]") {
		t.Error("divorced couple edge not dashed")
	}
}

func TestToDOTSkipsLoneCoupleWithoutChildren(t *testing.T) {
	tr := family.New([]family.Person{
		{ID: 1, Generation: 0, CoupleID: 1},
	})
	if strings.Contains(ToDOT(tr, Options{}), "couple-1") {
		t.Error("junction emitted for a childless single-member couple")
	}
}
