package engine

import (
	"reflect"
	"testing"

	"github.com/m3rciful/catalogbot/catalog"
)

func TestActionRoundTrip(t *testing.T) {
	actions := []Action{
		SelectSection{ID: "listovye-materialy"},
		SelectCategory{SectionID: "A", CategoryID: "B"},
		SelectItem{DocID: "d1"},
		SelectSizeItem{DocID: "d2"},
		SelectSize{SizeID: "s1"},
		AddItem{},
		AddSize{},
		Save{},
		Discard{},
		ChooseMode{Mode: catalog.ModeFlat},
		ChooseMode{Mode: catalog.ModeSized},
		DeleteItem{},
		ToggleItem{},
		DeleteSize{},
		BackSections{},
		BackCategories{},
		BackItems{},
		BackSizes{},
	}
	for _, a := range actions {
		tag, payload := EncodeAction(a)
		got, ok := DecodeAction(tag, payload)
		if !ok {
			t.Fatalf("decode failed for %s|%s", tag, payload)
		}
		if !reflect.DeepEqual(got, a) {
			t.Fatalf("round trip %s|%s = %#v, want %#v", tag, payload, got, a)
		}
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	cases := []struct{ tag, payload string }{
		{TagSelectSection, ""},
		{TagSelectCategory, "only-section"},
		{TagSelectCategory, ":cat"},
		{TagSelectItem, ""},
		{TagSelectSize, ""},
		{TagChooseMode, "bogus"},
		{"unknown", "x"},
	}
	for _, c := range cases {
		if a, ok := DecodeAction(c.tag, c.payload); ok {
			t.Errorf("DecodeAction(%q, %q) = %#v, want reject", c.tag, c.payload, a)
		}
	}
}

func TestTagsCoverDecoder(t *testing.T) {
	for _, tag := range Tags() {
		// Every advertised tag must decode with some payload.
		if _, ok := DecodeAction(tag, "a:b"); !ok {
			if _, ok := DecodeAction(tag, "prod"); !ok {
				t.Errorf("tag %q not decodable", tag)
			}
		}
	}
}
