package catalog

import (
	"errors"
	"strings"
	"testing"
)

func validItem() Item {
	return Item{
		Title:       "Widget",
		Image:       "http://host/u1.png",
		Price:       "от 2 500 ₸",
		Description: "desc",
		Available:   true,
		SectionID:   "A",
		CategoryID:  "B",
	}
}

func TestValidateItemFlat(t *testing.T) {
	if err := ValidateItem(validItem(), ModeFlat); err != nil {
		t.Fatalf("valid flat item rejected: %v", err)
	}
}

func TestValidateItemSizedRequiresSizeID(t *testing.T) {
	it := validItem()
	if err := ValidateItem(it, ModeSized); err == nil {
		t.Fatal("sized mode without sizeId must fail")
	}
	it.SizeID = "s1"
	if err := ValidateItem(it, ModeSized); err != nil {
		t.Fatalf("valid sized item rejected: %v", err)
	}
}

func TestValidateItemFlatRejectsSizeID(t *testing.T) {
	it := validItem()
	it.SizeID = "s1"
	if err := ValidateItem(it, ModeFlat); err == nil {
		t.Fatal("flat mode with sizeId must fail")
	}
}

func TestValidateItemCollectsFieldErrors(t *testing.T) {
	err := ValidateItem(Item{Image: "ftp://nope"}, ModeFlat)
	if err == nil {
		t.Fatal("expected error")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	fields := make(map[string]bool)
	for _, f := range verr.Fields {
		fields[f.Field] = true
	}
	for _, want := range []string{"title", "image", "price", "description", "sectionId", "categoryId"} {
		if !fields[want] {
			t.Fatalf("missing field error for %s in %v", want, verr.Fields)
		}
	}
	if !strings.Contains(verr.Error(), "image") {
		t.Fatalf("error text should name fields: %s", verr.Error())
	}
}

func TestValidateBanner(t *testing.T) {
	if err := ValidateBanner(Banner{Image: "https://img/x.png", SectionID: "A"}); err != nil {
		t.Fatalf("valid banner rejected: %v", err)
	}
	if err := ValidateBanner(Banner{Image: "https://img/x.png", SectionID: "A", Caption: ""}); err != nil {
		t.Fatalf("caption must be optional: %v", err)
	}
	if err := ValidateBanner(Banner{Image: "x.png", SectionID: "A"}); err == nil {
		t.Fatal("non-URL image must fail")
	}
}

func TestValidateSize(t *testing.T) {
	s := Size{Name: "ПВХ", Size: "1.22x2.44", Image: "http://img/cat.png"}
	if err := ValidateSize(s); err != nil {
		t.Fatalf("valid size rejected: %v", err)
	}
	s.Size = ""
	if err := ValidateSize(s); err == nil {
		t.Fatal("empty size value must fail")
	}
}

func TestPathFor(t *testing.T) {
	flat := PathFor("A", "B", ModeFlat, "ignored")
	if flat.Sized() || flat.SizeID != "" {
		t.Fatalf("flat path must not carry size: %+v", flat)
	}
	sized := PathFor("A", "B", ModeSized, "s1")
	if !sized.Sized() || sized.SizeID != "s1" {
		t.Fatalf("sized path = %+v", sized)
	}
}

func TestIsImageURL(t *testing.T) {
	if !IsImageURL(" http://img/x.png ") {
		t.Fatal("http URL should pass")
	}
	if IsImageURL("hello") {
		t.Fatal("plain text should fail")
	}
}
