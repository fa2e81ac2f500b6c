package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/m3rciful/catalogbot/bot/session"
	"github.com/m3rciful/catalogbot/catalog"
)

const chatID = int64(42)

func newTestEngine(fs *fakeStore, up *fakeUploader) (*Engine, *session.Repo) {
	if up == nil {
		up = &fakeUploader{hosted: "http://host/u1.png"}
	}
	sessions := session.NewRepo()
	return New(fs, up, sessions), sessions
}

// seededStore returns a store with section A and category B (with image).
func seededStore() *fakeStore {
	fs := newFakeStore()
	fs.addSection("A", "Секция A")
	fs.addCategory("A", "B", "Категория B", "http://img/cat.png")
	return fs
}

func lastReply(t *testing.T, replies []Reply) Reply {
	t.Helper()
	if len(replies) == 0 {
		t.Fatal("expected at least one reply")
	}
	return replies[len(replies)-1]
}

func hasButton(r Reply, a Action) bool {
	wantTag, wantPayload := EncodeAction(a)
	for _, row := range r.Buttons {
		for _, b := range row {
			tag, payload := EncodeAction(b.Action)
			if tag == wantTag && payload == wantPayload {
				return true
			}
		}
	}
	return false
}

func TestEmptyCategoryAlwaysPromptsForMode(t *testing.T) {
	e, _ := newTestEngine(seededStore(), nil)
	ctx := context.Background()

	e.Handle(ctx, chatID, Text{Text: LabelAddProduct})
	e.Handle(ctx, chatID, Act{Action: SelectSection{ID: "A"}})
	replies := e.Handle(ctx, chatID, Act{Action: SelectCategory{SectionID: "A", CategoryID: "B"}})

	r := lastReply(t, replies)
	if !hasButton(r, ChooseMode{Mode: catalog.ModeFlat}) || !hasButton(r, ChooseMode{Mode: catalog.ModeSized}) {
		t.Fatalf("empty category must offer the mode choice, got %+v", r)
	}
}

func TestPreferenceSticksOverLaterData(t *testing.T) {
	fs := seededStore()
	e, _ := newTestEngine(fs, nil)
	ctx := context.Background()

	e.Handle(ctx, chatID, Text{Text: LabelAddProduct})
	e.Handle(ctx, chatID, Act{Action: SelectSection{ID: "A"}})
	e.Handle(ctx, chatID, Act{Action: SelectCategory{SectionID: "A", CategoryID: "B"}})
	replies := e.Handle(ctx, chatID, Act{Action: ChooseMode{Mode: catalog.ModeFlat}})
	if r := lastReply(t, replies); !hasButton(r, AddItem{}) {
		t.Fatalf("flat choice should render the item list, got %+v", r)
	}

	// Opposite-kind data appears behind the session's back.
	fs.sizes["A/B"] = append(fs.sizes["A/B"], catalog.Size{ID: "s1", Name: "ПВХ", Size: "1x2"})

	replies = e.Handle(ctx, chatID, Act{Action: SelectCategory{SectionID: "A", CategoryID: "B"}})
	r := lastReply(t, replies)
	if hasButton(r, ChooseMode{Mode: catalog.ModeFlat}) {
		t.Fatal("remembered preference must skip the mode prompt")
	}
	if !hasButton(r, AddItem{}) {
		t.Fatalf("remembered flat mode must render the flat item list, got %+v", r)
	}
}

func TestModeDetectionFromDataPresence(t *testing.T) {
	fs := seededStore()
	fs.sizes["A/B"] = append(fs.sizes["A/B"], catalog.Size{ID: "s1", Name: "ПВХ", Size: "1x2"})
	e, _ := newTestEngine(fs, nil)
	ctx := context.Background()

	e.Handle(ctx, chatID, Text{Text: LabelAddProduct})
	e.Handle(ctx, chatID, Act{Action: SelectSection{ID: "A"}})
	replies := e.Handle(ctx, chatID, Act{Action: SelectCategory{SectionID: "A", CategoryID: "B"}})

	r := lastReply(t, replies)
	if !hasButton(r, AddSize{}) {
		t.Fatalf("size presence must render the size list, got %+v", r)
	}
}

func TestCategoryWithoutImageForcesCollection(t *testing.T) {
	fs := newFakeStore()
	fs.addSection("A", "Секция A")
	fs.addCategory("A", "B", "Категория B", "")
	e, _ := newTestEngine(fs, nil)
	ctx := context.Background()

	e.Handle(ctx, chatID, Text{Text: LabelAddProduct})
	e.Handle(ctx, chatID, Act{Action: SelectSection{ID: "A"}})
	replies := e.Handle(ctx, chatID, Act{Action: SelectCategory{SectionID: "A", CategoryID: "B"}})
	if r := lastReply(t, replies); r.Text != msgCategoryImagePrompt {
		t.Fatalf("missing image must be collected first, got %+v", r)
	}

	// Non-URL text re-prompts without advancing.
	replies = e.Handle(ctx, chatID, Text{Text: "not a url"})
	if r := lastReply(t, replies); r.Text != msgImageFormat {
		t.Fatalf("bad image input must re-prompt, got %+v", r)
	}

	replies = e.Handle(ctx, chatID, Text{Text: "http://img/x.png"})
	if c, _ := fs.Category(ctx, "A", "B"); c.Image != "http://img/x.png" {
		t.Fatalf("category image not persisted: %+v", c)
	}
	// No data yet, so the mode prompt follows immediately.
	if r := lastReply(t, replies); !hasButton(r, ChooseMode{Mode: catalog.ModeSized}) {
		t.Fatalf("expected mode choice after image collection, got %+v", r)
	}
}

func TestFullProductFlowFlat(t *testing.T) {
	fs := newFakeStore()
	fs.addSection("A", "Секция A")
	fs.addCategory("A", "B", "Категория B", "")
	up := &fakeUploader{hosted: "http://host/u1.png"}
	e, sessions := newTestEngine(fs, up)
	ctx := context.Background()

	e.Start(ctx, chatID)
	e.Handle(ctx, chatID, Text{Text: LabelAddProduct})
	e.Handle(ctx, chatID, Act{Action: SelectSection{ID: "A"}})
	e.Handle(ctx, chatID, Act{Action: SelectCategory{SectionID: "A", CategoryID: "B"}})
	e.Handle(ctx, chatID, Text{Text: "http://img/x.png"})
	e.Handle(ctx, chatID, Act{Action: ChooseMode{Mode: catalog.ModeFlat}})
	e.Handle(ctx, chatID, Act{Action: AddItem{}})
	e.Handle(ctx, chatID, Text{Text: "Widget"})
	e.Handle(ctx, chatID, Photo{FileURL: "https://api.telegram.org/file/photo.jpg"})
	e.Handle(ctx, chatID, Text{Text: "100"})
	replies := e.Handle(ctx, chatID, Text{Text: "desc"})

	preview := lastReply(t, replies)
	if preview.ImageURL != "http://host/u1.png" {
		t.Fatalf("preview should carry the hosted image, got %+v", preview)
	}
	if !hasButton(preview, Save{}) || !hasButton(preview, Discard{}) {
		t.Fatalf("preview must offer save and discard, got %+v", preview)
	}
	if len(up.calls) != 1 {
		t.Fatalf("uploader calls = %v", up.calls)
	}

	e.Handle(ctx, chatID, Act{Action: Save{}})

	items := fs.items["A/B"]
	if len(items) != 1 {
		t.Fatalf("want exactly one item, got %d", len(items))
	}
	it := items[0]
	want := catalog.Item{
		ID: it.ID, Title: "Widget", Image: "http://host/u1.png",
		Price: "100", Description: "desc", Available: true,
		SectionID: "A", CategoryID: "B",
	}
	if it != want {
		t.Fatalf("item = %+v, want %+v", it, want)
	}
	if it.SizeID != "" {
		t.Fatal("flat item must not carry sizeId")
	}

	_ = sessions.Do(chatID, func(s *session.Session) error {
		if m, ok := s.Preferred("A", "B"); !ok || m != catalog.ModeFlat {
			t.Errorf("prefer[A][B] = %v %v, want prod", m, ok)
		}
		if s.InProgress() {
			t.Errorf("session should be idle after save: %+v", s)
		}
		return nil
	})
}

func TestSizedItemCarriesSizeID(t *testing.T) {
	fs := seededStore()
	fs.sizes["A/B"] = append(fs.sizes["A/B"], catalog.Size{ID: "s1", Name: "ПВХ", Size: "1x2"})
	e, _ := newTestEngine(fs, nil)
	ctx := context.Background()

	e.Handle(ctx, chatID, Text{Text: LabelAddProduct})
	e.Handle(ctx, chatID, Act{Action: SelectSection{ID: "A"}})
	e.Handle(ctx, chatID, Act{Action: SelectCategory{SectionID: "A", CategoryID: "B"}})
	e.Handle(ctx, chatID, Act{Action: SelectSize{SizeID: "s1"}})
	e.Handle(ctx, chatID, Act{Action: AddItem{}})
	e.Handle(ctx, chatID, Text{Text: "Лист"})
	e.Handle(ctx, chatID, Text{Text: "http://img/p.png"})
	e.Handle(ctx, chatID, Text{Text: "500"})
	e.Handle(ctx, chatID, Text{Text: "описание"})
	e.Handle(ctx, chatID, Act{Action: Save{}})

	if n := len(fs.items["A/B"]); n != 0 {
		t.Fatalf("no flat items expected, got %d", n)
	}
	sized := fs.items["A/B/s1"]
	if len(sized) != 1 {
		t.Fatalf("want one sized item, got %d", len(sized))
	}
	if sized[0].SizeID != "s1" {
		t.Fatalf("sized item must carry sizeId, got %+v", sized[0])
	}
}

func TestValidationFailureCreatesNothing(t *testing.T) {
	fs := seededStore()
	e, sessions := newTestEngine(fs, nil)
	ctx := context.Background()

	// Stale state: a caption arrives for a banner draft whose image was lost.
	_ = sessions.Do(chatID, func(s *session.Session) error {
		s.Flow = session.FlowBanner
		s.Step = session.StepBannerCaption
		return nil
	})

	replies := e.Handle(ctx, chatID, Text{Text: "подпись"})
	if len(fs.banners) != 0 {
		t.Fatalf("invalid banner must not persist, got %v", fs.banners)
	}
	if r := lastReply(t, replies); !strings.Contains(r.Text, "image") {
		t.Fatalf("validation reply should name the bad field, got %+v", r)
	}
	if e.InProgress(chatID) {
		t.Fatal("failed validation must reset the draft to idle")
	}
}

func TestDeleteSizeCascades(t *testing.T) {
	fs := seededStore()
	fs.sizes["A/B"] = append(fs.sizes["A/B"], catalog.Size{ID: "s1", Name: "ПВХ", Size: "1x2"})
	fs.items["A/B/s1"] = append(fs.items["A/B/s1"],
		catalog.Item{ID: "i1", Title: "x", SizeID: "s1"},
		catalog.Item{ID: "i2", Title: "y", SizeID: "s1"},
	)
	e, _ := newTestEngine(fs, nil)
	ctx := context.Background()

	e.Handle(ctx, chatID, Text{Text: LabelAddProduct})
	e.Handle(ctx, chatID, Act{Action: SelectSection{ID: "A"}})
	e.Handle(ctx, chatID, Act{Action: SelectCategory{SectionID: "A", CategoryID: "B"}})
	e.Handle(ctx, chatID, Act{Action: SelectSize{SizeID: "s1"}})
	e.Handle(ctx, chatID, Act{Action: DeleteSize{}})

	if n := len(fs.items["A/B/s1"]); n != 0 {
		t.Fatalf("items must be gone after cascade, got %d", n)
	}
	if n := len(fs.sizes["A/B"]); n != 0 {
		t.Fatalf("size must be gone after cascade, got %d", n)
	}
}

func TestToggleAvailabilityTwiceRestoresOriginal(t *testing.T) {
	fs := seededStore()
	fs.items["A/B"] = append(fs.items["A/B"], catalog.Item{
		ID: "i1", Title: "Widget", Image: "http://img/p.png",
		Price: "100", Description: "d", Available: true,
		SectionID: "A", CategoryID: "B",
	})
	e, _ := newTestEngine(fs, nil)
	ctx := context.Background()

	e.Handle(ctx, chatID, Text{Text: LabelAddProduct})
	e.Handle(ctx, chatID, Act{Action: SelectSection{ID: "A"}})
	e.Handle(ctx, chatID, Act{Action: SelectCategory{SectionID: "A", CategoryID: "B"}})
	e.Handle(ctx, chatID, Act{Action: SelectItem{DocID: "i1"}})

	e.Handle(ctx, chatID, Act{Action: ToggleItem{}})
	if fs.items["A/B"][0].Available {
		t.Fatal("first toggle should flip to unavailable")
	}
	e.Handle(ctx, chatID, Act{Action: ToggleItem{}})
	if !fs.items["A/B"][0].Available {
		t.Fatal("second toggle should restore availability")
	}
}

func TestIdleUnknownTextFallsThrough(t *testing.T) {
	e, sessions := newTestEngine(seededStore(), nil)
	ctx := context.Background()

	replies := e.Handle(ctx, chatID, Text{Text: "hello"})
	if len(replies) != 0 {
		t.Fatalf("idle unknown text must produce no replies, got %v", replies)
	}
	_ = sessions.Do(chatID, func(s *session.Session) error {
		if s.InProgress() || s.Selected.SectionID != "" {
			t.Errorf("session must stay untouched: %+v", s)
		}
		return nil
	})
}

func TestBannerDashCaptionStoredAbsent(t *testing.T) {
	fs := seededStore()
	e, _ := newTestEngine(fs, nil)
	ctx := context.Background()

	e.Handle(ctx, chatID, Text{Text: LabelAddBanner})
	e.Handle(ctx, chatID, Text{Text: "http://img/banner.png"})
	e.Handle(ctx, chatID, Act{Action: SelectSection{ID: "A"}})
	replies := e.Handle(ctx, chatID, Text{Text: "-"})

	if len(fs.banners) != 1 {
		t.Fatalf("want one banner, got %d", len(fs.banners))
	}
	b := fs.banners[0]
	if b.Caption != "" {
		t.Fatalf("dash caption must be stored absent, got %q", b.Caption)
	}
	if b.SectionID != "A" || b.Image != "http://img/banner.png" {
		t.Fatalf("banner = %+v", b)
	}
	if r := lastReply(t, replies); !r.MainMenu {
		t.Fatalf("banner save should return to the main menu, got %+v", r)
	}
}

func TestBannerStoreFailureStillResets(t *testing.T) {
	fs := seededStore()
	e, _ := newTestEngine(fs, nil)
	ctx := context.Background()

	e.Handle(ctx, chatID, Text{Text: LabelAddBanner})
	e.Handle(ctx, chatID, Text{Text: "http://img/banner.png"})
	e.Handle(ctx, chatID, Act{Action: SelectSection{ID: "A"}})

	fs.failAdd = true
	replies := e.Handle(ctx, chatID, Text{Text: "подпись"})

	if r := lastReply(t, replies); !strings.Contains(r.Text, "Ошибка") {
		t.Fatalf("store failure must be reported, got %+v", r)
	}
	if e.InProgress(chatID) {
		t.Fatal("banner flow must not stay stuck after a store failure")
	}
}

func TestSaveStoreFailureKeepsPreviewRetryable(t *testing.T) {
	fs := seededStore()
	e, sessions := newTestEngine(fs, nil)
	ctx := context.Background()

	e.Handle(ctx, chatID, Text{Text: LabelAddProduct})
	e.Handle(ctx, chatID, Act{Action: SelectSection{ID: "A"}})
	e.Handle(ctx, chatID, Act{Action: SelectCategory{SectionID: "A", CategoryID: "B"}})
	e.Handle(ctx, chatID, Act{Action: ChooseMode{Mode: catalog.ModeFlat}})
	e.Handle(ctx, chatID, Act{Action: AddItem{}})
	e.Handle(ctx, chatID, Text{Text: "Widget"})
	e.Handle(ctx, chatID, Text{Text: "http://img/p.png"})
	e.Handle(ctx, chatID, Text{Text: "100"})
	e.Handle(ctx, chatID, Text{Text: "desc"})

	fs.failAdd = true
	e.Handle(ctx, chatID, Act{Action: Save{}})

	_ = sessions.Do(chatID, func(s *session.Session) error {
		if s.Step != session.StepProductPreview {
			t.Errorf("preview must stay retryable, step = %q", s.Step)
		}
		return nil
	})

	fs.failAdd = false
	e.Handle(ctx, chatID, Act{Action: Save{}})
	if len(fs.items["A/B"]) != 1 {
		t.Fatalf("retried save should persist exactly one item, got %d", len(fs.items["A/B"]))
	}
}

func TestStaleCallbackAfterResetReportsContextLost(t *testing.T) {
	e, _ := newTestEngine(seededStore(), nil)
	ctx := context.Background()

	e.Cancel(ctx, chatID)
	replies := e.Handle(ctx, chatID, Act{Action: AddItem{}})
	if r := lastReply(t, replies); r.Text != msgContextLost {
		t.Fatalf("stale action must report lost context, got %+v", r)
	}
}

func TestPhotoOutsideImageStepIgnored(t *testing.T) {
	up := &fakeUploader{hosted: "http://host/u1.png"}
	e, _ := newTestEngine(seededStore(), up)
	ctx := context.Background()

	replies := e.Handle(ctx, chatID, Photo{FileURL: "https://api.telegram.org/file/x.jpg"})
	if len(replies) != 0 {
		t.Fatalf("photo without an image step must be ignored, got %v", replies)
	}
	if len(up.calls) != 0 {
		t.Fatalf("uploader must not be called, got %v", up.calls)
	}
}

func TestUploadFailureKeepsStepRetryable(t *testing.T) {
	fs := seededStore()
	up := &fakeUploader{err: context.DeadlineExceeded}
	e, sessions := newTestEngine(fs, up)
	ctx := context.Background()

	e.Handle(ctx, chatID, Text{Text: LabelAddBanner})
	replies := e.Handle(ctx, chatID, Photo{FileURL: "https://api.telegram.org/file/x.jpg"})

	if r := lastReply(t, replies); r.Text != msgUploadFailed {
		t.Fatalf("upload failure must re-prompt, got %+v", r)
	}
	_ = sessions.Do(chatID, func(s *session.Session) error {
		if s.Step != session.StepBannerImage {
			t.Errorf("step must be unchanged after failed upload, got %q", s.Step)
		}
		return nil
	})
}

func TestFlowEntryDiscardsOtherDraft(t *testing.T) {
	e, sessions := newTestEngine(seededStore(), nil)
	ctx := context.Background()

	e.Handle(ctx, chatID, Text{Text: LabelAddBanner})
	e.Handle(ctx, chatID, Text{Text: "http://img/banner.png"})

	e.Handle(ctx, chatID, Text{Text: LabelAddProduct})
	_ = sessions.Do(chatID, func(s *session.Session) error {
		if s.Banner.Image != "" {
			t.Errorf("entering product flow must drop the banner draft: %+v", s.Banner)
		}
		if s.Flow != session.FlowProduct {
			t.Errorf("flow = %q", s.Flow)
		}
		return nil
	})
}
