package engine

import (
	"errors"

	"github.com/m3rciful/catalogbot/bot/session"
	"github.com/m3rciful/catalogbot/catalog"
	"github.com/m3rciful/catalogbot/store"
)

// showSections renders the sections list. edit re-renders in place.
func (e *Engine) showSections(t *turn, edit bool) {
	sections, err := e.store.Sections(t.ctx)
	if err != nil {
		t.add(errReply(err))
		return
	}
	t.add(sectionsReply(sections, edit))
}

// selectSection routes a section tap: in the banner flow it completes the
// SECTION step, otherwise it descends into the section's categories.
func (e *Engine) selectSection(t *turn, sectionID string) {
	if t.s.Flow == session.FlowBanner && t.s.Step == session.StepBannerSection {
		t.s.Banner.SectionID = sectionID
		t.s.Step = session.StepBannerCaption
		t.add(Reply{Text: msgBannerCaptionPrompt, Edit: true})
		return
	}

	t.s.Selected = session.Selection{SectionID: sectionID}
	cats, err := e.store.Categories(t.ctx, sectionID)
	if err != nil {
		t.add(errReply(err))
		return
	}
	t.add(categoriesReply(sectionID, cats, true))
}

// selectCategory descends into a category. A category without an image
// forces the image-collection step before anything else.
func (e *Engine) selectCategory(t *turn, sectionID, categoryID string) {
	t.s.Selected = session.Selection{SectionID: sectionID, CategoryID: categoryID}

	c, err := e.store.Category(t.ctx, sectionID, categoryID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			t.say(msgContextLost)
			return
		}
		t.add(errReply(err))
		return
	}

	if c.Image == "" {
		t.s.Flow = session.FlowProduct
		t.s.Step = session.StepCategoryImage
		t.say(msgCategoryImagePrompt)
		return
	}

	t.s.Selected.CategoryImage = c.Image
	e.resolveMode(t)
}

// categoryImageFromText accepts an image URL for the pending category.
func (e *Engine) categoryImageFromText(t *turn, text string) {
	if !catalog.IsImageURL(text) {
		t.say(msgImageFormat)
		return
	}
	e.setCategoryImage(t, trimmed(text))
}

// setCategoryImage persists the collected image and continues navigation.
// On a store failure the step is kept so the admin can retry.
func (e *Engine) setCategoryImage(t *turn, imageURL string) {
	sectionID := t.s.Selected.SectionID
	categoryID := t.s.Selected.CategoryID
	if sectionID == "" || categoryID == "" {
		t.say(msgContextLost)
		return
	}
	if err := e.store.SetCategoryImage(t.ctx, sectionID, categoryID, imageURL); err != nil {
		t.add(errReply(err))
		return
	}
	t.s.Selected.CategoryImage = imageURL
	t.s.Step = session.StepNone
	e.resolveMode(t)
}

// selectSize opens the size-scoped item list.
func (e *Engine) selectSize(t *turn, sizeID string) {
	sel := &t.s.Selected
	if sel.SectionID == "" || sel.CategoryID == "" {
		t.say(msgContextLost)
		return
	}
	sel.Mode = catalog.ModeSized
	sel.SizeID = sizeID
	sel.DocID = ""
	e.renderModeList(t, true)
}

// openItemCard shows a single item with its actions. The mode argument comes
// from the tag variant, so the card's back action returns to the right list.
func (e *Engine) openItemCard(t *turn, docID string, mode catalog.Mode) {
	sel := &t.s.Selected
	if sel.SectionID == "" || sel.CategoryID == "" || (mode == catalog.ModeSized && sel.SizeID == "") {
		t.say(msgContextLost)
		return
	}
	sel.Mode = mode
	sel.DocID = docID

	p := catalog.PathFor(sel.SectionID, sel.CategoryID, mode, sel.SizeID)
	it, err := e.store.Item(t.ctx, p, docID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			t.say("❌ Товар не найден.")
			return
		}
		t.add(errReply(err))
		return
	}

	sectionTitle, categoryTitle := e.titles(t, sel.SectionID, sel.CategoryID)
	t.add(itemCardReply(it, sectionTitle, categoryTitle, false))
}

// titles resolves breadcrumb titles, falling back to raw ids.
func (e *Engine) titles(t *turn, sectionID, categoryID string) (string, string) {
	sectionTitle, categoryTitle := sectionID, categoryID
	if sec, err := e.store.Section(t.ctx, sectionID); err == nil {
		sectionTitle = sec.Title
	}
	if cat, err := e.store.Category(t.ctx, sectionID, categoryID); err == nil {
		categoryTitle = cat.Title
	}
	return sectionTitle, categoryTitle
}

// toggleItem flips availability in place and re-renders the card.
func (e *Engine) toggleItem(t *turn) {
	sel := t.s.Selected
	if sel.SectionID == "" || sel.CategoryID == "" || sel.DocID == "" {
		t.say(msgContextLost)
		return
	}
	p := catalog.PathFor(sel.SectionID, sel.CategoryID, sel.Mode, sel.SizeID)
	it, err := e.store.Item(t.ctx, p, sel.DocID)
	if err != nil {
		t.add(errReply(err))
		return
	}
	if err := e.store.SetItemAvailable(t.ctx, p, sel.DocID, !it.Available); err != nil {
		t.add(errReply(err))
		return
	}
	it.Available = !it.Available

	sectionTitle, categoryTitle := e.titles(t, sel.SectionID, sel.CategoryID)
	t.add(itemCardReply(it, sectionTitle, categoryTitle, true))
}

// deleteItem removes the viewed item and returns to its owning list.
func (e *Engine) deleteItem(t *turn) {
	sel := &t.s.Selected
	if sel.SectionID == "" || sel.CategoryID == "" || sel.DocID == "" {
		t.say(msgContextLost)
		return
	}
	p := catalog.PathFor(sel.SectionID, sel.CategoryID, sel.Mode, sel.SizeID)
	if err := e.store.DeleteItem(t.ctx, p, sel.DocID); err != nil {
		t.add(errReply(err))
		return
	}
	sel.DocID = ""
	t.say(msgDeleted)
	e.renderModeList(t, false)
}

// backToCategories re-renders the categories of the current section.
func (e *Engine) backToCategories(t *turn) {
	sectionID := t.s.Selected.SectionID
	if sectionID == "" {
		t.say(msgContextLost)
		return
	}
	cats, err := e.store.Categories(t.ctx, sectionID)
	if err != nil {
		t.add(errReply(err))
		return
	}
	t.add(categoriesReply(sectionID, cats, true))
}

// backToItems returns from a card to the owning list. A stale or unset mode
// is re-resolved instead of trusted.
func (e *Engine) backToItems(t *turn) {
	sel := &t.s.Selected
	if sel.SectionID == "" || sel.CategoryID == "" {
		t.say(msgContextLost)
		return
	}
	sel.DocID = ""
	if !sel.Mode.Valid() || (sel.Mode == catalog.ModeSized && sel.SizeID == "") {
		e.resolveMode(t)
		return
	}
	e.renderModeList(t, false)
}

// backToSizes leaves a size-scoped list for the size list.
func (e *Engine) backToSizes(t *turn) {
	sel := &t.s.Selected
	if sel.SectionID == "" || sel.CategoryID == "" {
		t.say(msgContextLost)
		return
	}
	sel.SizeID = ""
	sel.DocID = ""
	sizes, err := e.store.Sizes(t.ctx, sel.SectionID, sel.CategoryID)
	if err != nil {
		t.add(errReply(err))
		return
	}
	t.add(sizesReply(sizes, true))
}
