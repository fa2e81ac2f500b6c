package engine

import (
	"errors"
	"strings"

	"github.com/m3rciful/catalogbot/bot/session"
	"github.com/m3rciful/catalogbot/catalog"
)

func trimmed(s string) string { return strings.TrimSpace(s) }

// startProductForm begins the product draft under the current selection.
func (e *Engine) startProductForm(t *turn) {
	sel := t.s.Selected
	if sel.SectionID == "" || sel.CategoryID == "" {
		t.say(msgContextLost)
		return
	}
	if sel.Mode == catalog.ModeSized && sel.SizeID == "" {
		t.say(msgContextLost)
		return
	}
	t.s.ClearDrafts()
	t.s.Flow = session.FlowProduct
	t.s.Step = session.StepProductTitle
	t.say(msgProductTitlePrompt)
}

// productFormText advances the product draft by one field.
func (e *Engine) productFormText(t *turn, text string) {
	text = trimmed(text)
	switch t.s.Step {
	case session.StepProductTitle:
		if text == "" {
			t.say(msgProductTitlePrompt)
			return
		}
		t.s.Product.Title = text
		t.s.Step = session.StepProductImage
		t.say(msgProductImagePrompt)

	case session.StepProductImage:
		if !catalog.IsImageURL(text) {
			t.say(msgImageFormat)
			return
		}
		t.s.Product.Image = text
		t.s.Step = session.StepProductPrice
		t.say(msgProductPricePrompt)

	case session.StepProductPrice:
		if text == "" {
			t.say(msgProductPricePrompt)
			return
		}
		t.s.Product.Price = text
		t.s.Step = session.StepProductDescription
		t.say(msgProductDescPrompt)

	case session.StepProductDescription:
		if text == "" {
			t.say(msgProductDescPrompt)
			return
		}
		t.s.Product.Description = text
		e.composeProduct(t)
	}
}

// composeProduct fills in the selection-derived fields, validates the full
// draft and shows the preview. A validation failure resets the draft.
func (e *Engine) composeProduct(t *turn) {
	sel := t.s.Selected
	draft := t.s.Product
	draft.Available = true
	draft.SectionID = sel.SectionID
	draft.CategoryID = sel.CategoryID
	if sel.Mode == catalog.ModeSized {
		draft.SizeID = sel.SizeID
	} else {
		draft.SizeID = ""
	}

	if err := catalog.ValidateItem(draft, sel.Mode); err != nil {
		e.reportValidation(t, err)
		t.s.ClearDrafts()
		t.s.Flow = session.FlowNone
		return
	}

	t.s.Product = draft
	t.s.Step = session.StepProductPreview
	t.add(previewReply(draft))
}

// saveProduct persists the previewed draft, records the mode preference and
// re-renders the owning list. A store failure keeps the preview retryable.
func (e *Engine) saveProduct(t *turn) {
	if t.s.Flow != session.FlowProduct || t.s.Step != session.StepProductPreview {
		t.say(msgContextLost)
		return
	}
	sel := t.s.Selected
	draft := t.s.Product

	if err := catalog.ValidateItem(draft, sel.Mode); err != nil {
		e.reportValidation(t, err)
		t.s.ClearDrafts()
		t.s.Flow = session.FlowNone
		return
	}

	p := catalog.PathFor(sel.SectionID, sel.CategoryID, sel.Mode, sel.SizeID)
	if _, err := e.store.AddItem(t.ctx, p, draft); err != nil {
		t.add(errReply(err))
		return
	}

	t.s.Remember(sel.SectionID, sel.CategoryID, sel.Mode)
	t.s.ClearDrafts()
	t.s.Flow = session.FlowNone
	t.add(Reply{Text: msgSaved, Edit: true})
	e.renderModeList(t, false)
}

// discardProduct drops the previewed draft without persisting.
func (e *Engine) discardProduct(t *turn) {
	t.s.ClearDrafts()
	t.s.Flow = session.FlowNone
	t.add(Reply{Text: msgDiscarded, Edit: true})

	sel := t.s.Selected
	if sel.SectionID != "" && sel.CategoryID != "" && sel.Mode.Valid() {
		e.renderModeList(t, false)
		return
	}
	t.add(Reply{Text: msgWelcome, MainMenu: true})
}

// reportValidation turns a validation error into a per-field reply.
func (e *Engine) reportValidation(t *turn, err error) {
	var verr *catalog.ValidationError
	if !errors.As(err, &verr) {
		t.add(errReply(err))
		return
	}
	var b strings.Builder
	b.WriteString("❌ Данные некорректны:\n")
	for _, f := range verr.Fields {
		b.WriteString("• " + f.Field + ": " + f.Message + "\n")
	}
	b.WriteString("\nНачните заново: /start")
	t.say(b.String())
}
