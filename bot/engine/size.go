package engine

import (
	"github.com/m3rciful/catalogbot/bot/session"
	"github.com/m3rciful/catalogbot/catalog"
)

// startSizeForm begins the size draft for the current category.
func (e *Engine) startSizeForm(t *turn) {
	sel := t.s.Selected
	if sel.SectionID == "" || sel.CategoryID == "" {
		t.say(msgContextLost)
		return
	}
	t.s.ClearDrafts()
	t.s.Flow = session.FlowSize
	t.s.Step = session.StepSizeName
	t.say(msgSizeNamePrompt)
}

// sizeFormText advances the size draft. The image defaults to the owning
// category's image collected earlier.
func (e *Engine) sizeFormText(t *turn, text string) {
	text = trimmed(text)
	switch t.s.Step {
	case session.StepSizeName:
		if text == "" {
			t.say(msgSizeNamePrompt)
			return
		}
		t.s.SizeDraft.Name = text
		t.s.Step = session.StepSizeValue
		t.say(msgSizeValuePrompt)

	case session.StepSizeValue:
		if text == "" {
			t.say(msgSizeValuePrompt)
			return
		}
		t.s.SizeDraft.Size = text
		e.saveSize(t)
	}
}

// saveSize validates and persists the composed size, then re-renders the
// size list. A store failure keeps the step retryable.
func (e *Engine) saveSize(t *turn) {
	sel := t.s.Selected
	if sel.SectionID == "" || sel.CategoryID == "" {
		t.say(msgContextLost)
		return
	}

	draft := t.s.SizeDraft
	draft.Image = sel.CategoryImage

	if err := catalog.ValidateSize(draft); err != nil {
		e.reportValidation(t, err)
		t.s.ClearDrafts()
		t.s.Flow = session.FlowNone
		return
	}

	if _, err := e.store.AddSize(t.ctx, sel.SectionID, sel.CategoryID, draft); err != nil {
		t.add(errReply(err))
		return
	}

	t.s.ClearDrafts()
	t.s.Flow = session.FlowNone
	t.s.Selected.Mode = catalog.ModeSized
	t.say(msgSaved)
	sizes, err := e.store.Sizes(t.ctx, sel.SectionID, sel.CategoryID)
	if err != nil {
		t.add(errReply(err))
		return
	}
	t.add(sizesReply(sizes, false))
}

// deleteSize cascades: all items under the size go first, then the size
// itself, then the size list is re-rendered.
func (e *Engine) deleteSize(t *turn) {
	sel := &t.s.Selected
	if sel.SectionID == "" || sel.CategoryID == "" || sel.SizeID == "" {
		t.say(msgContextLost)
		return
	}
	if err := e.store.DeleteSizeCascade(t.ctx, sel.SectionID, sel.CategoryID, sel.SizeID); err != nil {
		t.add(errReply(err))
		return
	}
	sel.SizeID = ""
	sel.DocID = ""
	t.say(msgDeleted)
	sizes, err := e.store.Sizes(t.ctx, sel.SectionID, sel.CategoryID)
	if err != nil {
		t.add(errReply(err))
		return
	}
	if len(sizes) == 0 {
		// The cached mode is stale now; let the next visit re-resolve it.
		sel.Mode = ""
	}
	t.add(sizesReply(sizes, false))
}
