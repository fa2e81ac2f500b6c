package engine

import (
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/m3rciful/catalogbot/catalog"
	"github.com/m3rciful/catalogbot/core/logger"
)

// resolveMode decides whether the selected category keeps items flat or
// under sizes. Order: remembered preference, then data presence, then an
// explicit choice. Only an explicit choice or a successful save writes the
// preference; a presence-derived mode stays session-selection only.
func (e *Engine) resolveMode(t *turn) {
	sectionID := t.s.Selected.SectionID
	categoryID := t.s.Selected.CategoryID
	if sectionID == "" || categoryID == "" {
		t.say(msgContextLost)
		return
	}

	if m, ok := t.s.Preferred(sectionID, categoryID); ok {
		t.s.Selected.Mode = m
		logger.Debug(t.ctx, "engine", "mode.preferred",
			slog.String("section", sectionID),
			slog.String("category", categoryID),
			slog.String("mode", string(m)),
		)
		e.renderModeList(t, false)
		return
	}

	// Both probes are independent reads; run them together and wait for both.
	var hasFlat, hasSizes bool
	g, gctx := errgroup.WithContext(t.ctx)
	g.Go(func() error {
		var err error
		hasFlat, err = e.store.HasItems(gctx, catalog.PathFor(sectionID, categoryID, catalog.ModeFlat, ""))
		return err
	})
	g.Go(func() error {
		var err error
		hasSizes, err = e.store.HasSizes(gctx, sectionID, categoryID)
		return err
	})
	if err := g.Wait(); err != nil {
		t.add(errReply(err))
		return
	}

	switch {
	case hasFlat:
		t.s.Selected.Mode = catalog.ModeFlat
		e.renderModeList(t, false)
	case hasSizes:
		t.s.Selected.Mode = catalog.ModeSized
		e.renderModeList(t, false)
	default:
		t.add(modeChoiceReply())
	}
}

// chooseMode applies an explicit mode choice and remembers it.
func (e *Engine) chooseMode(t *turn, mode catalog.Mode) {
	sectionID := t.s.Selected.SectionID
	categoryID := t.s.Selected.CategoryID
	if sectionID == "" || categoryID == "" {
		t.say(msgContextLost)
		return
	}
	t.s.Selected.Mode = mode
	t.s.Remember(sectionID, categoryID, mode)
	e.renderModeList(t, true)
}

// renderModeList shows the list matching the current mode: the flat item
// list, the size-scoped item list when a size is selected, or the size list.
func (e *Engine) renderModeList(t *turn, edit bool) {
	sel := t.s.Selected
	switch {
	case sel.Mode == catalog.ModeFlat:
		items, err := e.store.Items(t.ctx, catalog.PathFor(sel.SectionID, sel.CategoryID, catalog.ModeFlat, ""))
		if err != nil {
			t.add(errReply(err))
			return
		}
		t.add(itemsReply(items, catalog.ModeFlat, edit))
	case sel.Mode == catalog.ModeSized && sel.SizeID != "":
		items, err := e.store.Items(t.ctx, catalog.PathFor(sel.SectionID, sel.CategoryID, catalog.ModeSized, sel.SizeID))
		if err != nil {
			t.add(errReply(err))
			return
		}
		t.add(itemsReply(items, catalog.ModeSized, edit))
	case sel.Mode == catalog.ModeSized:
		sizes, err := e.store.Sizes(t.ctx, sel.SectionID, sel.CategoryID)
		if err != nil {
			t.add(errReply(err))
			return
		}
		t.add(sizesReply(sizes, edit))
	default:
		t.say(msgContextLost)
	}
}
