package engine

import (
	"github.com/m3rciful/catalogbot/bot/session"
	"github.com/m3rciful/catalogbot/catalog"
)

// bannerFormText advances the banner draft by one field.
func (e *Engine) bannerFormText(t *turn, text string) {
	switch t.s.Step {
	case session.StepBannerImage:
		if !catalog.IsImageURL(text) {
			t.say(msgImageFormat)
			return
		}
		t.s.Banner.Image = trimmed(text)
		e.bannerAskSection(t)

	case session.StepBannerCaption:
		e.saveBanner(t, trimmed(text))
	}
}

// bannerAskSection moves to the SECTION step with a sections keyboard.
func (e *Engine) bannerAskSection(t *turn) {
	sections, err := e.store.Sections(t.ctx)
	if err != nil {
		t.add(errReply(err))
		return
	}
	t.s.Step = session.StepBannerSection
	r := sectionsReply(sections, false)
	r.Text = msgBannerSectionPrompt
	t.add(r)
}

// saveBanner validates and persists the banner. A single dash means no
// caption. The session resets to idle whether or not persistence succeeds,
// so a store failure never leaves the flow stuck.
func (e *Engine) saveBanner(t *turn, caption string) {
	if caption == "-" {
		caption = ""
	}

	b := t.s.Banner
	b.Caption = caption

	if err := catalog.ValidateBanner(b); err != nil {
		t.s.ResetFlow()
		e.reportValidation(t, err)
		return
	}

	_, err := e.store.AddBanner(t.ctx, b)
	t.s.ResetFlow()
	if err != nil {
		t.add(errReply(err))
		return
	}
	t.add(Reply{Text: msgBannerSaved, MainMenu: true})
}
