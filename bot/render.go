package bot

import (
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/catalogbot/bot/engine"
	tghelpers "github.com/m3rciful/catalogbot/core/telegram/helpers"
	"github.com/m3rciful/catalogbot/core/telegram/keyboard"
)

// mainMenu is the persistent reply keyboard with the two flow entry points.
func mainMenu() *tele.ReplyMarkup {
	return keyboard.ReplyButtons([]string{engine.LabelAddProduct, engine.LabelAddBanner})
}

// markupFor converts engine buttons into an inline keyboard.
func markupFor(r engine.Reply) *tele.ReplyMarkup {
	if r.MainMenu {
		return mainMenu()
	}
	if len(r.Buttons) == 0 {
		return nil
	}
	rows := make([][]keyboard.InlineBtn, len(r.Buttons))
	for i, row := range r.Buttons {
		btns := make([]keyboard.InlineBtn, len(row))
		for j, b := range row {
			tag, payload := engine.EncodeAction(b.Action)
			btns[j] = keyboard.InlineBtn{Text: b.Label, Unique: tag, Data: payload}
		}
		rows[i] = btns
	}
	return keyboard.InlineButtonsRows(rows...)
}

// render delivers one engine reply on the triggering context.
func render(c tele.Context, r engine.Reply) error {
	markup := markupFor(r)

	switch {
	case r.ImageURL != "":
		if r.Edit {
			// Editing a media caption in place; falls back to a fresh photo.
			opts := &tele.SendOptions{ParseMode: tele.ModeMarkdown, ReplyMarkup: markup}
			if err := c.EditCaption(r.Text, opts); err == nil {
				return nil
			}
		}
		if markup != nil {
			return tghelpers.SendPhotoMD(c, r.ImageURL, r.Text, markup)
		}
		return tghelpers.SendPhotoMD(c, r.ImageURL, r.Text)
	case r.Edit:
		if markup != nil {
			return tghelpers.EditOrSendMD(c, r.Text, markup)
		}
		return tghelpers.EditOrSendMD(c, r.Text)
	default:
		if markup != nil {
			return tghelpers.SendMD(c, r.Text, markup)
		}
		return tghelpers.SendMD(c, r.Text)
	}
}

// renderAll delivers every reply in order; the first failure stops the rest.
func renderAll(c tele.Context, replies []engine.Reply) error {
	for _, r := range replies {
		if err := render(c, r); err != nil {
			return err
		}
	}
	return nil
}
