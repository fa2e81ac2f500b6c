package engine

import (
	"fmt"

	"github.com/m3rciful/catalogbot/catalog"
)

// Main-menu entry labels. The text router matches these verbatim.
const (
	LabelAddProduct = "🛒 Добавить товар"
	LabelAddBanner  = "🖼 Добавить баннер"
)

const (
	msgWelcome   = "Привет! 👋 Выберите действие на клавиатуре."
	msgCancelled = "Отменено."

	msgContextLost = "❌ Контекст утерян. Нажмите /start"

	msgSectionsPrompt   = "Выберите раздел:"
	msgCategoriesPrompt = "Выберите категорию:"
	msgItemsPrompt      = "Товары (выберите) или добавьте новый:"
	msgSizesPrompt      = "Размеры (выберите) или добавьте новый:"

	msgCategoryImagePrompt = "У категории ещё нет изображения. Отправьте фото или URL (http/https)."
	msgModeChoicePrompt    = "Как хранить товары в этой категории?"

	msgProductTitlePrompt = "1/4 — Отправьте название товара:"
	msgProductImagePrompt = "2/4 — Отправьте фото или URL изображения (http/https):"
	msgProductPricePrompt = "3/4 — Отправьте цену (например: «от 2 500 ₸»):"
	msgProductDescPrompt  = "4/4 — Отправьте описание:"

	msgBannerImagePrompt   = "Отправьте изображение для баннера (фото или http/https URL)."
	msgBannerSectionPrompt = "К какому разделу относится баннер?"
	msgBannerCaptionPrompt = "Подпись к баннеру (необязательно). Отправьте «-», чтобы пропустить."
	msgBannerSaved         = "✅ Баннер сохранён!"

	msgSizeNamePrompt  = "1/2 — Отправьте название (материал):"
	msgSizeValuePrompt = "2/2 — Отправьте размер (например: 1.22x2.44):"

	msgImageFormat  = "Отправьте фото или корректный URL изображения (http/https)."
	msgUploadFailed = "Не удалось загрузить изображение. Отправьте другое фото или URL."

	msgSaved     = "✅ Сохранено!"
	msgDiscarded = "🗑 Черновик удалён."
	msgDeleted   = "🗑 Удалено."
)

func errReply(err error) Reply {
	return Reply{Text: "❌ Ошибка: " + err.Error()}
}

func availabilityMark(available bool) string {
	if available {
		return "✅"
	}
	return "❌"
}

func sectionsReply(sections []catalog.Section, edit bool) Reply {
	rows := make([][]Button, 0, len(sections))
	for _, s := range sections {
		rows = append(rows, []Button{{Label: s.Title, Action: SelectSection{ID: s.ID}}})
	}
	return Reply{Text: msgSectionsPrompt, Edit: edit, Buttons: rows}
}

func categoriesReply(sectionID string, cats []catalog.Category, edit bool) Reply {
	rows := make([][]Button, 0, len(cats)+1)
	for _, c := range cats {
		rows = append(rows, []Button{{
			Label:  c.Title,
			Action: SelectCategory{SectionID: sectionID, CategoryID: c.ID},
		}})
	}
	rows = append(rows, []Button{{Label: "⬅️ Назад (разделы)", Action: BackSections{}}})
	return Reply{Text: msgCategoriesPrompt, Edit: edit, Buttons: rows}
}

// itemsReply renders the item list of a category or size. The item tag
// differs per mode so the opened card returns to the right list.
func itemsReply(items []catalog.Item, mode catalog.Mode, edit bool) Reply {
	rows := make([][]Button, 0, len(items)+2)
	for _, it := range items {
		var a Action
		if mode == catalog.ModeSized {
			a = SelectSizeItem{DocID: it.ID}
		} else {
			a = SelectItem{DocID: it.ID}
		}
		rows = append(rows, []Button{{
			Label:  availabilityMark(it.Available) + " " + it.Title,
			Action: a,
		}})
	}
	rows = append(rows, []Button{{Label: "➕ Новый товар", Action: AddItem{}}})
	if mode == catalog.ModeSized {
		rows = append(rows, []Button{
			{Label: "🗑 Удалить этот размер", Action: DeleteSize{}},
			{Label: "⬅️ Назад (размеры)", Action: BackSizes{}},
		})
	} else {
		rows = append(rows, []Button{{Label: "⬅️ Назад (категории)", Action: BackCategories{}}})
	}
	return Reply{Text: msgItemsPrompt, Edit: edit, Buttons: rows}
}

func sizesReply(sizes []catalog.Size, edit bool) Reply {
	rows := make([][]Button, 0, len(sizes)+2)
	for _, sz := range sizes {
		rows = append(rows, []Button{{
			Label:  fmt.Sprintf("%s — %s", sz.Name, sz.Size),
			Action: SelectSize{SizeID: sz.ID},
		}})
	}
	rows = append(rows, []Button{{Label: "➕ Новый размер", Action: AddSize{}}})
	rows = append(rows, []Button{{Label: "⬅️ Назад (категории)", Action: BackCategories{}}})
	return Reply{Text: msgSizesPrompt, Edit: edit, Buttons: rows}
}

func modeChoiceReply() Reply {
	return Reply{
		Text: msgModeChoicePrompt,
		Buttons: [][]Button{
			{{Label: "📦 Товары напрямую", Action: ChooseMode{Mode: catalog.ModeFlat}}},
			{{Label: "📐 По размерам", Action: ChooseMode{Mode: catalog.ModeSized}}},
		},
	}
}

func previewCaption(it catalog.Item) string {
	return fmt.Sprintf(
		"🧾 *Предпросмотр*\n\n*Название:* %s\n*Цена:* %s\n*Статус:* %s\n*Описание:* %s",
		it.Title, it.Price, availabilityMark(it.Available), it.Description,
	)
}

func previewReply(it catalog.Item) Reply {
	return Reply{
		Text:     previewCaption(it),
		ImageURL: it.Image,
		Buttons: [][]Button{{
			{Label: "✅ Сохранить", Action: Save{}},
			{Label: "❌ Отменить", Action: Discard{}},
		}},
	}
}

func cardCaption(it catalog.Item, sectionTitle, categoryTitle string) string {
	crumb := ""
	if sectionTitle != "" && categoryTitle != "" {
		crumb = fmt.Sprintf("_%s → %s_\n", sectionTitle, categoryTitle)
	}
	return fmt.Sprintf(
		"📦 *%s*\n%s*Цена:* %s\n*Статус:* %s\n\n%s",
		it.Title, crumb, it.Price, availabilityMark(it.Available), it.Description,
	)
}

func itemCardReply(it catalog.Item, sectionTitle, categoryTitle string, edit bool) Reply {
	return Reply{
		Text:     cardCaption(it, sectionTitle, categoryTitle),
		ImageURL: it.Image,
		Edit:     edit,
		Buttons: [][]Button{
			{
				{Label: "🔄 Наличие", Action: ToggleItem{}},
				{Label: "🗑 Удалить", Action: DeleteItem{}},
			},
			{{Label: "⬅️ Назад", Action: BackItems{}}},
		},
	}
}
