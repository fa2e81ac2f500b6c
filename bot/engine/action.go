package engine

import (
	"strings"

	"github.com/m3rciful/catalogbot/catalog"
)

// Action is a decoded button press. Each variant maps to one callback tag;
// the payload carries entity ids when the tag references an entity.
type Action interface {
	actionTag() string
	actionPayload() string
}

// Callback tags. Flat item cards and size-scoped item cards use distinct
// tags so the card knows which list to return to.
const (
	TagSelectSection  = "sec"
	TagSelectCategory = "cat"
	TagSelectItem     = "pv"
	TagSelectSizeItem = "sv"
	TagSelectSize     = "size"
	TagAddItem        = "padd"
	TagAddSize        = "sadd"
	TagSave           = "save"
	TagDiscard        = "discard"
	TagChooseMode     = "mode"
	TagDeleteItem     = "prod:delete"
	TagToggleItem     = "prod:na"
	TagDeleteSize     = "size:delete"
	TagBackSections   = "back:sections"
	TagBackCategories = "back:cats"
	TagBackItems      = "back:items"
	TagBackSizes      = "back:sizes"
)

type SelectSection struct{ ID string }

func (a SelectSection) actionTag() string     { return TagSelectSection }
func (a SelectSection) actionPayload() string { return a.ID }

type SelectCategory struct{ SectionID, CategoryID string }

func (a SelectCategory) actionTag() string { return TagSelectCategory }
func (a SelectCategory) actionPayload() string {
	return a.SectionID + ":" + a.CategoryID
}

// SelectItem opens the card of an item stored directly under the category.
type SelectItem struct{ DocID string }

func (a SelectItem) actionTag() string     { return TagSelectItem }
func (a SelectItem) actionPayload() string { return a.DocID }

// SelectSizeItem opens the card of an item stored under the selected size.
type SelectSizeItem struct{ DocID string }

func (a SelectSizeItem) actionTag() string     { return TagSelectSizeItem }
func (a SelectSizeItem) actionPayload() string { return a.DocID }

type SelectSize struct{ SizeID string }

func (a SelectSize) actionTag() string     { return TagSelectSize }
func (a SelectSize) actionPayload() string { return a.SizeID }

type AddItem struct{}

func (AddItem) actionTag() string     { return TagAddItem }
func (AddItem) actionPayload() string { return "" }

type AddSize struct{}

func (AddSize) actionTag() string     { return TagAddSize }
func (AddSize) actionPayload() string { return "" }

type Save struct{}

func (Save) actionTag() string     { return TagSave }
func (Save) actionPayload() string { return "" }

type Discard struct{}

func (Discard) actionTag() string     { return TagDiscard }
func (Discard) actionPayload() string { return "" }

type ChooseMode struct{ Mode catalog.Mode }

func (a ChooseMode) actionTag() string     { return TagChooseMode }
func (a ChooseMode) actionPayload() string { return string(a.Mode) }

type DeleteItem struct{}

func (DeleteItem) actionTag() string     { return TagDeleteItem }
func (DeleteItem) actionPayload() string { return "" }

type ToggleItem struct{}

func (ToggleItem) actionTag() string     { return TagToggleItem }
func (ToggleItem) actionPayload() string { return "" }

type DeleteSize struct{}

func (DeleteSize) actionTag() string     { return TagDeleteSize }
func (DeleteSize) actionPayload() string { return "" }

type BackSections struct{}

func (BackSections) actionTag() string     { return TagBackSections }
func (BackSections) actionPayload() string { return "" }

type BackCategories struct{}

func (BackCategories) actionTag() string     { return TagBackCategories }
func (BackCategories) actionPayload() string { return "" }

type BackItems struct{}

func (BackItems) actionTag() string     { return TagBackItems }
func (BackItems) actionPayload() string { return "" }

type BackSizes struct{}

func (BackSizes) actionTag() string     { return TagBackSizes }
func (BackSizes) actionPayload() string { return "" }

// EncodeAction splits an action into its callback tag and payload.
func EncodeAction(a Action) (tag, payload string) {
	if a == nil {
		return "", ""
	}
	return a.actionTag(), a.actionPayload()
}

// DecodeAction rebuilds an action from the callback wire form. Decoding
// happens once at the transport boundary; handlers switch on the variant.
func DecodeAction(tag, payload string) (Action, bool) {
	switch tag {
	case TagSelectSection:
		if payload == "" {
			return nil, false
		}
		return SelectSection{ID: payload}, true
	case TagSelectCategory:
		parts := strings.SplitN(payload, ":", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, false
		}
		return SelectCategory{SectionID: parts[0], CategoryID: parts[1]}, true
	case TagSelectItem:
		if payload == "" {
			return nil, false
		}
		return SelectItem{DocID: payload}, true
	case TagSelectSizeItem:
		if payload == "" {
			return nil, false
		}
		return SelectSizeItem{DocID: payload}, true
	case TagSelectSize:
		if payload == "" {
			return nil, false
		}
		return SelectSize{SizeID: payload}, true
	case TagAddItem:
		return AddItem{}, true
	case TagAddSize:
		return AddSize{}, true
	case TagSave:
		return Save{}, true
	case TagDiscard:
		return Discard{}, true
	case TagChooseMode:
		m := catalog.Mode(payload)
		if !m.Valid() {
			return nil, false
		}
		return ChooseMode{Mode: m}, true
	case TagDeleteItem:
		return DeleteItem{}, true
	case TagToggleItem:
		return ToggleItem{}, true
	case TagDeleteSize:
		return DeleteSize{}, true
	case TagBackSections:
		return BackSections{}, true
	case TagBackCategories:
		return BackCategories{}, true
	case TagBackItems:
		return BackItems{}, true
	case TagBackSizes:
		return BackSizes{}, true
	}
	return nil, false
}

// Tags lists every callback tag the engine understands, for wiring.
func Tags() []string {
	return []string{
		TagSelectSection, TagSelectCategory, TagSelectItem, TagSelectSizeItem,
		TagSelectSize, TagAddItem, TagAddSize, TagSave, TagDiscard,
		TagChooseMode, TagDeleteItem, TagToggleItem, TagDeleteSize,
		TagBackSections, TagBackCategories, TagBackItems, TagBackSizes,
	}
}
