// Package engine is the conversation core: it interprets inbound events
// against per-chat session state and produces transport-neutral replies.
// The Telegram adapter in package bot renders them.
package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/m3rciful/catalogbot/bot/session"
	"github.com/m3rciful/catalogbot/catalog"
	"github.com/m3rciful/catalogbot/core/logger"
)

// Store is the document store the engine navigates and mutates.
type Store interface {
	Sections(ctx context.Context) ([]catalog.Section, error)
	Section(ctx context.Context, sectionID string) (catalog.Section, error)
	Categories(ctx context.Context, sectionID string) ([]catalog.Category, error)
	Category(ctx context.Context, sectionID, categoryID string) (catalog.Category, error)
	SetCategoryImage(ctx context.Context, sectionID, categoryID, imageURL string) error

	Sizes(ctx context.Context, sectionID, categoryID string) ([]catalog.Size, error)
	AddSize(ctx context.Context, sectionID, categoryID string, sz catalog.Size) (string, error)
	DeleteSizeCascade(ctx context.Context, sectionID, categoryID, sizeID string) error
	HasSizes(ctx context.Context, sectionID, categoryID string) (bool, error)

	Items(ctx context.Context, p catalog.ItemPath) ([]catalog.Item, error)
	Item(ctx context.Context, p catalog.ItemPath, docID string) (catalog.Item, error)
	AddItem(ctx context.Context, p catalog.ItemPath, it catalog.Item) (string, error)
	SetItemAvailable(ctx context.Context, p catalog.ItemPath, docID string, available bool) error
	DeleteItem(ctx context.Context, p catalog.ItemPath, docID string) error
	HasItems(ctx context.Context, p catalog.ItemPath) (bool, error)

	AddBanner(ctx context.Context, b catalog.Banner) (string, error)
}

// Uploader re-hosts an image reachable at sourceURL and returns a stable URL.
type Uploader interface {
	Upload(ctx context.Context, sourceURL string) (string, error)
}

// Event is an inbound admin interaction.
type Event interface{ isEvent() }

// Text is a free-text message.
type Text struct{ Text string }

func (Text) isEvent() {}

// Photo is an uploaded photo; FileURL points at the highest-resolution
// variant as resolved by the transport adapter.
type Photo struct{ FileURL string }

func (Photo) isEvent() {}

// Act is a decoded button press.
type Act struct{ Action Action }

func (Act) isEvent() {}

// Button is one labeled inline action.
type Button struct {
	Label  string
	Action Action
}

// Reply is one outbound message. When ImageURL is set the adapter sends a
// photo with Text as caption and falls back to text if delivery fails.
type Reply struct {
	Text     string
	ImageURL string
	Edit     bool
	Buttons  [][]Button
	MainMenu bool
}

// Engine drives the navigation router, the form state machine and the mode
// resolver over a session repository.
type Engine struct {
	store    Store
	uploader Uploader
	sessions *session.Repo
}

// New wires the engine with its collaborators.
func New(store Store, uploader Uploader, sessions *session.Repo) *Engine {
	return &Engine{store: store, uploader: uploader, sessions: sessions}
}

// turn accumulates replies while one event is applied to one session.
type turn struct {
	ctx     context.Context
	s       *session.Session
	replies []Reply
}

func (t *turn) say(text string) {
	t.replies = append(t.replies, Reply{Text: text})
}

func (t *turn) add(r Reply) {
	t.replies = append(t.replies, r)
}

// Handle applies one event to the chat's session under its lock, so events
// for a chat are processed in strict arrival order.
func (e *Engine) Handle(ctx context.Context, chatID int64, ev Event) []Reply {
	start := time.Now()
	var replies []Reply
	_ = e.sessions.Do(chatID, func(s *session.Session) error {
		t := &turn{ctx: ctx, s: s}
		switch v := ev.(type) {
		case Text:
			e.handleText(t, v.Text)
		case Photo:
			e.handlePhoto(t, v.FileURL)
		case Act:
			e.handleAction(t, v.Action)
		}
		replies = t.replies
		return nil
	})
	logger.Debug(ctx, "engine", "handled",
		slog.Int64("chat_id", chatID),
		slog.Int("replies", len(replies)),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)
	return replies
}

// Start resets the session and shows the main menu.
func (e *Engine) Start(ctx context.Context, chatID int64) []Reply {
	var replies []Reply
	_ = e.sessions.Do(chatID, func(s *session.Session) error {
		s.Reset()
		replies = []Reply{{Text: msgWelcome, MainMenu: true}}
		return nil
	})
	return replies
}

// Cancel fully resets the session.
func (e *Engine) Cancel(ctx context.Context, chatID int64) []Reply {
	var replies []Reply
	_ = e.sessions.Do(chatID, func(s *session.Session) error {
		s.Reset()
		replies = []Reply{{Text: msgCancelled, MainMenu: true}}
		return nil
	})
	return replies
}

// InProgress reports whether the chat is mid-form. The text router uses it
// to decide whether free text should reach the engine.
func (e *Engine) InProgress(chatID int64) bool {
	return e.sessions.InProgress(chatID)
}

// handleAction dispatches a decoded button press.
func (e *Engine) handleAction(t *turn, a Action) {
	switch v := a.(type) {
	case SelectSection:
		e.selectSection(t, v.ID)
	case SelectCategory:
		e.selectCategory(t, v.SectionID, v.CategoryID)
	case SelectItem:
		e.openItemCard(t, v.DocID, catalog.ModeFlat)
	case SelectSizeItem:
		e.openItemCard(t, v.DocID, catalog.ModeSized)
	case SelectSize:
		e.selectSize(t, v.SizeID)
	case AddItem:
		e.startProductForm(t)
	case AddSize:
		e.startSizeForm(t)
	case Save:
		e.saveProduct(t)
	case Discard:
		e.discardProduct(t)
	case ChooseMode:
		e.chooseMode(t, v.Mode)
	case DeleteItem:
		e.deleteItem(t)
	case ToggleItem:
		e.toggleItem(t)
	case DeleteSize:
		e.deleteSize(t)
	case BackSections:
		e.showSections(t, true)
	case BackCategories:
		e.backToCategories(t)
	case BackItems:
		e.backToItems(t)
	case BackSizes:
		e.backToSizes(t)
	}
}

// handleText routes free text: entry keywords first, then the active form
// step. Unmatched text with no active flow falls through silently.
func (e *Engine) handleText(t *turn, text string) {
	switch text {
	case LabelAddProduct:
		t.s.ResetFlow()
		t.s.Flow = session.FlowProduct
		e.showSections(t, false)
		return
	case LabelAddBanner:
		t.s.ResetFlow()
		t.s.Flow = session.FlowBanner
		t.s.Step = session.StepBannerImage
		t.say(msgBannerImagePrompt)
		return
	}

	switch t.s.Step {
	case session.StepCategoryImage:
		e.categoryImageFromText(t, text)
	case session.StepProductTitle, session.StepProductImage,
		session.StepProductPrice, session.StepProductDescription:
		e.productFormText(t, text)
	case session.StepBannerImage, session.StepBannerCaption:
		e.bannerFormText(t, text)
	case session.StepSizeName, session.StepSizeValue:
		e.sizeFormText(t, text)
	}
	// StepProductPreview and idle sessions ignore free text.
}

// handlePhoto feeds an uploaded photo into whichever step expects an image.
// Photos outside an image step are ignored.
func (e *Engine) handlePhoto(t *turn, fileURL string) {
	switch t.s.Step {
	case session.StepProductImage:
		hosted, ok := e.uploadPhoto(t, fileURL)
		if !ok {
			return
		}
		t.s.Product.Image = hosted
		t.s.Step = session.StepProductPrice
		t.say(msgProductPricePrompt)
	case session.StepBannerImage:
		hosted, ok := e.uploadPhoto(t, fileURL)
		if !ok {
			return
		}
		t.s.Banner.Image = hosted
		e.bannerAskSection(t)
	case session.StepCategoryImage:
		hosted, ok := e.uploadPhoto(t, fileURL)
		if !ok {
			return
		}
		e.setCategoryImage(t, hosted)
	}
}

// uploadPhoto re-hosts the photo. On failure the step is re-prompted and
// session state stays untouched so the admin can retry.
func (e *Engine) uploadPhoto(t *turn, fileURL string) (string, bool) {
	hosted, err := e.uploader.Upload(t.ctx, fileURL)
	if err != nil {
		logger.Warn(t.ctx, "engine", "upload_failed",
			slog.String("err", err.Error()),
		)
		t.say(msgUploadFailed)
		return "", false
	}
	return hosted, true
}
