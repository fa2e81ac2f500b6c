// Package session holds per-chat conversation state. Sessions live in
// process memory only and do not survive a restart.
package session

import (
	"sync"

	"github.com/m3rciful/catalogbot/catalog"
)

// Flow names the active multi-step form.
type Flow string

const (
	FlowNone    Flow = ""
	FlowProduct Flow = "product"
	FlowBanner  Flow = "banner"
	FlowSize    Flow = "size"
)

// Step names the field the active flow is waiting for.
type Step string

const (
	StepNone Step = ""

	StepProductTitle       Step = "product.title"
	StepProductImage       Step = "product.image"
	StepProductPrice       Step = "product.price"
	StepProductDescription Step = "product.description"
	StepProductPreview     Step = "product.preview"

	StepBannerImage   Step = "banner.image"
	StepBannerSection Step = "banner.section"
	StepBannerCaption Step = "banner.caption"

	StepSizeName  Step = "size.name"
	StepSizeValue Step = "size.value"

	// StepCategoryImage blocks navigation into a category until the admin
	// supplies an image for it.
	StepCategoryImage Step = "category.image"
)

// Selection tracks where the admin currently is in the taxonomy.
type Selection struct {
	SectionID  string
	CategoryID string
	Mode       catalog.Mode
	SizeID     string
	DocID      string
	// CategoryImage caches the selected category's image so new sizes can
	// default to it without another read.
	CategoryImage string
}

// Session is the whole per-chat state. At most one of the three drafts is
// active at a time, matching Flow.
type Session struct {
	Flow Flow
	Step Step

	Product   catalog.Item
	Banner    catalog.Banner
	SizeDraft catalog.Size

	Selected Selection

	// Prefer remembers the chosen mode per (section, category) for the
	// lifetime of this session.
	Prefer map[string]map[string]catalog.Mode
}

// Reset clears everything including remembered preferences.
func (s *Session) Reset() {
	*s = Session{}
}

// ResetFlow clears the active flow, drafts and selection but keeps Prefer.
// Used on flow entry and after save/discard.
func (s *Session) ResetFlow() {
	prefer := s.Prefer
	*s = Session{Prefer: prefer}
}

// ClearDrafts drops drafts and step but keeps the current selection.
func (s *Session) ClearDrafts() {
	s.Step = StepNone
	s.Product = catalog.Item{}
	s.Banner = catalog.Banner{}
	s.SizeDraft = catalog.Size{}
}

// Remember records the mode preference for a (section, category) pair.
func (s *Session) Remember(sectionID, categoryID string, mode catalog.Mode) {
	if sectionID == "" || categoryID == "" || !mode.Valid() {
		return
	}
	if s.Prefer == nil {
		s.Prefer = make(map[string]map[string]catalog.Mode)
	}
	if s.Prefer[sectionID] == nil {
		s.Prefer[sectionID] = make(map[string]catalog.Mode)
	}
	s.Prefer[sectionID][categoryID] = mode
}

// Preferred returns the remembered mode for a (section, category) pair.
func (s *Session) Preferred(sectionID, categoryID string) (catalog.Mode, bool) {
	m, ok := s.Prefer[sectionID][categoryID]
	return m, ok
}

// InProgress reports whether a form is mid-flight for this session.
func (s *Session) InProgress() bool {
	return s.Flow != FlowNone || s.Step != StepNone
}

type entry struct {
	mu sync.Mutex
	s  Session
}

// Repo keys sessions by chat id. Each chat has its own lock so events for
// one chat apply in strict arrival order while chats stay independent.
type Repo struct {
	mu      sync.Mutex
	entries map[int64]*entry
}

// NewRepo creates an empty session repository.
func NewRepo() *Repo {
	return &Repo{entries: make(map[int64]*entry)}
}

func (r *Repo) entryFor(chatID int64) *entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[chatID]
	if !ok {
		e = &entry{}
		r.entries[chatID] = e
	}
	return e
}

// Do runs fn with exclusive access to the chat's session.
func (r *Repo) Do(chatID int64, fn func(s *Session) error) error {
	e := r.entryFor(chatID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(&e.s)
}

// InProgress reports whether the chat has an active flow. Used by the text
// router to decide whether free text belongs to a form.
func (r *Repo) InProgress(chatID int64) bool {
	e := r.entryFor(chatID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.s.InProgress()
}

// Reset fully clears the chat's session.
func (r *Repo) Reset(chatID int64) {
	e := r.entryFor(chatID)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.s.Reset()
}
