// Package catalog defines the product taxonomy the bot manages:
// Section -> Category -> (optional Size) -> Item, plus promotional banners.
package catalog

import "time"

// Mode tells whether a category keeps its items directly or split by sizes.
type Mode string

const (
	// ModeFlat stores items directly under the category.
	ModeFlat Mode = "prod"
	// ModeSized stores items under a size inside the category.
	ModeSized Mode = "size"
)

// Valid reports whether the mode is one of the known values.
func (m Mode) Valid() bool {
	return m == ModeFlat || m == ModeSized
}

// Section is a top-level taxonomy node, seeded from the fixed catalog.
type Section struct {
	ID    string `firestore:"-"`
	Title string `firestore:"title"`
	Order int    `firestore:"order"`
}

// Category belongs to exactly one section. Image is lazily collected: the
// first time the admin opens a category without one, the bot asks for it
// before anything else. Once set it is also the default image for new sizes.
type Category struct {
	ID    string `firestore:"-"`
	Title string `firestore:"title"`
	Order int    `firestore:"order"`
	Image string `firestore:"image,omitempty"`
}

// Size is a named dimension/variant grouping within a category.
type Size struct {
	ID        string    `firestore:"-"`
	Name      string    `firestore:"name"`
	Size      string    `firestore:"size"`
	Image     string    `firestore:"image"`
	CreatedAt time.Time `firestore:"createdAt,serverTimestamp"`
}

// Item is a sellable catalog entry. It lives either directly under a
// category or under a category+size pair, never both; SizeID is set exactly
// when the item is stored under a size.
type Item struct {
	ID          string    `firestore:"-"`
	Title       string    `firestore:"title"`
	Image       string    `firestore:"image"`
	Price       string    `firestore:"price"`
	Description string    `firestore:"description"`
	Available   bool      `firestore:"available"`
	SectionID   string    `firestore:"sectionId"`
	CategoryID  string    `firestore:"categoryId"`
	SizeID      string    `firestore:"sizeId,omitempty"`
	CreatedAt   time.Time `firestore:"createdAt,serverTimestamp"`
}

// Banner is a promotional entry tied to a section.
type Banner struct {
	ID        string    `firestore:"-"`
	Image     string    `firestore:"image"`
	SectionID string    `firestore:"sectionId"`
	Caption   string    `firestore:"caption,omitempty"`
	CreatedAt time.Time `firestore:"createdAt,serverTimestamp"`
}

// ItemPath locates an item collection. SizeID is empty in flat mode.
type ItemPath struct {
	SectionID  string
	CategoryID string
	SizeID     string
}

// PathFor derives the storage path for items from the selection and mode.
// The path is a pure function of (mode, ids); callers never infer it from
// surrounding context.
func PathFor(sectionID, categoryID string, mode Mode, sizeID string) ItemPath {
	p := ItemPath{SectionID: sectionID, CategoryID: categoryID}
	if mode == ModeSized {
		p.SizeID = sizeID
	}
	return p
}

// Sized reports whether the path addresses a size-scoped item collection.
func (p ItemPath) Sized() bool {
	return p.SizeID != ""
}
