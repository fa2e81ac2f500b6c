package store

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/m3rciful/catalogbot/catalog"
)

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("store: not found")

const (
	collSections   = "products"
	collCategories = "categories"
	collItems      = "items"
	collSizes      = "sizes"
	collBanners    = "banners"
)

// Catalog is the Firestore-backed repository for the product tree.
type Catalog struct {
	client *firestore.Client
}

// NewCatalog wraps an existing Firestore client.
func NewCatalog(client *firestore.Client) *Catalog {
	return &Catalog{client: client}
}

// Close releases the underlying client.
func (s *Catalog) Close() error {
	return s.client.Close()
}

func (s *Catalog) sections() *firestore.CollectionRef {
	return s.client.Collection(collSections)
}

func (s *Catalog) categories(sectionID string) *firestore.CollectionRef {
	return s.sections().Doc(sectionID).Collection(collCategories)
}

func (s *Catalog) sizes(sectionID, categoryID string) *firestore.CollectionRef {
	return s.categories(sectionID).Doc(categoryID).Collection(collSizes)
}

func (s *Catalog) items(p catalog.ItemPath) *firestore.CollectionRef {
	cat := s.categories(p.SectionID).Doc(p.CategoryID)
	if p.Sized() {
		return cat.Collection(collSizes).Doc(p.SizeID).Collection(collItems)
	}
	return cat.Collection(collItems)
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// Sections lists the top-level sections in seed order.
func (s *Catalog) Sections(ctx context.Context) ([]catalog.Section, error) {
	iter := s.sections().OrderBy("order", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var out []catalog.Section
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("store: list sections: %w", err)
		}
		var sec catalog.Section
		if err := doc.DataTo(&sec); err != nil {
			return nil, fmt.Errorf("store: decode section %s: %w", doc.Ref.ID, err)
		}
		sec.ID = doc.Ref.ID
		out = append(out, sec)
	}
	return out, nil
}

// Categories lists the categories of a section in seed order.
func (s *Catalog) Categories(ctx context.Context, sectionID string) ([]catalog.Category, error) {
	iter := s.categories(sectionID).OrderBy("order", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var out []catalog.Category
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("store: list categories: %w", err)
		}
		var c catalog.Category
		if err := doc.DataTo(&c); err != nil {
			return nil, fmt.Errorf("store: decode category %s: %w", doc.Ref.ID, err)
		}
		c.ID = doc.Ref.ID
		out = append(out, c)
	}
	return out, nil
}

// Section fetches a single section document.
func (s *Catalog) Section(ctx context.Context, sectionID string) (catalog.Section, error) {
	doc, err := s.sections().Doc(sectionID).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return catalog.Section{}, ErrNotFound
		}
		return catalog.Section{}, fmt.Errorf("store: get section: %w", err)
	}
	var sec catalog.Section
	if err := doc.DataTo(&sec); err != nil {
		return catalog.Section{}, fmt.Errorf("store: decode section %s: %w", sectionID, err)
	}
	sec.ID = doc.Ref.ID
	return sec, nil
}

// Category fetches a single category document.
func (s *Catalog) Category(ctx context.Context, sectionID, categoryID string) (catalog.Category, error) {
	doc, err := s.categories(sectionID).Doc(categoryID).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return catalog.Category{}, ErrNotFound
		}
		return catalog.Category{}, fmt.Errorf("store: get category: %w", err)
	}
	var c catalog.Category
	if err := doc.DataTo(&c); err != nil {
		return catalog.Category{}, fmt.Errorf("store: decode category %s: %w", categoryID, err)
	}
	c.ID = doc.Ref.ID
	return c, nil
}

// SetCategoryImage writes the category image, leaving the rest of the
// document untouched.
func (s *Catalog) SetCategoryImage(ctx context.Context, sectionID, categoryID, imageURL string) error {
	_, err := s.categories(sectionID).Doc(categoryID).Set(ctx, map[string]any{
		"image": imageURL,
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("store: set category image: %w", err)
	}
	return nil
}

// Sizes lists the sizes of a category, oldest first.
func (s *Catalog) Sizes(ctx context.Context, sectionID, categoryID string) ([]catalog.Size, error) {
	iter := s.sizes(sectionID, categoryID).OrderBy("createdAt", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var out []catalog.Size
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("store: list sizes: %w", err)
		}
		var sz catalog.Size
		if err := doc.DataTo(&sz); err != nil {
			return nil, fmt.Errorf("store: decode size %s: %w", doc.Ref.ID, err)
		}
		sz.ID = doc.Ref.ID
		out = append(out, sz)
	}
	return out, nil
}

// AddSize stores a new size and returns its generated document id.
func (s *Catalog) AddSize(ctx context.Context, sectionID, categoryID string, sz catalog.Size) (string, error) {
	ref, _, err := s.sizes(sectionID, categoryID).Add(ctx, sz)
	if err != nil {
		return "", fmt.Errorf("store: add size: %w", err)
	}
	return ref.ID, nil
}

// DeleteSizeCascade removes a size together with every item stored under it.
// Items go first so a partial failure never leaves orphans invisible behind a
// deleted size document.
func (s *Catalog) DeleteSizeCascade(ctx context.Context, sectionID, categoryID, sizeID string) error {
	p := catalog.ItemPath{SectionID: sectionID, CategoryID: categoryID, SizeID: sizeID}
	iter := s.items(p).Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return fmt.Errorf("store: list size items: %w", err)
		}
		if _, err := doc.Ref.Delete(ctx); err != nil {
			return fmt.Errorf("store: delete size item %s: %w", doc.Ref.ID, err)
		}
	}
	if _, err := s.sizes(sectionID, categoryID).Doc(sizeID).Delete(ctx); err != nil {
		return fmt.Errorf("store: delete size: %w", err)
	}
	return nil
}

// HasSizes reports whether the category has at least one size document.
func (s *Catalog) HasSizes(ctx context.Context, sectionID, categoryID string) (bool, error) {
	iter := s.sizes(sectionID, categoryID).Limit(1).Documents(ctx)
	defer iter.Stop()
	_, err := iter.Next()
	if errors.Is(err, iterator.Done) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("store: probe sizes: %w", err)
	}
	return true, nil
}

// HasItems reports whether at least one item exists directly under the path.
func (s *Catalog) HasItems(ctx context.Context, p catalog.ItemPath) (bool, error) {
	iter := s.items(p).Limit(1).Documents(ctx)
	defer iter.Stop()
	_, err := iter.Next()
	if errors.Is(err, iterator.Done) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("store: probe items: %w", err)
	}
	return true, nil
}

// Items lists the items under the path, oldest first.
func (s *Catalog) Items(ctx context.Context, p catalog.ItemPath) ([]catalog.Item, error) {
	iter := s.items(p).OrderBy("createdAt", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var out []catalog.Item
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("store: list items: %w", err)
		}
		var it catalog.Item
		if err := doc.DataTo(&it); err != nil {
			return nil, fmt.Errorf("store: decode item %s: %w", doc.Ref.ID, err)
		}
		it.ID = doc.Ref.ID
		out = append(out, it)
	}
	return out, nil
}

// Item fetches a single item by document id.
func (s *Catalog) Item(ctx context.Context, p catalog.ItemPath, docID string) (catalog.Item, error) {
	doc, err := s.items(p).Doc(docID).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return catalog.Item{}, ErrNotFound
		}
		return catalog.Item{}, fmt.Errorf("store: get item: %w", err)
	}
	var it catalog.Item
	if err := doc.DataTo(&it); err != nil {
		return catalog.Item{}, fmt.Errorf("store: decode item %s: %w", docID, err)
	}
	it.ID = doc.Ref.ID
	return it, nil
}

// AddItem stores a new item and returns its generated document id.
func (s *Catalog) AddItem(ctx context.Context, p catalog.ItemPath, it catalog.Item) (string, error) {
	ref, _, err := s.items(p).Add(ctx, it)
	if err != nil {
		return "", fmt.Errorf("store: add item: %w", err)
	}
	return ref.ID, nil
}

// SetItemAvailable flips only the availability flag of an item.
func (s *Catalog) SetItemAvailable(ctx context.Context, p catalog.ItemPath, docID string, available bool) error {
	_, err := s.items(p).Doc(docID).Set(ctx, map[string]any{
		"available": available,
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("store: set item availability: %w", err)
	}
	return nil
}

// DeleteItem removes an item document.
func (s *Catalog) DeleteItem(ctx context.Context, p catalog.ItemPath, docID string) error {
	if _, err := s.items(p).Doc(docID).Delete(ctx); err != nil {
		return fmt.Errorf("store: delete item: %w", err)
	}
	return nil
}

// AddBanner stores a new banner and returns its generated document id.
func (s *Catalog) AddBanner(ctx context.Context, b catalog.Banner) (string, error) {
	ref, _, err := s.client.Collection(collBanners).Add(ctx, b)
	if err != nil {
		return "", fmt.Errorf("store: add banner: %w", err)
	}
	return ref.ID, nil
}
