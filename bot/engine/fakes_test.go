package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/m3rciful/catalogbot/catalog"
	"github.com/m3rciful/catalogbot/store"
)

// fakeStore is an in-memory Store for engine tests.
type fakeStore struct {
	sections   []catalog.Section
	categories map[string][]catalog.Category
	sizes      map[string][]catalog.Size
	items      map[string][]catalog.Item
	banners    []catalog.Banner
	seq        int

	failAdd bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		categories: make(map[string][]catalog.Category),
		sizes:      make(map[string][]catalog.Size),
		items:      make(map[string][]catalog.Item),
	}
}

func (f *fakeStore) addSection(id, title string) {
	f.sections = append(f.sections, catalog.Section{ID: id, Title: title})
}

func (f *fakeStore) addCategory(sectionID, id, title, image string) {
	f.categories[sectionID] = append(f.categories[sectionID],
		catalog.Category{ID: id, Title: title, Image: image})
}

func (f *fakeStore) nextID() string {
	f.seq++
	return fmt.Sprintf("doc%d", f.seq)
}

func pathKey(p catalog.ItemPath) string {
	if p.Sized() {
		return strings.Join([]string{p.SectionID, p.CategoryID, p.SizeID}, "/")
	}
	return p.SectionID + "/" + p.CategoryID
}

func (f *fakeStore) Sections(context.Context) ([]catalog.Section, error) {
	return f.sections, nil
}

func (f *fakeStore) Section(_ context.Context, id string) (catalog.Section, error) {
	for _, s := range f.sections {
		if s.ID == id {
			return s, nil
		}
	}
	return catalog.Section{}, store.ErrNotFound
}

func (f *fakeStore) Categories(_ context.Context, sectionID string) ([]catalog.Category, error) {
	return f.categories[sectionID], nil
}

func (f *fakeStore) Category(_ context.Context, sectionID, categoryID string) (catalog.Category, error) {
	for _, c := range f.categories[sectionID] {
		if c.ID == categoryID {
			return c, nil
		}
	}
	return catalog.Category{}, store.ErrNotFound
}

func (f *fakeStore) SetCategoryImage(_ context.Context, sectionID, categoryID, imageURL string) error {
	cats := f.categories[sectionID]
	for i := range cats {
		if cats[i].ID == categoryID {
			cats[i].Image = imageURL
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeStore) Sizes(_ context.Context, sectionID, categoryID string) ([]catalog.Size, error) {
	return f.sizes[sectionID+"/"+categoryID], nil
}

func (f *fakeStore) AddSize(_ context.Context, sectionID, categoryID string, sz catalog.Size) (string, error) {
	if f.failAdd {
		return "", fmt.Errorf("store down")
	}
	sz.ID = f.nextID()
	key := sectionID + "/" + categoryID
	f.sizes[key] = append(f.sizes[key], sz)
	return sz.ID, nil
}

func (f *fakeStore) DeleteSizeCascade(_ context.Context, sectionID, categoryID, sizeID string) error {
	delete(f.items, strings.Join([]string{sectionID, categoryID, sizeID}, "/"))
	key := sectionID + "/" + categoryID
	kept := f.sizes[key][:0]
	for _, sz := range f.sizes[key] {
		if sz.ID != sizeID {
			kept = append(kept, sz)
		}
	}
	f.sizes[key] = kept
	return nil
}

func (f *fakeStore) HasSizes(_ context.Context, sectionID, categoryID string) (bool, error) {
	return len(f.sizes[sectionID+"/"+categoryID]) > 0, nil
}

func (f *fakeStore) Items(_ context.Context, p catalog.ItemPath) ([]catalog.Item, error) {
	return f.items[pathKey(p)], nil
}

func (f *fakeStore) Item(_ context.Context, p catalog.ItemPath, docID string) (catalog.Item, error) {
	for _, it := range f.items[pathKey(p)] {
		if it.ID == docID {
			return it, nil
		}
	}
	return catalog.Item{}, store.ErrNotFound
}

func (f *fakeStore) AddItem(_ context.Context, p catalog.ItemPath, it catalog.Item) (string, error) {
	if f.failAdd {
		return "", fmt.Errorf("store down")
	}
	it.ID = f.nextID()
	f.items[pathKey(p)] = append(f.items[pathKey(p)], it)
	return it.ID, nil
}

func (f *fakeStore) SetItemAvailable(_ context.Context, p catalog.ItemPath, docID string, available bool) error {
	items := f.items[pathKey(p)]
	for i := range items {
		if items[i].ID == docID {
			items[i].Available = available
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeStore) DeleteItem(_ context.Context, p catalog.ItemPath, docID string) error {
	key := pathKey(p)
	kept := f.items[key][:0]
	for _, it := range f.items[key] {
		if it.ID != docID {
			kept = append(kept, it)
		}
	}
	f.items[key] = kept
	return nil
}

func (f *fakeStore) HasItems(_ context.Context, p catalog.ItemPath) (bool, error) {
	return len(f.items[pathKey(p)]) > 0, nil
}

func (f *fakeStore) AddBanner(_ context.Context, b catalog.Banner) (string, error) {
	if f.failAdd {
		return "", fmt.Errorf("store down")
	}
	b.ID = f.nextID()
	f.banners = append(f.banners, b)
	return b.ID, nil
}

// fakeUploader returns a fixed hosted URL.
type fakeUploader struct {
	hosted string
	err    error
	calls  []string
}

func (f *fakeUploader) Upload(_ context.Context, sourceURL string) (string, error) {
	f.calls = append(f.calls, sourceURL)
	if f.err != nil {
		return "", f.err
	}
	return f.hosted, nil
}
