package catalog

import (
	"fmt"
	"regexp"
	"strings"
)

var imageURLRe = regexp.MustCompile(`^https?://`)

// FieldError describes a single invalid draft field.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationError aggregates per-field failures of one draft.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Error())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Code implements the error-code hook used by handler summary logging.
func (e *ValidationError) Code() string { return "VALIDATION" }

type fieldCheck struct {
	errs []FieldError
}

func (v *fieldCheck) require(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.errs = append(v.errs, FieldError{Field: field, Message: "must not be empty"})
	}
}

func (v *fieldCheck) requireImageURL(field, value string) {
	if !imageURLRe.MatchString(value) {
		v.errs = append(v.errs, FieldError{Field: field, Message: "must be an http(s) URL"})
	}
}

func (v *fieldCheck) result() error {
	if len(v.errs) == 0 {
		return nil
	}
	return &ValidationError{Fields: v.errs}
}

// ValidateItem checks a fully composed item draft right before persistence.
// SizeID must be present exactly when the target path is size-scoped.
func ValidateItem(it Item, mode Mode) error {
	var v fieldCheck
	v.require("title", it.Title)
	v.requireImageURL("image", it.Image)
	v.require("price", it.Price)
	v.require("description", it.Description)
	v.require("sectionId", it.SectionID)
	v.require("categoryId", it.CategoryID)
	switch mode {
	case ModeSized:
		v.require("sizeId", it.SizeID)
	case ModeFlat:
		if it.SizeID != "" {
			v.errs = append(v.errs, FieldError{Field: "sizeId", Message: "must be empty in flat mode"})
		}
	default:
		v.errs = append(v.errs, FieldError{Field: "mode", Message: fmt.Sprintf("unknown mode %q", string(mode))})
	}
	return v.result()
}

// ValidateBanner checks a banner draft; caption is optional.
func ValidateBanner(b Banner) error {
	var v fieldCheck
	v.requireImageURL("image", b.Image)
	v.require("sectionId", b.SectionID)
	return v.result()
}

// ValidateSize checks a size draft.
func ValidateSize(s Size) error {
	var v fieldCheck
	v.require("name", s.Name)
	v.require("size", s.Size)
	v.requireImageURL("image", s.Image)
	return v.result()
}

// IsImageURL reports whether the text looks like an acceptable image URL.
func IsImageURL(s string) bool {
	return imageURLRe.MatchString(strings.TrimSpace(s))
}
