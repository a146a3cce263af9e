// Package locale picks the translated variant of a localized record.
//
// Localized records are stored one row per locale. The default-locale row
// carries references to its siblings; Resolve swaps it for the sibling that
// matches the requested locale and silently keeps the default otherwise.
package locale

import (
	"context"
	"strings"

	"github.com/princeprakhar/eyewear-backend/pkg/logger"
)

const DefaultLocale = "en"

// Ref points at a sibling translation of a record.
type Ref struct {
	ID     uint   `json:"id"`
	Locale string `json:"locale"`
}

// Entity is a record stored in one locale that knows its siblings.
type Entity interface {
	LocaleCode() string
	LocalizationRefs() []Ref
}

// Fetcher loads a full record, relations included, by id.
type Fetcher[T Entity] interface {
	FetchByID(ctx context.Context, id uint) (T, error)
}

// Normalize lower-cases and trims a locale tag.
func Normalize(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// Resolve returns the variant of entity in the requested locale. An empty
// requested locale, or one equal to defaultLocale, returns entity as is.
// A missing translation or a failed fetch falls back to entity.
func Resolve[T Entity](ctx context.Context, entity T, requested, defaultLocale string, f Fetcher[T]) (T, error) {
	requested = Normalize(requested)
	defaultLocale = Normalize(defaultLocale)
	if defaultLocale == "" {
		defaultLocale = DefaultLocale
	}

	if requested == "" || requested == defaultLocale || requested == Normalize(entity.LocaleCode()) {
		return entity, nil
	}

	ref, ok := Find(entity.LocalizationRefs(), requested)
	if !ok {
		return entity, nil
	}

	variant, err := f.FetchByID(ctx, ref.ID)
	if err != nil {
		logger.WithFields(logger.Fields{
			"localization_id": ref.ID,
			"locale":          requested,
		}).Warn("falling back to default locale: ", err)
		return entity, nil
	}

	return variant, nil
}

// Find returns the first reference in refs whose locale matches tag.
func Find(refs []Ref, tag string) (Ref, bool) {
	tag = Normalize(tag)
	for _, ref := range refs {
		if Normalize(ref.Locale) == tag {
			return ref, true
		}
	}
	return Ref{}, false
}
