package imeji

import (
	"fmt"
	"strings"

	"github.com/iancoleman/strcase"
)

// Kind identifies a resource variant.
type Kind int

const (
	// KindResource is an untyped resource, used for relationship members.
	KindResource Kind = iota
	KindCollection
	KindItem
	KindAlbum
	KindProfile
)

// variants maps the capitalized singular kind name to its variant.
var variants = map[string]Kind{
	"Collection": KindCollection,
	"Item":       KindItem,
	"Album":      KindAlbum,
	"Profile":    KindProfile,
}

func (k Kind) String() string {
	switch k {
	case KindCollection:
		return "collection"
	case KindItem:
		return "item"
	case KindAlbum:
		return "album"
	case KindProfile:
		return "profile"
	default:
		return "resource"
	}
}

// Plural returns the collection path segment of the kind, e.g. "items".
func (k Kind) Plural() string {
	return k.String() + "s"
}

// ParseKind resolves a singular kind name such as "collection" or "Album".
func ParseKind(name string) (Kind, error) {
	kind, ok := variants[strcase.ToCamel(strings.TrimSpace(name))]
	if !ok {
		return KindResource, fmt.Errorf("%w: unknown resource kind %q", ErrInvalidArgument, name)
	}
	return kind, nil
}

// newResource is the constructor table for the resource variants.
func newResource(kind Kind, doc *Document, c *Client, parent Resource) (Resource, error) {
	switch kind {
	case KindCollection:
		return newCollection(doc, c, parent)
	case KindItem:
		return newItem(doc, c, parent)
	case KindAlbum:
		return newAlbum(doc, c, parent)
	case KindProfile:
		return newProfile(doc, c, parent)
	default:
		return newGeneric(KindItem.String(), doc, c, parent)
	}
}
