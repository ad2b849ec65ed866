package imeji

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"

	"github.com/spf13/afero"
)

// fileField is the pseudo field used to attach a local file to an item.
const fileField = "_file"

// Item is a single asset: a file or a URL plus its metadata.
type Item struct {
	resource

	// file is the local path uploaded with the next save.
	file string
}

var _ Resource = (*Item)(nil)

func newItem(doc *Document, c *Client, parent Resource) (*Item, error) {
	item := &Item{}
	item.init(KindItem, KindItem.String(), c, parent, item.coerceField)
	if err := item.hydrate(doc); err != nil {
		return nil, err
	}
	return item, nil
}

func (item *Item) coerceField(field string, value any) (any, bool, error) {
	switch field {
	case fileField:
		path, ok := value.(string)
		if !ok {
			return nil, false, fmt.Errorf("%w: file path must be a string, got %T",
				ErrInvalidArgument, value)
		}
		return nil, false, item.AttachFile(path)
	case "metadata":
		if _, ok := value.(string); ok {
			return nil, false, fmt.Errorf("%w: metadata must be an object, not a string",
				ErrInvalidArgument)
		}
	}
	return value, true, nil
}

// AttachFile sets the local file uploaded with the next save. The file must
// exist.
func (item *Item) AttachFile(path string) error {
	ok, err := afero.Exists(item.client.fs, path)
	if err != nil {
		return fmt.Errorf("failed to check file %s: %w", path, err)
	}
	if !ok {
		return fmt.Errorf("%w: file %s does not exist", ErrInvalidArgument, path)
	}
	item.file = path
	return nil
}

// File returns the attached local file, if any.
func (item *Item) File() string { return item.file }

func (item *Item) CollectionID() string { return item.str("collectionId") }
func (item *Item) Filename() string     { return item.str("filename") }

// Metadata returns the metadata object, or nil.
func (item *Item) Metadata() map[string]any {
	v, _ := item.doc.Get("metadata")
	m, _ := v.(map[string]any)
	return m
}

// Save sends the item as multipart form data: the document in the "json"
// part and the attached file, if any, in the "file" part.
func (item *Item) Save(ctx context.Context) (Resource, error) {
	body, contentType, err := item.multipartBody()
	if err != nil {
		return nil, err
	}
	doc, err := item.save(ctx, body, contentType)
	if err != nil {
		return nil, err
	}
	item.file = ""
	return newItem(doc, item.client, item.parent)
}

func (item *Item) multipartBody() (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	js, err := item.doc.Dumps()
	if err != nil {
		return nil, "", fmt.Errorf("failed to serialize item: %w", err)
	}
	if err := w.WriteField("json", js); err != nil {
		return nil, "", err
	}

	if item.file != "" {
		content, err := afero.ReadFile(item.client.fs, item.file)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read file %s: %w", item.file, err)
		}
		part, err := w.CreateFormFile("file", filepath.Base(item.file))
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(content); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
