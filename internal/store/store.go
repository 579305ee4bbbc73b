// Package store is the document store the feed service reads and writes:
// collections of JSON documents addressed by id.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrMissingID = errors.New("document has no id")
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Backend persists raw document bodies. Implementations return ErrNotFound
// (possibly wrapped) from Get when the id is absent.
type Backend interface {
	Get(ctx context.Context, collection, id string) ([]byte, error)
	Put(ctx context.Context, collection, id string, body []byte) error
	Delete(ctx context.Context, collection, id string) error
	Len(ctx context.Context, collection string) (int, error)
}

// Document is implemented by every stored model.
type Document interface {
	GetID() string
	SetID(id string)
}

// Collection is a typed view over one collection of a Backend.
type Collection[T any, P interface {
	*T
	Document
}] struct {
	backend Backend
	name    string
}

func NewCollection[T any, P interface {
	*T
	Document
}](backend Backend, name string) *Collection[T, P] {
	return &Collection[T, P]{backend: backend, name: name}
}

func (c *Collection[T, P]) Name() string { return c.name }

// Read 读取文档，不存在时返回 ErrNotFound
func (c *Collection[T, P]) Read(ctx context.Context, id string) (P, error) {
	body, err := c.backend.Get(ctx, c.name, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, c.name, id)
		}
		return nil, fmt.Errorf("read %s/%s: %w", c.name, id, err)
	}
	doc := P(new(T))
	if err := json.Unmarshal(body, doc); err != nil {
		return nil, fmt.Errorf("decode %s/%s: %w", c.name, id, err)
	}
	return doc, nil
}

// Write 整体覆盖文档，文档必须已带 ID
func (c *Collection[T, P]) Write(ctx context.Context, doc P) error {
	id := doc.GetID()
	if id == "" {
		return fmt.Errorf("write %s: %w", c.name, ErrMissingID)
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", c.name, id, err)
	}
	if err := c.backend.Put(ctx, c.name, id, body); err != nil {
		return fmt.Errorf("write %s/%s: %w", c.name, id, err)
	}
	return nil
}

// Add 分配新 ID 并插入，返回带 ID 的文档
func (c *Collection[T, P]) Add(ctx context.Context, doc P) (P, error) {
	doc.SetID(uuid.New().String())
	if err := c.Write(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (c *Collection[T, P]) Len(ctx context.Context) (int, error) {
	return c.backend.Len(ctx, c.name)
}
