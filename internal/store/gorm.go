package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/feedmock/internal/model"
)

// GormBackend 将文档保存在 documents 表中（postgres / sqlite）
type GormBackend struct {
	db *gorm.DB
}

// NewGormBackend migrates the documents table and returns the backend.
func NewGormBackend(db *gorm.DB) (*GormBackend, error) {
	if err := db.AutoMigrate(&model.Document{}); err != nil {
		return nil, fmt.Errorf("failed to migrate documents table: %w", err)
	}
	return &GormBackend{db: db}, nil
}

func (g *GormBackend) Get(ctx context.Context, collection, id string) ([]byte, error) {
	var doc model.Document
	err := g.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, id).
		First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(doc.Body), nil
}

// Put 按 (collection, id) upsert
func (g *GormBackend) Put(ctx context.Context, collection, id string, body []byte) error {
	doc := &model.Document{Collection: collection, ID: id, Body: body}
	return g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "collection"}, {Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"body", "updated_at"}),
	}).Create(doc).Error
}

func (g *GormBackend) Delete(ctx context.Context, collection, id string) error {
	return g.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, id).
		Delete(&model.Document{}).Error
}

func (g *GormBackend) Len(ctx context.Context, collection string) (int, error) {
	var cnt int64
	if err := g.db.WithContext(ctx).
		Model(&model.Document{}).
		Where("collection = ?", collection).
		Count(&cnt).Error; err != nil {
		return 0, err
	}
	return int(cnt), nil
}
