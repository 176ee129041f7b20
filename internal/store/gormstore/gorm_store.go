// Package gormstore persists the trade journal in SQLite through Gorm.
package gormstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"statarb/internal/engine"
	"statarb/internal/store/model"
)

// GormStore implements engine.Journal on top of Gorm + SQLite.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(path string) (*GormStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("gorm store: database path cannot be empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&cache=shared", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, err
	}
	return NewGormStoreFromDB(db)
}

func NewGormStoreFromDB(db *gorm.DB) (*GormStore, error) {
	if db == nil {
		return nil, fmt.Errorf("gorm store: db cannot be nil")
	}
	if err := db.AutoMigrate(&model.TradeModel{}); err != nil {
		return nil, err
	}
	if sqlDB, err := db.DB(); err == nil {
		// SQLite + WAL: keep a small pool so concurrent HTTP reads do not
		// contend with the journal writer.
		sqlDB.SetMaxOpenConns(2)
		sqlDB.SetMaxIdleConns(2)
	}
	return &GormStore{db: db}, nil
}

// RecordOpen inserts the journal row for a freshly opened position.
func (s *GormStore) RecordOpen(ctx context.Context, pos engine.Position) error {
	detail, err := json.Marshal(pos)
	if err != nil {
		return err
	}
	now := time.Now().Unix()
	row := model.TradeModel{
		PositionID:    pos.ID,
		Symbol:        pos.Symbol,
		Side:          string(pos.Side),
		Quantity:      pos.Quantity,
		EntryPrice:    pos.EntryPrice,
		TakeProfit:    pos.TakeProfit,
		StopLoss:      pos.StopLoss,
		Detail:        datatypes.JSON(detail),
		OpenedAtUnix:  pos.OpenedAt.Unix(),
		CreatedAtUnix: now,
		UpdatedAtUnix: now,
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "position_id"}},
		UpdateAll: true,
	}).Create(&row).Error
}

// RecordClose fills the exit columns on the position's journal row.
func (s *GormStore) RecordClose(ctx context.Context, pos engine.Position, exitPrice, pnl float64, reason string) error {
	now := time.Now().Unix()
	res := s.db.WithContext(ctx).Model(&model.TradeModel{}).
		Where("position_id = ?", pos.ID).
		Updates(map[string]interface{}{
			"exit_price":  exitPrice,
			"pnl":         pnl,
			"exit_reason": reason,
			"closed_at":   now,
			"updated_at":  now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("gorm store: no journal row for position %s", pos.ID)
	}
	return nil
}

// Recent lists the newest journal rows, open and closed alike.
func (s *GormStore) Recent(ctx context.Context, limit int) ([]model.TradeModel, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []model.TradeModel
	if err := s.db.WithContext(ctx).
		Order("COALESCE(closed_at, opened_at) DESC, id DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
