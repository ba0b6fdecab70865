package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"crashwatch/src/database"
	"crashwatch/src/model"

	"github.com/goccy/go-json"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CrashSlotRepository keeps the most recent crash report in a single row.
type CrashSlotRepository struct {
	db  *gorm.DB
	key string
}

// NewCrashSlotRepository creates a repository on database.MainDB using the
// configured slot key.
func NewCrashSlotRepository() *CrashSlotRepository {
	return &CrashSlotRepository{
		db:  database.MainDB,
		key: database.GetConfig().CrashStoreKey,
	}
}

func NewCrashSlotRepositoryWithDB(db *gorm.DB, key string) *CrashSlotRepository {
	return &CrashSlotRepository{
		db:  db,
		key: key,
	}
}

func (r *CrashSlotRepository) Key() string {
	return r.key
}

// Save replaces whatever the slot held with report.
func (r *CrashSlotRepository) Save(ctx context.Context, report *model.CrashReport) error {
	if report == nil {
		return errors.New("nil crash report")
	}

	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode crash report %s: %w", report.ID, err)
	}

	slot := model.CrashSlot{
		Key:       r.key,
		Payload:   string(payload),
		ReportID:  report.ID,
		UpdatedAt: time.Now().UTC(),
	}

	// upsert on slot_key
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slot_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "report_id", "updated_at"}),
		}).
		Create(&slot).Error; err != nil {
		return fmt.Errorf("failed to save crash slot %q: %w", r.key, err)
	}
	return nil
}

// Load returns the stored report, or nil when the slot is empty.
func (r *CrashSlotRepository) Load(ctx context.Context) (*model.CrashReport, error) {
	var slot model.CrashSlot
	err := r.db.WithContext(ctx).
		Where("slot_key = ?", r.key).
		Take(&slot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load crash slot %q: %w", r.key, err)
	}

	var report model.CrashReport
	if err := json.Unmarshal([]byte(slot.Payload), &report); err != nil {
		return nil, fmt.Errorf("failed to decode crash slot %q: %w", r.key, err)
	}
	return &report, nil
}

// Clear empties the slot. Clearing an empty slot is not an error.
func (r *CrashSlotRepository) Clear(ctx context.Context) error {
	if err := r.db.WithContext(ctx).
		Where("slot_key = ?", r.key).
		Delete(&model.CrashSlot{}).Error; err != nil {
		return fmt.Errorf("failed to clear crash slot %q: %w", r.key, err)
	}
	return nil
}
