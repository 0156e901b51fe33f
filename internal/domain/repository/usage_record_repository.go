// Package repository defines data access interfaces.
package repository

import (
	"context"

	"edu-tutor-api/internal/domain/entity"
)

// UsageRecordRepository owns the lifecycle of stored usage records.
// Records are only ever created and read, never updated or deleted.
type UsageRecordRepository interface {
	// Create inserts record, assigning CreatedAt when unset and filling
	// in the store-generated ID.
	Create(ctx context.Context, record *entity.UsageRecord) error
	// FindByGrade returns detached snapshots of all records for grade,
	// most recent first. An unknown grade yields an empty result.
	FindByGrade(ctx context.Context, grade string) ([]*entity.UsageRecord, error)
}
