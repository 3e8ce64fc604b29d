package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"circlesgraph/app/series"
)

// ErrSeriesNotFound is returned when an archive holds no series of that name.
var ErrSeriesNotFound = errors.New("series not found in archive")

// Archive stores validated series in a SQLite database.
type Archive struct {
	db *gorm.DB
}

// Open opens or creates the archive at filename.
func Open(filename string) (*Archive, error) {
	db, err := gorm.Open(sqlite.Open(filename), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %s: %w", filename, err)
	}

	for _, table := range []any{
		&Series{},
		&Sample{},
	} {
		if err := db.AutoMigrate(table); err != nil {
			return nil, fmt.Errorf("failed to migrate archive: %w", err)
		}
	}
	return &Archive{db: db}, nil
}

// Close releases the database handle.
func (a *Archive) Close() error {
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Save replaces the stored samples of s.Name with the records of s.
func (a *Archive) Save(ctx context.Context, s *series.Series) error {
	id := HashedID(s.Name)
	return a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&Series{}).Where("id = ?", id).Count(&existing).Error; err != nil {
			return fmt.Errorf("lookup series: %w", err)
		}
		if existing == 0 {
			if err := tx.Create(&Series{ID: id, Name: s.Name}).Error; err != nil {
				return fmt.Errorf("create series: %w", err)
			}
		}
		if err := tx.Where("series_id = ?", id).Delete(&Sample{}).Error; err != nil {
			return fmt.Errorf("clear samples: %w", err)
		}
		if s.Len() == 0 {
			return nil
		}

		samples := make([]Sample, 0, s.Len())
		for _, rec := range s.Records {
			sampleID := uuid.New()
			samples = append(samples, Sample{
				ID:        sampleID[:],
				Timestamp: rec.Timestamp * 1000,
				Value:     rec.Value,
				SeriesID:  id,
			})
		}
		if err := tx.CreateInBatches(samples, 500).Error; err != nil {
			return fmt.Errorf("insert samples: %w", err)
		}
		return nil
	})
}

// SeriesNames lists the archived series.
func (a *Archive) SeriesNames(ctx context.Context) ([]string, error) {
	var result []string
	tx := a.db.WithContext(ctx).Model(&Series{}).Order("name asc").Pluck("name", &result)
	if tx.Error != nil {
		return nil, fmt.Errorf("get series names: %w", tx.Error)
	}
	return result, nil
}

// Load returns the archived series in timestamp order, truncated to seconds.
func (a *Archive) Load(ctx context.Context, name string) (*series.Series, error) {
	db := a.db.WithContext(ctx)
	var count int64
	if err := db.Model(&Series{}).Where("id = ?", HashedID(name)).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("lookup series: %w", err)
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: %s", ErrSeriesNotFound, name)
	}

	var rows []Sample
	if err := db.Where("series_id = ?", HashedID(name)).Order("timestamp asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find samples: %w", err)
	}
	out := &series.Series{Name: name, Records: make([]series.Record, len(rows))}
	for i, row := range rows {
		out.Records[i] = series.Record{Timestamp: row.Timestamp / 1000, Value: row.Value}
	}
	return out, nil
}
