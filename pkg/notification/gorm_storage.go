package notification

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// GormStorage is a PostgreSQL-backed implementation of the Storage interface
// using GORM. Data and Actions are stored as JSONB through the json
// serializer declared on the model.
type GormStorage struct {
	db *gorm.DB
}

// NewGormStorage creates a GORM-backed notification storage.
func NewGormStorage(db *gorm.DB) *GormStorage {
	return &GormStorage{db: db}
}

// Migrate creates or updates the notifications table.
func (s *GormStorage) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&Notification{})
}

func (s *GormStorage) Create(ctx context.Context, n Notification) error {
	if n.ID == "" {
		return ErrMissingID
	}
	if n.RecipientID == "" {
		return ErrMissingRecipient
	}
	return s.db.WithContext(ctx).Create(&n).Error
}

// visible scopes a query to one user's non-expired rows.
func (s *GormStorage) visible(ctx context.Context, userID string) *gorm.DB {
	return s.db.WithContext(ctx).
		Model(&Notification{}).
		Where("recipient_id = ?", userID).
		Where("expires_at IS NULL OR expires_at >= ?", time.Now())
}

func (s *GormStorage) Get(ctx context.Context, userID, id string) (*Notification, error) {
	var n Notification
	err := s.visible(ctx, userID).Where("id = ?", id).First(&n).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (s *GormStorage) List(ctx context.Context, userID string, f ListFilter) ([]Notification, int, error) {
	q := s.visible(ctx, userID)
	if f.Read != nil {
		q = q.Where("read = ?", *f.Read)
	}
	if len(f.Types) > 0 {
		q = q.Where("type IN ?", f.Types)
	}
	if len(f.Priorities) > 0 {
		q = q.Where("priority IN ?", f.Priorities)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at <= ?", *f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset((page - 1) * f.Limit)
	}

	var rows []Notification
	// Secondary sort on id keeps pagination stable for equal timestamps.
	if err := q.Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, int(total), nil
}

func (s *GormStorage) CountUnread(ctx context.Context, userID string) (int, error) {
	var count int64
	err := s.visible(ctx, userID).Where("read = ?", false).Count(&count).Error
	return int(count), err
}

func (s *GormStorage) Stats(ctx context.Context, userID string) (*Stats, error) {
	stats := &Stats{
		ByType:     make(map[Type]int),
		ByPriority: make(map[Priority]int),
	}

	var byType []struct {
		Type  Type
		Count int
	}
	if err := s.visible(ctx, userID).
		Select("type, count(*) as count").
		Group("type").
		Scan(&byType).Error; err != nil {
		return nil, err
	}
	for _, row := range byType {
		stats.ByType[row.Type] = row.Count
		stats.Total += row.Count
	}

	var byPriority []struct {
		Priority Priority
		Count    int
	}
	if err := s.visible(ctx, userID).
		Select("priority, count(*) as count").
		Group("priority").
		Scan(&byPriority).Error; err != nil {
		return nil, err
	}
	for _, row := range byPriority {
		stats.ByPriority[row.Priority] = row.Count
	}

	unread, err := s.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats.Unread = unread

	return stats, nil
}

func (s *GormStorage) MarkRead(ctx context.Context, userID string, at time.Time, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&Notification{}).
		Where("recipient_id = ? AND id IN ? AND read = ?", userID, ids, false).
		Updates(map[string]any{"read": true, "read_at": at, "updated_at": at}).Error
}

func (s *GormStorage) MarkAllRead(ctx context.Context, userID string, at time.Time) ([]string, error) {
	var ids []string
	if err := s.visible(ctx, userID).
		Where("read = ?", false).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	if err := s.MarkRead(ctx, userID, at, ids...); err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *GormStorage) Delete(ctx context.Context, userID string, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).
		Where("recipient_id = ? AND id IN ?", userID, ids).
		Delete(&Notification{}).Error
}

func (s *GormStorage) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at < ?", cutoff).
		Delete(&Notification{})
	return res.RowsAffected, res.Error
}

func (s *GormStorage) ListDigestCandidates(ctx context.Context, userID string, olderThan time.Time) ([]Notification, error) {
	var rows []Notification
	err := s.visible(ctx, userID).
		Where("read = ?", false).
		Where("created_at < ?", olderThan).
		Where("data IS NULL OR NOT coalesce((data ->> ?)::boolean, false)", DataKeyDigestSent).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *GormStorage) MarkDigestSent(ctx context.Context, userID string, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&Notification{}).
		Where("recipient_id = ? AND id IN ?", userID, ids).
		Updates(map[string]any{
			"data":       gorm.Expr("jsonb_set(coalesce(data, '{}'::jsonb), ?, 'true')", "{"+DataKeyDigestSent+"}"),
			"updated_at": time.Now(),
		}).Error
}
