package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"task-manager/internal/model"
)

// ErrAlreadyBlacklisted is returned when a token was revoked before.
var ErrAlreadyBlacklisted = errors.New("token is already blacklisted")

// TokenRepository tracks issued refresh tokens and their revocation.
type TokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// RecordOutstanding stores a freshly issued refresh token.
func (r *TokenRepository) RecordOutstanding(ctx context.Context, token *model.OutstandingToken) error {
	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		return fmt.Errorf("record outstanding token: %w", err)
	}
	return nil
}

// IsBlacklisted reports whether the token with jti was revoked.
func (r *TokenRepository) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.BlacklistedToken{}).
		Joins("JOIN outstanding_tokens ON outstanding_tokens.id = blacklisted_tokens.token_id").
		Where("outstanding_tokens.jti = ?", jti).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check blacklist: %w", err)
	}
	return count > 0, nil
}

// Blacklist revokes the token identified by outstanding.JTI. The outstanding
// record is created first when the token was never recorded.
func (r *TokenRepository) Blacklist(ctx context.Context, outstanding model.OutstandingToken) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stored model.OutstandingToken
		err := tx.Where("jti = ?", outstanding.JTI).First(&stored).Error
		switch {
		case err == nil:
		case errors.Is(err, gorm.ErrRecordNotFound):
			stored = outstanding
			if err := tx.Create(&stored).Error; err != nil {
				return fmt.Errorf("record outstanding token: %w", err)
			}
		default:
			return fmt.Errorf("find outstanding token: %w", err)
		}

		entry := model.BlacklistedToken{TokenID: stored.ID}
		if err := tx.Create(&entry).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyBlacklisted
			}
			return fmt.Errorf("blacklist token: %w", err)
		}
		return nil
	})
}

// PurgeExpired drops outstanding tokens (and their blacklist rows) that
// expired before now. Expired tokens fail verification anyway.
func (r *TokenRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	var purged int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		expired := tx.Model(&model.OutstandingToken{}).Select("id").Where("expires_at < ?", now)
		if err := tx.Where("token_id IN (?)", expired).Delete(&model.BlacklistedToken{}).Error; err != nil {
			return fmt.Errorf("purge blacklisted tokens: %w", err)
		}
		res := tx.Where("expires_at < ?", now).Delete(&model.OutstandingToken{})
		if res.Error != nil {
			return fmt.Errorf("purge outstanding tokens: %w", res.Error)
		}
		purged = res.RowsAffected
		return nil
	})
	return purged, err
}
