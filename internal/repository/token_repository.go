package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/venue-booking/internal/model"
)

// TokenRepo persists hashed refresh tokens.
type TokenRepo struct{ db *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{db: db} }

// StoreRefresh inserts a refresh token hash row.
func (r *TokenRepo) StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?,?,?)",
		userID, tokenHash, exp)
	return err
}

// Rotate revokes oldHash and stores newHash for the same user atomically. It
// returns model.ErrInvalidRefresh when oldHash is unknown, revoked or
// expired at now.
func (r *TokenRepo) Rotate(ctx context.Context, oldHash, newHash string, now, exp time.Time) (uint64, error) {
	var userID uint64
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var (
			rt        model.RefreshToken
			revokedAt sql.NullTime
		)
		err := tx.QueryRowContext(ctx,
			"SELECT id, user_id, expires_at, revoked_at FROM refresh_tokens WHERE token_hash=? LIMIT 1 FOR UPDATE",
			oldHash).Scan(&rt.ID, &rt.UserID, &rt.ExpiresAt, &revokedAt)
		if err != nil {
			return notFound(err, model.ErrInvalidRefresh)
		}
		if revokedAt.Valid || !now.Before(rt.ExpiresAt) {
			return model.ErrInvalidRefresh
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE refresh_tokens SET revoked_at=? WHERE id=?", now, rt.ID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?,?,?)",
			rt.UserID, newHash, exp); err != nil {
			return err
		}
		userID = rt.UserID
		return nil
	})
	return userID, err
}

// RevokeByHash marks a token as revoked.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=NOW() WHERE token_hash=? AND revoked_at IS NULL",
		tokenHash)
	return err
}

// RevokeAllForUser revokes all of the user's active tokens.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID uint64) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=NOW() WHERE user_id=? AND revoked_at IS NULL",
		userID)
	return err
}
