package repository

import (
	"database/sql"

	"github.com/unclebandit/leadflow-backend/internal/model"
)

type ChannelRepositoryInterface interface {
	ListActiveForOwner(ownerID int) ([]model.ChannelAccount, error)
}

type ChannelRepository struct {
	DB *sql.DB
}

// ListActiveForOwner backs the "at least one active channel" precondition.
func (r *ChannelRepository) ListActiveForOwner(ownerID int) ([]model.ChannelAccount, error) {
	query := `
        SELECT id, owner_id, channel_type, provider, active
        FROM channel_accounts
        WHERE owner_id = $1 AND active = TRUE
    `
	rows, err := r.DB.Query(query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	channels := []model.ChannelAccount{}
	for rows.Next() {
		var c model.ChannelAccount
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.ChannelType, &c.Provider, &c.Active); err != nil {
			return nil, err
		}
		channels = append(channels, c)
	}
	return channels, rows.Err()
}

var _ ChannelRepositoryInterface = (*ChannelRepository)(nil)
