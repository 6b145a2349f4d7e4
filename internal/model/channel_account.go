// internal/model/channel_account.go
package model

// ChannelAccount is a provisioned communication channel belonging to an
// owner (e.g. a connected SMS provider or mailbox).
type ChannelAccount struct {
	ID          int    `db:"id" json:"id"`
	OwnerID     int    `db:"owner_id" json:"owner_id"`
	ChannelType string `db:"channel_type" json:"channel_type"` // call, sms, whatsapp, email
	Provider    string `db:"provider" json:"provider"`
	Active      bool   `db:"active" json:"active"`
}
