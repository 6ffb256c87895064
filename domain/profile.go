package domain

import "time"

// User is the credential projection of a profile row, used by auth.
type User struct {
	Id           string
	Username     string
	PasswordHash string
}

// Profile is the public projection: credits and wins are mutated only
// by settlement, the daily reward claim and payment webhooks.
type Profile struct {
	Id              string
	Username        string
	Email           string
	Credits         int64
	Wins            int
	LastRewardClaim *time.Time
}
