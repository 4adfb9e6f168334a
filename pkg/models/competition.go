package models

// UserRecord is the registered user returned by the backend
type UserRecord struct {
	ID           int64  `json:"id"`
	FullName     string `json:"full_name"`
	ReferralCode string `json:"referral_code"`
}

// LeaderboardEntry is one ranked referrer. Rank is the position in the
// slice returned by the backend.
type LeaderboardEntry struct {
	ReferrerID     int64  `json:"referrer_id"`
	FullName       string `json:"full_name"`
	ReferralsCount int    `json:"referrals_count"`
}

// CreateUserResponse is the envelope returned by POST /users
type CreateUserResponse struct {
	Status string     `json:"status"`
	Error  string     `json:"error"`
	Data   UserRecord `json:"data"`
}

// LeaderboardResponse is the envelope returned by GET /leaderboard
type LeaderboardResponse struct {
	Status string             `json:"status"`
	Error  string             `json:"error"`
	Data   []LeaderboardEntry `json:"data"`
}
