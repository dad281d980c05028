package fiber

type LeaderboardEntryResponse struct {
	Position int    `json:"position" example:"1"`
	UserID   string `json:"user_id" example:"94771234567@s.whatsapp.net"`
	Count    int64  `json:"count" example:"42"`
}

type LeaderboardResponse struct {
	GroupID string                     `json:"group_id"`
	Mode    string                     `json:"mode" example:"daily"`
	Entries []LeaderboardEntryResponse `json:"entries"`
	Total   int                        `json:"total"`
}

type UserRankResponse struct {
	GroupID string `json:"group_id"`
	UserID  string `json:"user_id"`
	Rank    int    `json:"rank"`
	Total   int    `json:"total"`
	Global  int64  `json:"global"`
	Daily   int64  `json:"daily"`
	Weekly  int64  `json:"weekly"`
}

// RecordActivityRequest is the body of POST /groups/{groupId}/activity.
type RecordActivityRequest struct {
	UserID string `json:"user_id"`
}

type RecordActivityResponse struct {
	Status string `json:"status" example:"accepted"`
	Global int64  `json:"global"`
	Daily  int64  `json:"daily"`
	Weekly int64  `json:"weekly"`
}

type HealthResponse struct {
	Status      string `json:"status" example:"ok"`
	Groups      int    `json:"groups"`
	DirtyGroups int    `json:"dirty_groups"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_mode"`
	Message string `json:"message" example:"mode must be one of global, daily, weekly"`
}
