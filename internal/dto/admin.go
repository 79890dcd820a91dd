package dto

// UpdateStatusRequest changes a waste post's moderation status
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending in_progress collected"`
}

// AdminActionRequest mirrors the admin action payload used by the dashboard
type AdminActionRequest struct {
	Action  string `json:"action" validate:"required"`
	WasteID string `json:"wasteId" validate:"required"`
}

// AdminActionResponse returns the affected rows
type AdminActionResponse struct {
	Success bool                `json:"success"`
	Data    []WastePostResponse `json:"data"`
}

// HotspotSummary is a hotspot without its items
type HotspotSummary struct {
	Area  string `json:"area"`
	Count int    `json:"count"`
}

// AdminStatsResponse feeds the admin overview and analytics screens
type AdminStatsResponse struct {
	TotalRequests int              `json:"total_requests"`
	Pending       int              `json:"pending"`
	InProgress    int              `json:"in_progress"`
	Resolved      int              `json:"resolved"`
	ByType        map[string]int   `json:"by_type"`
	Hotspots      []HotspotSummary `json:"hotspots"`
}
