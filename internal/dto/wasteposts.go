package dto

// CreateWastePostRequest represents the payload to report waste
type CreateWastePostRequest struct {
	Type        string   `json:"type"`
	Title       string   `json:"title"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
	Latitude    *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude   *float64 `json:"longitude" validate:"omitempty,longitude"`
	ImageData   string   `json:"imageData"` // base64 or data URL
	ItemName    *string  `json:"itemName"`
	BinType     *string  `json:"binType"`
	Recyclable  *bool    `json:"recyclable"`
	Tips        []string `json:"tips"`
}

// WastePostResponse represents a waste post in responses
type WastePostResponse struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	Title       string   `json:"title"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	ImageURL    *string  `json:"imageUrl"`
	Status      string   `json:"status"`
	ItemName    *string  `json:"itemName,omitempty"`
	BinType     *string  `json:"binType,omitempty"`
	Recyclable  *bool    `json:"recyclable,omitempty"`
	Tips        []string `json:"tips,omitempty"`
	UserID      string   `json:"userId"`
	UserEmail   string   `json:"userEmail,omitempty"`
	UserName    string   `json:"userName"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
	TimeAgo     string   `json:"timeAgo"`
}

// WastePostEnvelope wraps a single post
type WastePostEnvelope struct {
	Success bool              `json:"success"`
	Post    WastePostResponse `json:"post"`
}

// Pagination info
type Pagination struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// WastePostListResponse envelope
type WastePostListResponse struct {
	Posts      []WastePostResponse `json:"posts"`
	Pagination Pagination          `json:"pagination"`
}

// HotspotResponse is one aggregated area
type HotspotResponse struct {
	Area  string              `json:"area"`
	Count int                 `json:"count"`
	Items []WastePostResponse `json:"items"`
}

// HotspotListResponse envelope
type HotspotListResponse struct {
	Hotspots      []HotspotResponse `json:"hotspots"`
	TotalHotspots int               `json:"total_hotspots"`
	TotalPosts    int               `json:"total_posts"`
}
