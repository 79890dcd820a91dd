package dto

// ImageRequest carries a base64 image from the scanner
type ImageRequest struct {
	ImageData string `json:"imageData"`
}

// UploadImageResponse is returned after a scan image is stored
type UploadImageResponse struct {
	Success  bool   `json:"success"`
	ImageURL string `json:"imageUrl"`
	ImageID  string `json:"imageId"`
}

// WasteAnalysis is the classification the AI returns
type WasteAnalysis struct {
	Recyclable bool     `json:"recyclable"`
	ItemName   string   `json:"itemName"`
	BinType    string   `json:"binType"`
	Tips       []string `json:"tips"`
}

// AnalyzeResponse wraps a successful classification
type AnalyzeResponse struct {
	Success bool          `json:"success"`
	Result  WasteAnalysis `json:"result"`
}

// AnalyzeErrorResponse tells the scanner to fall back to mock results
type AnalyzeErrorResponse struct {
	Error       string `json:"error"`
	Details     string `json:"details,omitempty"`
	RawResponse string `json:"rawResponse,omitempty"`
	UseMock     bool   `json:"useMock"`
}
