package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"GREENPATH_BACK-END/internal/classifier"
	"GREENPATH_BACK-END/internal/dto"
	"GREENPATH_BACK-END/internal/utils"
)

// ScannerHandler stores scan photos and classifies them
type ScannerHandler struct {
	images     ImageStore
	classifier Classifier // nil when no API key is configured
	opts       ImageOptions
	log        *zap.Logger
}

// NewScannerHandler creates a ScannerHandler. c may be nil.
func NewScannerHandler(images ImageStore, c Classifier, opts ImageOptions, log *zap.Logger) *ScannerHandler {
	return &ScannerHandler{images: images, classifier: c, opts: opts, log: log}
}

// UploadImage godoc
// @Summary      Upload a scan photo
// @Tags         scanner
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      dto.ImageRequest  true  "base64 image or data URL"
// @Success      200      {object}  dto.UploadImageResponse
// @Failure      400      {object}  dto.ErrorResponse
// @Failure      401      {object}  dto.ErrorResponse
// @Failure      413      {object}  dto.ErrorResponse
// @Failure      500      {object}  dto.ErrorResponse
// @Router       /api/upload-image [post]
func (h *ScannerHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if _, ok := authUser(w, r); !ok {
		return
	}

	var req dto.ImageRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return
	}
	data, mimeType, ok := h.decodeImage(w, req.ImageData, "No image data provided")
	if !ok {
		return
	}

	imageID := "scan_" + uuid.New().String()
	path := imageID + ".jpg"

	ctx, cancel := context.WithTimeout(r.Context(), 3*requestTimeout)
	defer cancel()

	if err := h.images.Upload(ctx, path, data, mimeType); err != nil {
		h.log.Error("scan image upload failed", zap.String("path", path), zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to upload image: "+err.Error(), "")
		return
	}
	url, err := h.images.SignedURL(ctx, path, h.opts.SignedURLTTL)
	if err != nil {
		h.log.Error("scan image signing failed", zap.String("path", path), zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to create image URL", err.Error())
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.UploadImageResponse{
		Success:  true,
		ImageURL: url,
		ImageID:  imageID,
	})
}

// AnalyzeWaste godoc
// @Summary      Classify waste in a photo
// @Description  Errors carry useMock=true so the scanner can fall back to a mock result.
// @Tags         scanner
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      dto.ImageRequest  true  "base64 image or data URL"
// @Success      200      {object}  dto.AnalyzeResponse
// @Failure      400      {object}  dto.AnalyzeErrorResponse
// @Failure      401      {object}  dto.ErrorResponse
// @Failure      500      {object}  dto.AnalyzeErrorResponse
// @Router       /api/analyze-waste [post]
func (h *ScannerHandler) AnalyzeWaste(w http.ResponseWriter, r *http.Request) {
	if _, ok := authUser(w, r); !ok {
		return
	}

	var req dto.ImageRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return
	}
	data, mimeType, ok := h.decodeImage(w, req.ImageData, "No image provided")
	if !ok {
		return
	}

	if h.classifier == nil {
		utils.WriteJSONResponse(w, http.StatusBadRequest, dto.AnalyzeErrorResponse{
			Error:   "GEMINI_API_KEY not configured",
			UseMock: true,
		})
		return
	}

	result, err := h.classifier.Classify(r.Context(), data, mimeType)
	if err != nil {
		resp := dto.AnalyzeErrorResponse{Error: "AI analysis failed", Details: err.Error(), UseMock: true}
		var perr *classifier.ParseError
		if errors.As(err, &perr) {
			resp.Error = "Failed to parse AI response"
			resp.RawResponse = perr.Raw
		}
		h.log.Error("waste analysis failed", zap.Error(err))
		utils.WriteJSONResponse(w, http.StatusInternalServerError, resp)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.AnalyzeResponse{
		Success: true,
		Result: dto.WasteAnalysis{
			Recyclable: result.Recyclable,
			ItemName:   result.ItemName,
			BinType:    result.BinType,
			Tips:       result.Tips,
		},
	})
}

func (h *ScannerHandler) decodeImage(w http.ResponseWriter, imageData, missingMsg string) ([]byte, string, bool) {
	data, mimeType, err := utils.DecodeImageData(imageData, h.opts.MaxBytes)
	switch {
	case errors.Is(err, utils.ErrNoImage):
		utils.WriteErrorResponse(w, http.StatusBadRequest, missingMsg, "")
		return nil, "", false
	case errors.Is(err, utils.ErrImageTooLarge):
		utils.WriteErrorResponse(w, http.StatusRequestEntityTooLarge, "Image too large", err.Error())
		return nil, "", false
	case err != nil:
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid image data", err.Error())
		return nil, "", false
	}
	return data, mimeType, true
}
