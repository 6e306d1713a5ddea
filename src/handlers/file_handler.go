package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/username/sellerfolio/backend/src/logger"
	"github.com/username/sellerfolio/backend/src/models"
	"github.com/username/sellerfolio/backend/src/services"
	"github.com/username/sellerfolio/backend/src/utils"
)

type FileHandler struct {
	settlementService services.SettlementService
}

func NewFileHandler(service services.SettlementService) *FileHandler {
	return &FileHandler{
		settlementService: service,
	}
}

func (h *FileHandler) HandleListFiles(w http.ResponseWriter, r *http.Request) {
	files, err := h.settlementService.ListFiles()
	if err != nil {
		logger.L.Error("Error listing loaded files", "error", err)
		utils.SendJSONError(w, fmt.Sprintf("Error listing loaded files: %v", err), http.StatusInternalServerError)
		return
	}
	if files == nil {
		files = []models.LoadedFile{}
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(files); err != nil {
		logger.L.Error("Error generating JSON response for file list", "error", err)
	}
}

func (h *FileHandler) HandleDeleteFile(w http.ResponseWriter, r *http.Request) {
	fileName := r.PathValue("fileName")
	if fileName == "" {
		utils.SendJSONError(w, "File name is required", http.StatusBadRequest)
		return
	}

	if err := h.settlementService.DeleteFile(fileName); err != nil {
		if errors.Is(err, services.ErrFileNotFound) {
			utils.SendJSONError(w, fmt.Sprintf("File not found: %s", fileName), http.StatusNotFound)
			return
		}
		logger.L.Error("Error deleting loaded file", "fileName", fileName, "error", err)
		utils.SendJSONError(w, fmt.Sprintf("Error deleting file %s: %v", fileName, err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"deleted": fileName})
}
