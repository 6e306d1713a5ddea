package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/username/sellerfolio/backend/src/logger"
	"github.com/username/sellerfolio/backend/src/processors"
	"github.com/username/sellerfolio/backend/src/services"
	"github.com/username/sellerfolio/backend/src/utils"
)

type SummaryHandler struct {
	settlementService services.SettlementService
}

func NewSummaryHandler(service services.SettlementService) *SummaryHandler {
	return &SummaryHandler{
		settlementService: service,
	}
}

func summaryParams(r *http.Request) (period, subPeriod string) {
	period = r.URL.Query().Get("period")
	if period == "" {
		period = processors.PeriodAll
	}
	subPeriod = r.URL.Query().Get("subPeriod")
	if subPeriod == "" {
		subPeriod = processors.SubPeriodAll
	}
	return period, subPeriod
}

func (h *SummaryHandler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	period, subPeriod := summaryParams(r)
	logger.L.Debug("Handling GetSummary request with ETag support", "period", period, "subPeriod", subPeriod)

	summary, err := h.settlementService.GetSummary(period, subPeriod)
	if err != nil {
		if errors.Is(err, services.ErrUnknownPeriod) {
			utils.SendJSONError(w, fmt.Sprintf("Unknown period: %s", period), http.StatusNotFound)
			return
		}
		logger.L.Error("Error retrieving summary from service", "period", period, "error", err)
		utils.SendJSONError(w, fmt.Sprintf("Error retrieving summary for period %s: %v", period, err), http.StatusInternalServerError)
		return
	}

	currentETag, etagErr := utils.GenerateETag(summary)
	if etagErr != nil {
		logger.L.Error("Failed to generate ETag for summary", "period", period, "error", etagErr)
	}

	w.Header().Set("Cache-Control", "no-cache, private")

	if etagErr == nil && currentETag != "" {
		quotedETag := fmt.Sprintf("\"%s\"", currentETag)
		w.Header().Set("ETag", quotedETag)
		clientETag := r.Header.Get("If-None-Match")
		for _, cETag := range strings.Split(clientETag, ",") {
			if strings.TrimSpace(cETag) == quotedETag {
				logger.L.Info("ETag match for summary", "period", period, "etag", currentETag)
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(summary); err != nil {
		logger.L.Error("Error generating JSON response for summary", "period", period, "error", err)
	}
}

func (h *SummaryHandler) HandleGetPeriods(w http.ResponseWriter, r *http.Request) {
	periods, err := h.settlementService.GetPeriods()
	if err != nil {
		logger.L.Error("Error retrieving period list", "error", err)
		utils.SendJSONError(w, fmt.Sprintf("Error retrieving period list: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string][]string{"periods": periods}); err != nil {
		logger.L.Error("Error generating JSON response for period list", "error", err)
	}
}
