package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/username/sellerfolio/backend/src/export"
	"github.com/username/sellerfolio/backend/src/logger"
	"github.com/username/sellerfolio/backend/src/services"
	"github.com/username/sellerfolio/backend/src/utils"
)

type ExportHandler struct {
	settlementService services.SettlementService
}

func NewExportHandler(service services.SettlementService) *ExportHandler {
	return &ExportHandler{
		settlementService: service,
	}
}

func (h *ExportHandler) HandleExportSummary(w http.ResponseWriter, r *http.Request) {
	period, subPeriod := summaryParams(r)

	summary, err := h.settlementService.GetSummary(period, subPeriod)
	if err != nil {
		if errors.Is(err, services.ErrUnknownPeriod) {
			utils.SendJSONError(w, fmt.Sprintf("Unknown period: %s", period), http.StatusNotFound)
			return
		}
		logger.L.Error("Error retrieving summary for export", "period", period, "error", err)
		utils.SendJSONError(w, fmt.Sprintf("Error retrieving summary for period %s: %v", period, err), http.StatusInternalServerError)
		return
	}

	csvBytes, err := export.BuildSummaryCSV(period, subPeriod, summary)
	if err != nil {
		logger.L.Error("Error building summary CSV", "period", period, "error", err)
		utils.SendJSONError(w, "Error building CSV export", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"summary_%s_%s.csv\"", period, subPeriod))
	if _, err := w.Write(csvBytes); err != nil {
		logger.L.Error("Error writing CSV export response", "period", period, "error", err)
	}
}
