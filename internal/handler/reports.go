package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AmpolStack/AccessControlPlatform/internal/apierror"
	"github.com/AmpolStack/AccessControlPlatform/internal/dto"
	"github.com/AmpolStack/AccessControlPlatform/internal/service"
)

type ReportHandler struct{ svc service.ReportService }

func NewReportHandler(svc service.ReportService) *ReportHandler { return &ReportHandler{svc: svc} }

// parseRangeQuery reads the start/end query parameters. Dates accept
// RFC 3339 timestamps or plain YYYY-MM-DD; a bare end date extends to
// the end of that day.
func parseRangeQuery(c *gin.Context) (start, end time.Time, ok bool) {
	var err error
	start, err = parseDateParam(c.Query("start"), false)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid start date: "+err.Error()))
		return start, end, false
	}
	end, err = parseDateParam(c.Query("end"), true)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid end date: "+err.Error()))
		return start, end, false
	}
	return start, end, true
}

func parseDateParam(raw string, endOfDay bool) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("missing parameter")
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Second)
	}
	return t, nil
}

// CurrentCapacity godoc
// @Summary Reports current occupancy against maximum capacity
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param id path int true "Establishment ID"
// @Success 200 {object} dto.DataResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/reports/establishments/{id}/capacity [get]
func (h *ReportHandler) CurrentCapacity(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	resp, err := h.svc.CurrentCapacity(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OKData("current capacity", resp))
}

// AccessHistory godoc
// @Summary Lists entry/exit records in a date range
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param id path int true "Establishment ID"
// @Param start query string true "Range start (YYYY-MM-DD or RFC3339)"
// @Param end query string true "Range end (YYYY-MM-DD or RFC3339)"
// @Success 200 {object} dto.DataResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/reports/establishments/{id}/history [get]
func (h *ReportHandler) AccessHistory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	start, end, ok := parseRangeQuery(c)
	if !ok {
		return
	}
	resp, err := h.svc.AccessHistory(c.Request.Context(), id, start, end)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OKData("access history", resp))
}

// AccessHistoryPDF godoc
// @Summary Downloads the access history as a PDF document
// @Tags reports
// @Produce application/pdf
// @Security BearerAuth
// @Param id path int true "Establishment ID"
// @Param start query string true "Range start (YYYY-MM-DD or RFC3339)"
// @Param end query string true "Range end (YYYY-MM-DD or RFC3339)"
// @Success 200 {file} binary
// @Failure 404 {object} apierror.APIError
// @Router /v1/reports/establishments/{id}/history.pdf [get]
func (h *ReportHandler) AccessHistoryPDF(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	start, end, ok := parseRangeQuery(c)
	if !ok {
		return
	}
	pdfBytes, err := h.svc.AccessHistoryPDF(c.Request.Context(), id, start, end)
	if err != nil {
		writeError(c, err)
		return
	}
	filename := fmt.Sprintf("access-history-%d-%s.pdf", id, start.Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

// HourlyAverages godoc
// @Summary Reports average occupancy per hour of day over a date range
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param id path int true "Establishment ID"
// @Param start query string true "Range start (YYYY-MM-DD or RFC3339)"
// @Param end query string true "Range end (YYYY-MM-DD or RFC3339)"
// @Success 200 {object} dto.DataResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/reports/establishments/{id}/hourly [get]
func (h *ReportHandler) HourlyAverages(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	start, end, ok := parseRangeQuery(c)
	if !ok {
		return
	}
	resp, err := h.svc.HourlyAverages(c.Request.Context(), id, start, end)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OKData("hourly averages", resp))
}
