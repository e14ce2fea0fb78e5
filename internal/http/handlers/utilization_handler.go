// Utilization HTTP handlers.
//
// This file exposes the two utilization endpoints. They accept different
// action sets and are kept separate on purpose:
//   - /resources/utilization persists events and reports counts
//     (view, click, contact, download, share, bookmark)
//   - /directory/utilization forwards events to the directory manager
//     (view, contact, qr_scan, share, feedback)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/mindwell-api/internal/domain"
	"github.com/tbourn/mindwell-api/internal/services"
)

// utilizationTrackedMessage confirms a directory utilization event.
const utilizationTrackedMessage = "Utilization tracked successfully"

//
// DTOs
//

// ResourceUtilizationRequest is the payload for POST /resources/utilization.
// Missing fields are reported by the service so both endpoints share one
// message.
type ResourceUtilizationRequest struct {
	ResourceID       string               `json:"resourceId" example:"9a1f3c52-6d7e-4b8a-a1c2-3e4f5a6b7c8d"`
	Action           string               `json:"action"     example:"view" enums:"view,click,contact,download,share,bookmark"`
	UserDemographics *domain.Demographics `json:"userDemographics,omitempty"`
	SessionData      *domain.SessionData  `json:"sessionData,omitempty"`
}

// SuccessResponse is the bare acknowledgement of variant A.
type SuccessResponse struct {
	Success bool `json:"success" example:"true"`
}

// ResourceMetricsResponse wraps utilization counts for one resource.
type ResourceMetricsResponse struct {
	Success bool                      `json:"success" example:"true"`
	Metrics domain.UtilizationMetrics `json:"metrics"`
}

// DirectoryUtilizationRequest is the payload for POST /directory/utilization.
type DirectoryUtilizationRequest struct {
	ResourceID       string               `json:"resourceId" example:"clinic-042"`
	Action           string               `json:"action"     example:"qr_scan" enums:"view,contact,qr_scan,share,feedback"`
	UserDemographics *domain.Demographics `json:"userDemographics,omitempty"`
	Metadata         domain.Attributes    `json:"metadata,omitempty"`
}

// DirectoryUtilizationResponse acknowledges a forwarded event.
type DirectoryUtilizationResponse struct {
	Success bool                    `json:"success" example:"true"`
	Message string                  `json:"message" example:"Utilization tracked successfully"`
	Data    services.DirectoryEvent `json:"data"`
}

// DirectoryAnalyticsResponse echoes the requested filters.
type DirectoryAnalyticsResponse struct {
	Success bool                    `json:"success" example:"true"`
	Message string                  `json:"message"`
	Filters services.AnalyticsQuery `json:"filters"`
}

//
// Handlers
//

// TrackResourceUtilization godoc
// @ID          trackResourceUtilization
// @Summary     Track resource utilization
// @Description Records a utilization event against an existing directory resource.
// @Tags        Utilization
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.ResourceUtilizationRequest  true  "Utilization event"
//
// @Success     200  {object}  handlers.SuccessResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Missing fields or invalid action"
// @Failure     404  {object}  handlers.ErrorResponse  "Resource not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /resources/utilization [post]
func (h *Handlers) TrackResourceUtilization(c *gin.Context) {
	var req ResourceUtilizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, bindMessage(err))
		return
	}

	err := h.utilSvc.Track(c.Request.Context(), services.UtilizationInput{
		ResourceID:   req.ResourceID,
		Action:       req.Action,
		Demographics: req.UserDemographics,
		Session:      req.SessionData,
	})
	if err != nil {
		failService(c, err, ErrCodeTrackFailed)
		return
	}
	ok(c, http.StatusOK, SuccessResponse{Success: true})
}

// ResourceUtilizationMetrics godoc
// @ID          resourceUtilizationMetrics
// @Summary     Resource utilization metrics
// @Description Returns interaction counts for resourceId; zero metrics when it is omitted.
// @Tags        Utilization
// @Produce     json
//
// @Param       resourceId  query  string  false  "Resource ID"
//
// @Success     200  {object}  handlers.ResourceMetricsResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /resources/utilization [get]
func (h *Handlers) ResourceUtilizationMetrics(c *gin.Context) {
	m, err := h.utilSvc.Metrics(c.Request.Context(), c.Query("resourceId"))
	if err != nil {
		failService(c, err, ErrCodeListFailed)
		return
	}
	ok(c, http.StatusOK, ResourceMetricsResponse{Success: true, Metrics: m})
}

// TrackDirectoryUtilization godoc
// @ID          trackDirectoryUtilization
// @Summary     Track directory utilization
// @Description Validates a utilization event and forwards it to the directory manager.
// @Tags        Directory
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.DirectoryUtilizationRequest  true  "Utilization event"
//
// @Success     200  {object}  handlers.DirectoryUtilizationResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Missing fields or invalid action"
// @Failure     500  {object}  handlers.ErrorResponse  "Directory manager failed"
// @Router      /directory/utilization [post]
func (h *Handlers) TrackDirectoryUtilization(c *gin.Context) {
	var req DirectoryUtilizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, bindMessage(err))
		return
	}

	ev, err := h.dirSvc.Track(c.Request.Context(), req.ResourceID, req.Action, req.UserDemographics, req.Metadata)
	if err != nil {
		failService(c, err, ErrCodeTrackFailed)
		return
	}
	ok(c, http.StatusOK, DirectoryUtilizationResponse{
		Success: true,
		Message: utilizationTrackedMessage,
		Data:    *ev,
	})
}

// DirectoryAnalytics godoc
// @ID          directoryAnalytics
// @Summary     Directory utilization analytics
// @Description Acknowledges an analytics request and echoes its filters. No metrics are computed.
// @Tags        Directory
// @Produce     json
//
// @Param       resourceId  query  string  false  "Resource ID"
// @Param       startDate   query  string  false  "Start date (YYYY-MM-DD)"
// @Param       endDate     query  string  false  "End date (YYYY-MM-DD)"
// @Param       groupBy     query  string  false  "Grouping, e.g. day or action"
//
// @Success     200  {object}  handlers.DirectoryAnalyticsResponse
// @Router      /directory/utilization [get]
func (h *Handlers) DirectoryAnalytics(c *gin.Context) {
	q := services.AnalyticsQuery{
		ResourceID: c.Query("resourceId"),
		StartDate:  c.Query("startDate"),
		EndDate:    c.Query("endDate"),
		GroupBy:    c.Query("groupBy"),
	}
	ack := h.dirSvc.Analytics(c.Request.Context(), q)
	ok(c, http.StatusOK, DirectoryAnalyticsResponse{
		Success: true,
		Message: ack.Message,
		Filters: ack.Filters,
	})
}
