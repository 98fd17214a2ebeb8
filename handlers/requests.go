package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"timeledger/config"
	"timeledger/database"
	"timeledger/middleware"
	"timeledger/models"
	"timeledger/summary"

	"gorm.io/gorm"
)

type RequestsHandler struct {
	config *config.Config
}

func NewRequestsHandler(cfg *config.Config) *RequestsHandler {
	return &RequestsHandler{config: cfg}
}

func (h *RequestsHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	query := database.GetDB().Preload("User")
	if user.CanApproveRequests() {
		if targetID, ok := parseID(r, "user_id"); ok {
			query = query.Where("user_id = ?", targetID)
		}
	} else {
		query = query.Where("user_id = ?", user.ID)
	}
	if status := r.URL.Query().Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var requests []models.Request
	query.Order("start_date desc").Limit(500).Find(&requests)
	writeJSON(w, http.StatusOK, requests)
}

func (h *RequestsHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var req struct {
		Type            models.RequestType `json:"type"`
		StartDate       string             `json:"start_date"`
		EndDate         string             `json:"end_date"`
		AffectsHourType *bool              `json:"affects_hour_type"`
		Comment         string             `json:"comment"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if !req.Type.Valid() {
		writeError(w, http.StatusBadRequest, "Invalid request type")
		return
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start date")
		return
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end date")
		return
	}
	start, end := summary.DayOf(startDate), summary.DayOf(endDate)
	if end.Before(start) {
		writeError(w, http.StatusBadRequest, "End date before start date")
		return
	}

	affects := true
	if req.AffectsHourType != nil {
		affects = *req.AffectsHourType
	}

	request := models.Request{
		UserID:          user.ID,
		Type:            req.Type,
		StartDate:       start,
		EndDate:         end,
		Status:          models.RequestPending,
		AffectsHourType: affects,
		Comment:         req.Comment,
	}
	if err := database.GetDB().Create(&request).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create request")
		return
	}

	writeJSON(w, http.StatusCreated, request)
}

// Approve marks a pending request approved and reconciles every day it
// covers: approval can retroactively move already-logged hours into the
// request's category.
func (h *RequestsHandler) Approve(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if !user.CanApproveRequests() {
		writeError(w, http.StatusForbidden, "Forbidden")
		return
	}

	id, ok := parseID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid request ID")
		return
	}

	var request models.Request
	if err := database.GetDB().First(&request, id).Error; err != nil {
		writeError(w, http.StatusNotFound, "Request not found")
		return
	}
	if request.Status != models.RequestPending {
		writeError(w, http.StatusConflict, "Request is not pending")
		return
	}

	now := time.Now().UTC()
	request.Status = models.RequestApproved
	request.ApprovedAt = &now
	request.ApprovedBy = &user.ID

	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&request).Error; err != nil {
			return err
		}
		if !request.AffectsHourType {
			return nil
		}
		return summary.RecalculateRange(tx, request.UserID, request.StartDate, request.EndDate)
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to approve request")
		return
	}

	writeJSON(w, http.StatusOK, request)
}

func (h *RequestsHandler) Reject(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if !user.CanApproveRequests() {
		writeError(w, http.StatusForbidden, "Forbidden")
		return
	}

	id, ok := parseID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid request ID")
		return
	}

	var request models.Request
	if err := database.GetDB().First(&request, id).Error; err != nil {
		writeError(w, http.StatusNotFound, "Request not found")
		return
	}
	if request.Status != models.RequestPending {
		writeError(w, http.StatusConflict, "Request is not pending")
		return
	}

	// Rejection comment is optional
	var req struct {
		Comment string `json:"comment"`
	}
	json.NewDecoder(r.Body).Decode(&req)

	request.Status = models.RequestRejected
	if req.Comment != "" {
		request.Comment = req.Comment
	}
	if err := database.GetDB().Save(&request).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reject request")
		return
	}

	writeJSON(w, http.StatusOK, request)
}

// Cancel withdraws a request. Cancelling an approved request that affected
// hour categories reverts the recategorization, so the covered range
// reconciles again.
func (h *RequestsHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	id, ok := parseID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid request ID")
		return
	}

	var request models.Request
	if err := database.GetDB().First(&request, id).Error; err != nil {
		writeError(w, http.StatusNotFound, "Request not found")
		return
	}

	// Owners cancel their own requests; approvers can cancel anyone's.
	if request.UserID != user.ID && !user.CanApproveRequests() {
		writeError(w, http.StatusForbidden, "Forbidden")
		return
	}
	if request.Status == models.RequestCancelled || request.Status == models.RequestRejected {
		writeError(w, http.StatusConflict, "Request is already closed")
		return
	}

	wasActive := request.AffectsCategories()

	now := time.Now().UTC()
	request.Status = models.RequestCancelled
	request.CancelledAt = &now

	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&request).Error; err != nil {
			return err
		}
		if !wasActive {
			return nil
		}
		return summary.RecalculateRange(tx, request.UserID, request.StartDate, request.EndDate)
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to cancel request")
		return
	}

	writeJSON(w, http.StatusOK, request)
}
