package handlers

import (
	"net/http"
	"strconv"
	"time"

	"timeledger/config"
	"timeledger/database"
	"timeledger/middleware"
	"timeledger/models"
	"timeledger/summary"

	"gorm.io/gorm"
)

type HoursHandler struct {
	config *config.Config
}

func NewHoursHandler(cfg *config.Config) *HoursHandler {
	return &HoursHandler{config: cfg}
}

func (h *HoursHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	db := database.GetDB()
	query := db.Preload("Task")

	if user.CanViewAllHours() {
		if targetID, ok := parseID(r, "user_id"); ok {
			query = query.Where("user_id = ?", targetID)
		}
	} else {
		query = query.Where("user_id = ?", user.ID)
	}

	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		if from, err := time.Parse("2006-01-02", fromStr); err == nil {
			query = query.Where("date >= ?", summary.DayOf(from))
		}
	}
	if toStr := r.URL.Query().Get("to"); toStr != "" {
		if to, err := time.Parse("2006-01-02", toStr); err == nil {
			query = query.Where("date <= ?", summary.DayOf(to))
		}
	}

	var entries []models.HourEntry
	query.Order("date desc").Limit(500).Find(&entries)
	writeJSON(w, http.StatusOK, entries)
}

func (h *HoursHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var req struct {
		Date        string          `json:"date"`
		Category    models.Category `json:"category"`
		Hours       float64         `json:"hours"`
		Description string          `json:"description"`
		UserID      uint            `json:"user_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format")
		return
	}
	if !req.Category.Valid() {
		writeError(w, http.StatusBadRequest, "Invalid category")
		return
	}
	if req.Hours <= 0 || req.Hours > 24 {
		writeError(w, http.StatusBadRequest, "Hours must be between 0 and 24")
		return
	}

	targetUserID := user.ID
	if req.UserID != 0 && user.IsAdmin() {
		targetUserID = req.UserID
	}
	if !user.CanManageHoursFor(targetUserID) {
		writeError(w, http.StatusForbidden, "Forbidden")
		return
	}

	day := summary.DayOf(date)
	entry := models.HourEntry{
		UserID:      targetUserID,
		Date:        day,
		Category:    req.Category,
		Hours:       req.Hours,
		Description: req.Description,
	}

	// Entry and summary commit together: if reconciliation fails the
	// entry is rolled back too.
	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		return summary.Recalculate(tx, targetUserID, day, req.Category)
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create entry")
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

func (h *HoursHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	idStr := r.URL.Query().Get("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid entry ID")
		return
	}

	var entry models.HourEntry
	if err := database.GetDB().First(&entry, id).Error; err != nil {
		writeError(w, http.StatusNotFound, "Entry not found")
		return
	}

	if !user.CanManageHoursFor(entry.UserID) {
		writeError(w, http.StatusForbidden, "Forbidden")
		return
	}

	var req struct {
		Date        *string          `json:"date"`
		Category    *models.Category `json:"category"`
		Hours       *float64         `json:"hours"`
		Description *string          `json:"description"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	oldDay := summary.DayOf(entry.Date)
	oldCategory := entry.Category

	if req.Date != nil {
		date, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date format")
			return
		}
		entry.Date = summary.DayOf(date)
	}
	if req.Category != nil {
		if !req.Category.Valid() {
			writeError(w, http.StatusBadRequest, "Invalid category")
			return
		}
		entry.Category = *req.Category
	}
	if req.Hours != nil {
		if *req.Hours <= 0 || *req.Hours > 24 {
			writeError(w, http.StatusBadRequest, "Hours must be between 0 and 24")
			return
		}
		entry.Hours = *req.Hours
	}
	if req.Description != nil {
		entry.Description = *req.Description
	}

	// Moving an entry across days or categories leaves a stale aggregate
	// behind on the old key; both keys recalculate.
	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&entry).Error; err != nil {
			return err
		}
		if err := summary.Recalculate(tx, entry.UserID, oldDay, oldCategory); err != nil {
			return err
		}
		return summary.Recalculate(tx, entry.UserID, summary.DayOf(entry.Date), entry.Category)
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update entry")
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

func (h *HoursHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	idStr := r.URL.Query().Get("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid entry ID")
		return
	}

	var entry models.HourEntry
	if err := database.GetDB().First(&entry, id).Error; err != nil {
		writeError(w, http.StatusNotFound, "Entry not found")
		return
	}

	if !user.CanManageHoursFor(entry.UserID) {
		writeError(w, http.StatusForbidden, "Forbidden")
		return
	}

	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&entry).Error; err != nil {
			return err
		}
		return summary.Recalculate(tx, entry.UserID, summary.DayOf(entry.Date), entry.Category)
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete entry")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
