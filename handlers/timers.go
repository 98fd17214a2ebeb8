package handlers

import (
	"net/http"
	"time"

	"timeledger/config"
	"timeledger/database"
	"timeledger/middleware"
	"timeledger/models"
	"timeledger/summary"

	"gorm.io/gorm"
)

type TimersHandler struct {
	config *config.Config
}

func NewTimersHandler(cfg *config.Config) *TimersHandler {
	return &TimersHandler{config: cfg}
}

func (h *TimersHandler) Start(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var req struct {
		TaskID uint `json:"task_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	var task models.Task
	if err := database.GetDB().First(&task, req.TaskID).Error; err != nil {
		writeError(w, http.StatusNotFound, "Task not found")
		return
	}
	if task.UserID != user.ID && !user.IsAdmin() {
		writeError(w, http.StatusForbidden, "Forbidden")
		return
	}

	// One running timer per user
	var running int64
	database.GetDB().Model(&models.TaskTimeEntry{}).
		Where("user_id = ? AND end_time IS NULL", user.ID).
		Count(&running)
	if running > 0 {
		writeError(w, http.StatusConflict, "A timer is already running")
		return
	}

	entry := models.TaskTimeEntry{
		UserID:    user.ID,
		TaskID:    req.TaskID,
		StartTime: time.Now().UTC(),
	}
	if err := database.GetDB().Create(&entry).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to start timer")
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

// Stop completes the user's running timer and reconciles the day the
// timer started on. The whole day recalculates, not just ORDINARY_WORK:
// an approved leave request may have attributed the tracked time to a
// different category.
func (h *TimersHandler) Stop(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var entry models.TaskTimeEntry
	if err := database.GetDB().
		Where("user_id = ? AND end_time IS NULL", user.ID).
		Order("start_time desc").
		First(&entry).Error; err != nil {
		writeError(w, http.StatusNotFound, "No running timer")
		return
	}

	entry.Stop(time.Now())

	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&entry).Error; err != nil {
			return err
		}
		return summary.RecalculateDay(tx, user.ID, summary.DayOf(entry.StartTime))
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to stop timer")
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

func (h *TimersHandler) Active(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var entry models.TaskTimeEntry
	err := database.GetDB().Preload("Task").
		Where("user_id = ? AND end_time IS NULL", user.ID).
		Order("start_time desc").
		First(&entry).Error
	if err != nil {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (h *TimersHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var tasks []models.Task
	database.GetDB().Where("user_id = ?", user.ID).Order("name asc").Find(&tasks)
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TimersHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var req struct {
		Name      string `json:"name"`
		ProjectID *uint  `json:"project_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Task name is required")
		return
	}

	task := models.Task{
		UserID:    user.ID,
		Name:      req.Name,
		ProjectID: req.ProjectID,
	}
	if err := database.GetDB().Create(&task).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create task")
		return
	}
	writeJSON(w, http.StatusCreated, task)
}
