package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"timeledger/config"
	"timeledger/database"
	"timeledger/middleware"
	"timeledger/models"
	"timeledger/summary"
)

type SummaryHandler struct {
	config *config.Config
}

func NewSummaryHandler(cfg *config.Config) *SummaryHandler {
	return &SummaryHandler{config: cfg}
}

// supervisorTeamIDs returns the team IDs a supervisor is assigned to view.
func supervisorTeamIDs(userID uint) []uint {
	var assignments []models.TeamSupervisor
	database.GetDB().Where("user_id = ?", userID).Find(&assignments)

	teamIDs := make([]uint, 0, len(assignments))
	for _, a := range assignments {
		teamIDs = append(teamIDs, a.TeamID)
	}
	return teamIDs
}

// canViewSummariesFor reports whether the viewer may read another user's
// summary rows: self and admin/HR always, supervisors for users in their
// assigned teams.
func canViewSummariesFor(viewer *models.User, targetUserID uint) bool {
	if viewer.ID == targetUserID || viewer.CanViewAllHours() {
		return true
	}
	if !viewer.IsSupervisor() {
		return false
	}

	var target models.User
	if err := database.GetDB().First(&target, targetUserID).Error; err != nil {
		return false
	}
	if target.TeamID == nil {
		return false
	}
	for _, teamID := range supervisorTeamIDs(viewer.ID) {
		if teamID == *target.TeamID {
			return true
		}
	}
	return false
}

func containsTeam(teamIDs []uint, id uint) bool {
	for _, t := range teamIDs {
		if t == id {
			return true
		}
	}
	return false
}

// List serves the summary read surface: a user's rows over a date range,
// ordered by date, optionally narrowed by category.
func (h *SummaryHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	targetUserID := user.ID
	if id, ok := parseID(r, "user_id"); ok {
		if !canViewSummariesFor(user, id) {
			writeError(w, http.StatusForbidden, "Forbidden")
			return
		}
		targetUserID = id
	}

	from, err := time.Parse("2006-01-02", r.URL.Query().Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from date")
		return
	}
	to, err := time.Parse("2006-01-02", r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid to date")
		return
	}

	var category *models.Category
	if catStr := r.URL.Query().Get("category"); catStr != "" {
		cat := models.Category(catStr)
		if !cat.Valid() {
			writeError(w, http.StatusBadRequest, "Invalid category")
			return
		}
		category = &cat
	}

	rows, err := summary.Range(database.GetDB(), targetUserID, from, to, category)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load summaries")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// ExportCSV streams one month of summary rows as CSV. Admins and HR export
// everything; supervisors export only their assigned teams.
func (h *SummaryHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var scopedTeamIDs []uint
	if !user.CanExport() {
		if !user.IsSupervisor() {
			writeError(w, http.StatusForbidden, "Forbidden")
			return
		}
		scopedTeamIDs = supervisorTeamIDs(user.ID)
		if len(scopedTeamIDs) == 0 {
			writeError(w, http.StatusForbidden, "No teams assigned")
			return
		}
	}

	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "Invalid month")
		return
	}
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year < 2000 || year > 2100 {
		writeError(w, http.StatusBadRequest, "Invalid year")
		return
	}

	startDate := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	endDate := startDate.AddDate(0, 1, 0)

	query := database.GetDB().
		Where("daily_hour_summaries.date >= ? AND daily_hour_summaries.date < ?", startDate, endDate)

	teamID, hasTeamFilter := parseID(r, "team_id")
	if hasTeamFilter || scopedTeamIDs != nil {
		query = query.Joins("JOIN users ON users.id = daily_hour_summaries.user_id")
	}
	if hasTeamFilter {
		if scopedTeamIDs != nil && !containsTeam(scopedTeamIDs, teamID) {
			writeError(w, http.StatusForbidden, "Forbidden")
			return
		}
		query = query.Where("users.team_id = ?", teamID)
	} else if scopedTeamIDs != nil {
		query = query.Where("users.team_id IN ?", scopedTeamIDs)
	}

	var rows []models.DailyHourSummary
	query.Order("daily_hour_summaries.date asc, daily_hour_summaries.user_id asc").Find(&rows)

	userNames := make(map[uint]string)
	var users []models.User
	database.GetDB().Find(&users)
	for _, u := range users {
		userNames[u.ID] = u.DisplayName()
	}

	filename := fmt.Sprintf("summary_%d_%02d.csv", year, month)
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	writer := csv.NewWriter(w)
	defer writer.Flush()

	writer.Write([]string{"Employee", "Date", "Category", "Manual Hours", "Tracked Hours", "Total Hours"})
	for _, row := range rows {
		writer.Write([]string{
			userNames[row.UserID],
			row.Date.Format("2006-01-02"),
			string(row.Category),
			row.ManualHours.StringFixed(2),
			row.TrackedHours.StringFixed(2),
			row.TotalHours.StringFixed(2),
		})
	}
}

// Rebuild is the operator-invoked full rebuild of the summary table.
func (h *SummaryHandler) Rebuild(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if !user.CanRebuildSummaries() {
		writeError(w, http.StatusForbidden, "Forbidden")
		return
	}

	report, err := summary.RebuildAll(database.GetDB())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Rebuild failed")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *SummaryHandler) Sweep(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if !user.CanRebuildSummaries() {
		writeError(w, http.StatusForbidden, "Forbidden")
		return
	}

	removed, err := summary.SweepZeroRows(database.GetDB())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Sweep failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"removed": removed})
}
