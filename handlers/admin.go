package handlers

import (
	"net/http"
	"strconv"

	"timeledger/config"
	"timeledger/database"
	"timeledger/middleware"
	"timeledger/models"
)

type AdminHandler struct {
	config *config.Config
}

func NewAdminHandler(cfg *config.Config) *AdminHandler {
	return &AdminHandler{config: cfg}
}

func parseID(r *http.Request, param string) (uint, bool) {
	idStr := r.URL.Query().Get(param)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	var users []models.User
	database.GetDB().Preload("Team").Preload("Project").Order("username asc").Find(&users)
	writeJSON(w, http.StatusOK, users)
}

func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var user models.User
	if err := database.GetDB().First(&user, id).Error; err != nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	var req struct {
		FullName  *string      `json:"full_name"`
		Role      *models.Role `json:"role"`
		TeamID    *uint        `json:"team_id"`
		ProjectID *uint        `json:"project_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Role != nil {
		switch *req.Role {
		case models.RoleAdmin, models.RoleHR, models.RoleSupervisor, models.RoleEmployee:
			user.Role = *req.Role
		default:
			writeError(w, http.StatusBadRequest, "Invalid role")
			return
		}
	}
	if req.TeamID != nil {
		user.TeamID = req.TeamID
	}
	if req.ProjectID != nil {
		user.ProjectID = req.ProjectID
	}

	if err := database.GetDB().Save(&user).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update user")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	id, ok := parseID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}
	if id == user.ID {
		writeError(w, http.StatusBadRequest, "Cannot delete your own account")
		return
	}

	if err := database.GetDB().Delete(&models.User{}, id).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete user")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *AdminHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	var teams []models.Team
	database.GetDB().Order("name asc").Find(&teams)
	writeJSON(w, http.StatusOK, teams)
}

func (h *AdminHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Team name is required")
		return
	}

	team := models.Team{Name: req.Name}
	if err := database.GetDB().Create(&team).Error; err != nil {
		writeError(w, http.StatusConflict, "Failed to create team")
		return
	}
	writeJSON(w, http.StatusCreated, team)
}

func (h *AdminHandler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid team ID")
		return
	}
	if err := database.GetDB().Delete(&models.Team{}, id).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete team")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *AdminHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	var projects []models.Project
	database.GetDB().Order("name asc").Find(&projects)
	writeJSON(w, http.StatusOK, projects)
}

func (h *AdminHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Project name is required")
		return
	}

	project := models.Project{Name: req.Name}
	if err := database.GetDB().Create(&project).Error; err != nil {
		writeError(w, http.StatusConflict, "Failed to create project")
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

func (h *AdminHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid project ID")
		return
	}
	if err := database.GetDB().Delete(&models.Project{}, id).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete project")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// AssignSupervisor gives a supervisor visibility into a team's summaries.
func (h *AdminHandler) AssignSupervisor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID uint `json:"user_id"`
		TeamID uint `json:"team_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	var supervisor models.User
	if err := database.GetDB().First(&supervisor, req.UserID).Error; err != nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if !supervisor.IsSupervisor() {
		writeError(w, http.StatusBadRequest, "User is not a supervisor")
		return
	}

	var existingCount int64
	database.GetDB().Model(&models.TeamSupervisor{}).
		Where("user_id = ? AND team_id = ?", req.UserID, req.TeamID).
		Count(&existingCount)
	if existingCount > 0 {
		writeError(w, http.StatusConflict, "Assignment already exists")
		return
	}

	assignment := models.TeamSupervisor{
		UserID: req.UserID,
		TeamID: req.TeamID,
	}
	if err := database.GetDB().Create(&assignment).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create assignment")
		return
	}
	writeJSON(w, http.StatusCreated, assignment)
}

func (h *AdminHandler) RemoveSupervisorAssignment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid assignment ID")
		return
	}
	if err := database.GetDB().Delete(&models.TeamSupervisor{}, id).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to remove assignment")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
