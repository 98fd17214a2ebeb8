package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"timeledger/database"
	"timeledger/models"
	"timeledger/summary"

	"gorm.io/gorm"
)

func createTeam(t *testing.T, name string) *models.Team {
	t.Helper()
	team := &models.Team{Name: name}
	if err := database.GetDB().Create(team).Error; err != nil {
		t.Fatalf("create team: %v", err)
	}
	return team
}

func assignToTeam(t *testing.T, user *models.User, team *models.Team) {
	t.Helper()
	user.TeamID = &team.ID
	if err := database.GetDB().Save(user).Error; err != nil {
		t.Fatalf("assign user to team: %v", err)
	}
}

func addSummaryRow(t *testing.T, userID uint, date string, hours float64) {
	t.Helper()
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		t.Fatal(err)
	}
	entry := &models.HourEntry{
		UserID:   userID,
		Date:     summary.DayOf(d),
		Category: models.CategoryOrdinaryWork,
		Hours:    hours,
	}
	if terr := database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entry).Error; err != nil {
			return err
		}
		return summary.Recalculate(tx, userID, entry.Date, entry.Category)
	}); terr != nil {
		t.Fatalf("seed hour entry: %v", terr)
	}
}

// A supervisor can read summaries for users in their assigned teams and
// nobody else's.
func TestSummaryListSupervisorScope(t *testing.T) {
	cfg := setupTest(t)
	h := NewSummaryHandler(cfg)

	teamA := createTeam(t, "Alpha")
	teamB := createTeam(t, "Beta")

	inScope := createUser(t, models.RoleEmployee)
	assignToTeam(t, inScope, teamA)
	outOfScope := createUser(t, models.RoleEmployee)
	assignToTeam(t, outOfScope, teamB)

	supervisor := createUser(t, models.RoleSupervisor)
	if err := database.GetDB().Create(&models.TeamSupervisor{
		UserID: supervisor.ID,
		TeamID: teamA.ID,
	}).Error; err != nil {
		t.Fatalf("create supervisor assignment: %v", err)
	}

	addSummaryRow(t, inScope.ID, "2025-06-02", 8)

	target := fmt.Sprintf("/summary?user_id=%d&from=2025-06-01&to=2025-06-30", inScope.ID)
	rec := doJSON(t, h.List, supervisor, http.MethodGet, target, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("in-scope list status = %d, body %s", rec.Code, rec.Body.String())
	}
	var rows []models.DailyHourSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}

	target = fmt.Sprintf("/summary?user_id=%d&from=2025-06-01&to=2025-06-30", outOfScope.ID)
	rec = doJSON(t, h.List, supervisor, http.MethodGet, target, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("out-of-scope list status = %d, want 403", rec.Code)
	}

	// An unassigned employee still cannot read anyone else's summaries.
	rec = doJSON(t, h.List, outOfScope, http.MethodGet,
		fmt.Sprintf("/summary?user_id=%d&from=2025-06-01&to=2025-06-30", inScope.ID), nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("employee cross-read status = %d, want 403", rec.Code)
	}
}

// Supervisor exports are limited to assigned teams: the CSV carries only
// their teams' rows, and asking for another team is refused outright.
func TestSummaryExportSupervisorScope(t *testing.T) {
	cfg := setupTest(t)
	h := NewSummaryHandler(cfg)

	teamA := createTeam(t, "Alpha")
	teamB := createTeam(t, "Beta")

	inScope := createUser(t, models.RoleEmployee)
	inScope.FullName = "In Scope"
	assignToTeam(t, inScope, teamA)
	outOfScope := createUser(t, models.RoleEmployee)
	outOfScope.FullName = "Out Of Scope"
	assignToTeam(t, outOfScope, teamB)

	supervisor := createUser(t, models.RoleSupervisor)
	if err := database.GetDB().Create(&models.TeamSupervisor{
		UserID: supervisor.ID,
		TeamID: teamA.ID,
	}).Error; err != nil {
		t.Fatalf("create supervisor assignment: %v", err)
	}

	addSummaryRow(t, inScope.ID, "2025-06-02", 8)
	addSummaryRow(t, outOfScope.ID, "2025-06-02", 6)

	rec := doJSON(t, h.ExportCSV, supervisor, http.MethodGet, "/summary/export?month=6&year=2025", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d, body %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, "In Scope") {
		t.Fatalf("export missing assigned team's rows:\n%s", body)
	}
	if strings.Contains(body, "Out Of Scope") {
		t.Fatalf("export leaked another team's rows:\n%s", body)
	}

	rec = doJSON(t, h.ExportCSV, supervisor, http.MethodGet,
		fmt.Sprintf("/summary/export?month=6&year=2025&team_id=%d", teamB.ID), nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("foreign team export status = %d, want 403", rec.Code)
	}

	// A supervisor with no assignments has nothing to export.
	idle := createUser(t, models.RoleSupervisor)
	rec = doJSON(t, h.ExportCSV, idle, http.MethodGet, "/summary/export?month=6&year=2025", nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("unassigned supervisor export status = %d, want 403", rec.Code)
	}
}
