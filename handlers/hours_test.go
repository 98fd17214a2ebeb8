package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"timeledger/config"
	"timeledger/database"
	"timeledger/middleware"
	"timeledger/models"
	"timeledger/summary"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTest(t *testing.T) *config.Config {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "timeledger.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	prev := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = prev })

	return config.Load()
}

func createUser(t *testing.T, role models.Role) *models.User {
	t.Helper()
	user := &models.User{
		Username:     fmt.Sprintf("user-%s-%d", role, time.Now().UnixNano()),
		FullName:     "Test User",
		PasswordHash: "x",
		Role:         role,
	}
	if err := database.GetDB().Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func doJSON(t *testing.T, handler http.HandlerFunc, user *models.User, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req = req.WithContext(context.WithValue(req.Context(), middleware.UserContextKey, user))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func summaryRow(t *testing.T, userID uint, date string, category models.Category) *models.DailyHourSummary {
	t.Helper()
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		t.Fatal(err)
	}
	var row models.DailyHourSummary
	dbErr := database.GetDB().
		Where("user_id = ? AND date = ? AND category = ?", userID, summary.DayOf(d), category).
		First(&row).Error
	if errors.Is(dbErr, gorm.ErrRecordNotFound) {
		return nil
	}
	if dbErr != nil {
		t.Fatalf("fetch summary row: %v", dbErr)
	}
	return &row
}

// Creating, moving and deleting an hour entry keeps the summary table in
// step at every point, including clearing the old key on a move.
func TestHoursLifecycleReconcilesSummaries(t *testing.T) {
	cfg := setupTest(t)
	h := NewHoursHandler(cfg)
	user := createUser(t, models.RoleEmployee)

	rec := doJSON(t, h.Create, user, http.MethodPost, "/hours", map[string]interface{}{
		"date":     "2025-06-02",
		"category": "ORDINARY_WORK",
		"hours":    8,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	var entry models.HourEntry
	if err := json.Unmarshal(rec.Body.Bytes(), &entry); err != nil {
		t.Fatal(err)
	}

	row := summaryRow(t, user.ID, "2025-06-02", models.CategoryOrdinaryWork)
	if row == nil {
		t.Fatal("expected summary row after create")
	}
	if row.TotalHours.String() != "8" {
		t.Fatalf("total = %s, want 8", row.TotalHours)
	}

	// Move the entry to another category: old key must clear
	rec = doJSON(t, h.Update, user, http.MethodPost,
		fmt.Sprintf("/hours/update?id=%d", entry.ID), map[string]interface{}{
			"category": "REMOTE_WORK",
		})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", rec.Code, rec.Body.String())
	}
	if summaryRow(t, user.ID, "2025-06-02", models.CategoryOrdinaryWork) != nil {
		t.Fatal("stale ORDINARY_WORK row after category move")
	}
	if summaryRow(t, user.ID, "2025-06-02", models.CategoryRemoteWork) == nil {
		t.Fatal("expected REMOTE_WORK row after category move")
	}

	rec = doJSON(t, h.Delete, user, http.MethodPost,
		fmt.Sprintf("/hours/delete?id=%d", entry.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d, body %s", rec.Code, rec.Body.String())
	}
	if summaryRow(t, user.ID, "2025-06-02", models.CategoryRemoteWork) != nil {
		t.Fatal("summary row survived entry deletion")
	}
}

func TestHoursCreateValidation(t *testing.T) {
	cfg := setupTest(t)
	h := NewHoursHandler(cfg)
	user := createUser(t, models.RoleEmployee)

	cases := []map[string]interface{}{
		{"date": "not-a-date", "category": "ORDINARY_WORK", "hours": 8},
		{"date": "2025-06-02", "category": "NOT_A_CATEGORY", "hours": 8},
		{"date": "2025-06-02", "category": "ORDINARY_WORK", "hours": 0},
		{"date": "2025-06-02", "category": "ORDINARY_WORK", "hours": 25},
	}
	for i, body := range cases {
		rec := doJSON(t, h.Create, user, http.MethodPost, "/hours", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("case %d: status = %d, want 400", i, rec.Code)
		}
	}
}

func TestHoursCreateForbiddenForOtherUser(t *testing.T) {
	cfg := setupTest(t)
	h := NewHoursHandler(cfg)
	employee := createUser(t, models.RoleEmployee)
	other := createUser(t, models.RoleEmployee)

	// Non-admins cannot log hours for someone else; user_id is ignored
	// and the entry lands on the caller.
	rec := doJSON(t, h.Create, employee, http.MethodPost, "/hours", map[string]interface{}{
		"date":     "2025-06-02",
		"category": "ORDINARY_WORK",
		"hours":    4,
		"user_id":  other.ID,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}
	var entry models.HourEntry
	if err := json.Unmarshal(rec.Body.Bytes(), &entry); err != nil {
		t.Fatal(err)
	}
	if entry.UserID != employee.ID {
		t.Fatalf("entry landed on user %d, want caller %d", entry.UserID, employee.ID)
	}
}
