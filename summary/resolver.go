package summary

import (
	"errors"
	"time"

	"timeledger/models"

	"gorm.io/gorm"
)

// ResolveCategory determines which category hours on the given day belong
// to for the user. Approved, non-cancelled requests with AffectsHourType
// that cover the day override the default; when several overlap, the most
// recently approved one wins, with the higher request ID breaking an
// exact approved_at tie. With no qualifying request the day is ordinary
// work.
func ResolveCategory(db *gorm.DB, userID uint, day time.Time) (models.Category, error) {
	day = DayOf(day)

	var req models.Request
	err := db.
		Where("user_id = ? AND status = ? AND affects_hour_type = ? AND cancelled_at IS NULL", userID, models.RequestApproved, true).
		Where("start_date <= ? AND end_date >= ?", day, day).
		Order("approved_at DESC, id DESC").
		First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.CategoryOrdinaryWork, nil
	}
	if err != nil {
		return "", err
	}
	return req.Category(), nil
}

type userDay struct {
	userID uint
	day    time.Time
}

// resolverCache memoizes ResolveCategory per (user, day) within one bulk
// operation, where the same day is resolved for several categories or
// candidates in a row.
type resolverCache struct {
	db         *gorm.DB
	categories map[userDay]models.Category
}

func newResolverCache(db *gorm.DB) *resolverCache {
	return &resolverCache{
		db:         db,
		categories: make(map[userDay]models.Category),
	}
}

func (c *resolverCache) resolve(userID uint, day time.Time) (models.Category, error) {
	key := userDay{userID: userID, day: DayOf(day)}
	if cat, ok := c.categories[key]; ok {
		return cat, nil
	}
	cat, err := ResolveCategory(c.db, key.userID, key.day)
	if err != nil {
		return "", err
	}
	c.categories[key] = cat
	return cat, nil
}
