package models

// Category classifies what a block of hours was spent on. Manual entries
// carry their own category; tracked time inherits the day's resolved
// category (see the summary package).
type Category string

const (
	CategoryOrdinaryWork Category = "ORDINARY_WORK"
	CategoryVacation     Category = "VACATION"
	CategorySickLeave    Category = "SICK_LEAVE"
	CategoryRemoteWork   Category = "REMOTE_WORK"
	CategoryOther        Category = "OTHER"
)

func Categories() []Category {
	return []Category{
		CategoryOrdinaryWork,
		CategoryVacation,
		CategorySickLeave,
		CategoryRemoteWork,
		CategoryOther,
	}
}

func (c Category) Valid() bool {
	switch c {
	case CategoryOrdinaryWork, CategoryVacation, CategorySickLeave, CategoryRemoteWork, CategoryOther:
		return true
	}
	return false
}
