package ownership

import "gorm.io/gorm"

// Scope restricts a query to rows owned by the given user. Every salary,
// overtime and leave row carries a user_id owner column.
func Scope(userID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
}
