package scope

import "gorm.io/gorm"

func OrderByCreatedDesc(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC")
}

// OrderBySortOrder is the display order for landing content. created_at
// breaks ties so equal sort orders stay stable.
func OrderBySortOrder(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC").Order("created_at ASC")
}

// OrderByPublishedDesc lists newest posts first, drafts last.
func OrderByPublishedDesc(db *gorm.DB) *gorm.DB {
	return db.Order("published_at DESC NULLS LAST").Order("created_at DESC")
}
