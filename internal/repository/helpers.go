package repository

import (
	"gorm.io/gorm"
)

func findByID[T any](db *gorm.DB, id string, lock bool) (*T, error) {
	var out T
	if lock {
		db = forUpdate(db)
	}
	if err := db.Where("id = ?", id).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// deleteByID 删除一行，未命中时返回 gorm.ErrRecordNotFound。
func deleteByID[T any](db *gorm.DB, id string) error {
	var m T
	res := db.Where("id = ?", id).Delete(&m)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func exists(db *gorm.DB, m interface{}, query string, args ...interface{}) (bool, error) {
	var n int64
	if err := db.Model(m).Where(query, args...).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// countIDs 返回 ids 中在表里实际存在的数量（ids 需已去重）。
func countIDs(db *gorm.DB, m interface{}, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var n int64
	err := db.Model(m).Where("id IN ?", ids).Count(&n).Error
	return n, err
}
