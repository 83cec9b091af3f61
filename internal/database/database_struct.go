package database

import "gorm.io/gorm"

type Database struct {
	db *gorm.DB
}

func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}

// DB exposes the underlying handle for health checks and fixtures.
func (d *Database) DB() *gorm.DB {
	return d.db
}
