package database

import (
	"github.com/yeremiapane/personnel-api/models"
	"github.com/yeremiapane/personnel-api/utils"
	"gorm.io/gorm"
)

// Models lists every table in dependency order.
var Models = []interface{}{
	&models.Department{},
	&models.User{},
	&models.Task{},
	&models.Notification{},
}

func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models...); err != nil {
		return err
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
	return nil
}
