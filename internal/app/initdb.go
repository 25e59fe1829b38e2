package app

import (
	"errors"
	"time"

	"github.com/openshelf/catalogd/internal/auth"
	"github.com/openshelf/catalogd/internal/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// checkSuper seeds the default administrator account when missing.
func (a *Application) checkSuper() {
	const superUsername = "admin"
	const defaultPassword = "admin123"

	var operator domain.SysOpr
	err := a.gormDB.Where("username = ?", superUsername).First(&operator).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		hashed, err := auth.HashPassword(defaultPassword)
		if err != nil {
			zap.L().Error("failed to hash default admin password", zap.Error(err))
			return
		}
		if err := a.gormDB.Create(&domain.SysOpr{
			Realname:  "administrator",
			Email:     "N/A",
			Username:  superUsername,
			Password:  hashed,
			Level:     "super",
			Status:    "enabled",
			Remark:    "super",
			LastLogin: time.Now(),
		}).Error; err != nil {
			zap.L().Error("failed to create default super admin", zap.Error(err))
		} else {
			zap.L().Info("initialized default super admin account", zap.String("username", superUsername))
		}
	case err != nil:
		zap.L().Error("failed to query super admin", zap.Error(err))
	}
}
