package caja

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"vetify-crm/models"
)

type OpenDrawerInput struct {
	InitialAmount decimal.Decimal
	OpenedByID    *uint
}

// OpenDrawer crea la sesión de caja de la jornada con su fondo inicial.
func (s *Service) OpenDrawer(in OpenDrawerInput) (*models.Drawer, error) {
	if err := validateAmount(in.InitialAmount); err != nil {
		return nil, err
	}

	drawer := models.Drawer{
		Status:        models.DrawerOpen,
		OpenedAt:      time.Now(),
		InitialAmount: in.InitialAmount,
		OpenedByID:    in.OpenedByID,
	}
	if err := s.db.Create(&drawer).Error; err != nil {
		return nil, err
	}
	return &drawer, nil
}

// CloseDrawer cierra la sesión de caja. Política explícita: si la caja tiene
// un turno ACTIVE el cierre se bloquea; primero hay que cerrar o entregar el
// turno. Nunca forzamos el fin de un turno desde aquí.
func (s *Service) CloseDrawer(drawerID uint) (*models.Drawer, error) {
	var drawer models.Drawer
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&drawer, drawerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "caja", ID: drawerID}
			}
			return err
		}
		if drawer.Status != models.DrawerOpen {
			return &StateError{Message: "la caja ya está cerrada"}
		}

		var active int64
		if err := tx.Model(&models.Shift{}).
			Where("drawer_id = ? AND status = ?", drawerID, models.ShiftActive).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return &StateError{Message: "la caja tiene un turno activo; ciérralo o entrégalo antes de cerrar la caja"}
		}

		now := time.Now()
		res := tx.Model(&models.Drawer{}).
			Where("id = ? AND status = ?", drawerID, models.DrawerOpen).
			Updates(map[string]interface{}{"status": models.DrawerClosed, "closed_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &StateError{Message: "la caja ya está cerrada"}
		}
		drawer.Status = models.DrawerClosed
		drawer.ClosedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &drawer, nil
}

// GetDrawer devuelve la caja con su turno activo (si lo hay) precargado.
func (s *Service) GetDrawer(drawerID uint) (*models.Drawer, *models.Shift, error) {
	var drawer models.Drawer
	if err := s.db.Preload("OpenedBy").First(&drawer, drawerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, &NotFoundError{Entity: "caja", ID: drawerID}
		}
		return nil, nil, err
	}

	var active models.Shift
	err := s.db.Preload("Cashier").
		Where("drawer_id = ? AND status = ?", drawerID, models.ShiftActive).
		First(&active).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &drawer, nil, nil
		}
		return nil, nil, err
	}
	return &drawer, &active, nil
}
