package database

import (
	"errors"

	"gorm.io/gorm"
)

type ApplicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) Create(a *Application) error {
	return r.db.Create(a).Error
}

func (r *ApplicationRepository) GetByID(id uint) (*Application, error) {
	var app Application
	if err := r.db.First(&app, id).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepository) List(limit, offset int) ([]Application, error) {
	var apps []Application
	if err := r.db.Order("id DESC").Limit(limit).Offset(offset).Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// NextPending возвращает самую старую ожидающую попытку.
// Пустая очередь — nil без ошибки.
func (r *ApplicationRepository) NextPending() (*Application, error) {
	var app Application
	err := r.db.Where("status = ?", StatusPending).Order("id").First(&app).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// MarkRunning закрепляет попытку за воркером.
func (r *ApplicationRepository) MarkRunning(id uint, workerID string) error {
	return r.db.Model(&Application{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":    StatusRunning,
			"worker_id": workerID,
		}).Error
}

// Finish записывает итог попытки: статус, портал, факт отправки,
// вопросы с ответами и текст ошибки, если она была.
func (r *ApplicationRepository) Finish(id uint, status, portal string, submitted bool, questions, errMsg string) error {
	return r.db.Model(&Application{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":    status,
			"portal":    portal,
			"submitted": submitted,
			"questions": questions,
			"error":     errMsg,
		}).Error
}
