// Package database предоставляет модели данных и репозиторий для работы с PostgreSQL.
// Использует GORM ORM с prepared statements для защиты от SQL injection.
package database

import "time"

// Статусы попытки подачи заявки.
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Application представляет одну попытку подачи заявки на вакансию.
// Строку создаёт постановщик задач, воркер забирает pending-записи.
type Application struct {
	ID       uint   `gorm:"primaryKey"`
	WorkerID string `gorm:"type:varchar(64);index"` // Воркер, взявший попытку
	JobURL   string `gorm:"type:text;not null"`     // URL вакансии
	Portal   string `gorm:"type:varchar(32)"`       // Определённый портал (lever, greenhouse, ...)
	Status   string `gorm:"type:varchar(32);not null;default:'pending';index"`

	Profile        string `gorm:"type:jsonb"` // Сырой профиль пользователя
	JobDescription string `gorm:"type:text"`  // Описание вакансии для AI-ответов
	Submit         bool   // Отправлять ли форму после заполнения

	Submitted bool      // Форма реально отправлена
	Questions string    `gorm:"type:jsonb"` // Вопросы формы с ответами
	Error     string    `gorm:"type:text"`  // Текст ошибки попытки
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
