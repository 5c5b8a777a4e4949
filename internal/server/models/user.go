package models

import "time"

type User struct {
	ID         string
	Name       string
	Email      string
	PassHash   string
	UserType   string
	IsActive   bool
	CreatedAt  time.Time
	City       string
	Country    string
	TelegramID string
}
