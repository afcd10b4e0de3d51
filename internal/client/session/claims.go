package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims - поля access token, которые клиент показывает пользователю.
// Подпись не проверяется: это делает сервер, клиенту нужен только срок жизни.
type Claims struct {
	ExpiresAt time.Time
	IssuedAt  time.Time
	Subject   string
	Email     string
}

// Expired сообщает, истек ли токен к моменту now
func (c *Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// accessClaims повторяет формат claims TaskTrack API
type accessClaims struct {
	UserID string `json:"userId,omitempty"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// ParseClaims разбирает JWT без проверки подписи
func ParseClaims(token string) (*Claims, error) {
	var ac accessClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &ac); err != nil {
		return nil, fmt.Errorf("failed to parse access token: %w", err)
	}

	c := &Claims{
		Subject: ac.Subject,
		Email:   ac.Email,
	}
	if c.Subject == "" {
		c.Subject = ac.UserID
	}
	if ac.ExpiresAt != nil {
		c.ExpiresAt = ac.ExpiresAt.Time
	}
	if ac.IssuedAt != nil {
		c.IssuedAt = ac.IssuedAt.Time
	}
	return c, nil
}
