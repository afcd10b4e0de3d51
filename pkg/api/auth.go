package api

import "time"

// User представляет профиль пользователя
type User struct {
	JoinedAt           *time.Time `json:"joinedAt,omitempty"`
	LastActive         *time.Time `json:"lastActive,omitempty"`
	ID                 string     `json:"_id"`
	FirstName          string     `json:"firstName"`
	LastName           string     `json:"lastName"`
	Email              string     `json:"email"`
	Bio                string     `json:"bio,omitempty"`
	Avatar             string     `json:"avatar,omitempty"`
	Groups             []string   `json:"groups"`
	TasksCompleted     int        `json:"tasksCompleted,omitempty"`
	TaskCompletionRate float64    `json:"taskCompletionRate,omitempty"`
	TotalTimeSpent     float64    `json:"totalTimeSpent,omitempty"` // в минутах
}

// FullName возвращает имя и фамилию пользователя
func (u *User) FullName() string {
	if u == nil {
		return ""
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Tokens представляет пару токенов доступа
type Tokens struct {
	AccessToken  string `json:"accessToken"`  // короткоживущий access token
	RefreshToken string `json:"refreshToken"` // долгоживущий refresh token
}

// LoginRequest представляет запрос на аутентификацию
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest представляет запрос на регистрацию нового пользователя
type RegisterRequest struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// AuthData представляет data-часть ответа на login/register
type AuthData struct {
	User   User   `json:"user"`
	Tokens Tokens `json:"tokens"`
}

// RefreshRequest представляет запрос на обновление access token
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// RefreshData представляет data-часть ответа на refresh-token
type RefreshData struct {
	AccessToken string `json:"accessToken"`
}

// ChangePasswordRequest представляет запрос на смену пароля
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// UpdateProfileRequest представляет частичное обновление профиля
type UpdateProfileRequest struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Bio       *string `json:"bio,omitempty"`
	Avatar    *string `json:"avatar,omitempty"`
}
