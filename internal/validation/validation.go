package validation

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/iudanet/tasktrack/pkg/api"
)

// ErrInvalid - базовая ошибка валидации. Такие ошибки ловятся до сетевого
// вызова и никогда не уходят на сервер.
var ErrInvalid = errors.New("validation failed")

const (
	// MinPasswordLen минимальная длина пароля при регистрации и смене пароля
	MinPasswordLen = 8
)

// invalid оборачивает сообщение в ErrInvalid
func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// required проверяет, что строковое поле заполнено
func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return invalid("%s is required", field)
	}
	return nil
}

// ValidateEmail проверяет формат email
func ValidateEmail(email string) error {
	if err := required("email", email); err != nil {
		return err
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return invalid("email %q is not a valid address", email)
	}
	return nil
}

// ValidateLogin проверяет форму входа: все поля должны быть заполнены
func ValidateLogin(req api.LoginRequest) error {
	if req.Email == "" || req.Password == "" {
		return invalid("please fill in all fields")
	}
	return ValidateEmail(req.Email)
}

// ValidatePassword проверяет минимальные требования к новому паролю
func ValidatePassword(password string) error {
	if password == "" {
		return invalid("password cannot be empty")
	}
	if len(password) < MinPasswordLen {
		return invalid("password must be at least %d characters long", MinPasswordLen)
	}
	return nil
}

// ValidateRegister проверяет форму регистрации
func ValidateRegister(req api.RegisterRequest) error {
	if err := required("first name", req.FirstName); err != nil {
		return err
	}
	if err := required("last name", req.LastName); err != nil {
		return err
	}
	if err := ValidateEmail(req.Email); err != nil {
		return err
	}
	if err := ValidatePassword(req.Password); err != nil {
		return err
	}
	if req.Password != req.ConfirmPassword {
		return invalid("passwords do not match")
	}
	return nil
}

// ValidateChangePassword проверяет форму смены пароля
func ValidateChangePassword(req api.ChangePasswordRequest) error {
	if err := required("current password", req.CurrentPassword); err != nil {
		return err
	}
	if err := ValidatePassword(req.NewPassword); err != nil {
		return err
	}
	if req.CurrentPassword == req.NewPassword {
		return invalid("new password must differ from the current one")
	}
	return nil
}

// ValidateDueDate принимает дату в формате YYYY-MM-DD или RFC3339
func ValidateDueDate(dueDate string) error {
	if err := required("due date", dueDate); err != nil {
		return err
	}
	if _, err := time.Parse(time.DateOnly, dueDate); err == nil {
		return nil
	}
	if _, err := time.Parse(time.RFC3339, dueDate); err == nil {
		return nil
	}
	return invalid("due date %q must be YYYY-MM-DD or RFC3339", dueDate)
}

// ValidateCreateTask проверяет обязательные поля новой задачи
func ValidateCreateTask(req api.CreateTaskRequest) error {
	if err := required("title", req.Title); err != nil {
		return err
	}
	if err := required("description", req.Description); err != nil {
		return err
	}
	if err := required("group", req.GroupID); err != nil {
		return err
	}
	if !req.Priority.Valid() {
		return invalid("priority must be one of low, medium, high")
	}
	if req.EstimatedTime <= 0 {
		return invalid("estimated time must be a positive number of minutes")
	}
	return ValidateDueDate(req.DueDate)
}

// ValidateUpdateTask проверяет только переданные поля
func ValidateUpdateTask(req api.UpdateTaskRequest) error {
	if req.Title != nil {
		if err := required("title", *req.Title); err != nil {
			return err
		}
	}
	if req.Priority != nil && !req.Priority.Valid() {
		return invalid("priority must be one of low, medium, high")
	}
	if req.Status != nil && !req.Status.Valid() {
		return invalid("status must be one of pending, in-progress, completed")
	}
	if req.EstimatedTime != nil && *req.EstimatedTime <= 0 {
		return invalid("estimated time must be a positive number of minutes")
	}
	if req.DueDate != nil {
		return ValidateDueDate(*req.DueDate)
	}
	return nil
}

// ValidateCreateGroup проверяет обязательные поля новой группы
func ValidateCreateGroup(req api.CreateGroupRequest) error {
	if err := required("name", req.Name); err != nil {
		return err
	}
	return required("description", req.Description)
}

// ValidateUpdateGroup проверяет только переданные поля
func ValidateUpdateGroup(req api.UpdateGroupRequest) error {
	if req.Name != nil {
		return required("name", *req.Name)
	}
	return nil
}

// ValidateID проверяет, что идентификатор сущности не пустой
func ValidateID(field, id string) error {
	return required(field, id)
}
