package userservice

// Role роль пользователя в системе
type Role string

const (
	RoleCustomer  Role = "customer"
	RoleAttendant Role = "attendant"
)

// User модель пользователя из UserService
type User struct {
	ID         int64   `json:"id"`
	Phone      string  `json:"phone"`
	Name       string  `json:"name"`
	Role       Role    `json:"role"`
	LocationID *int64  `json:"location_id,omitempty"` // Назначенная локация (только у операторов)
	Email      *string `json:"email,omitempty"`
}

// IsAttendant возвращает true для операторов парковки
func (u *User) IsAttendant() bool {
	return u.Role == RoleAttendant
}

// AssignedTo проверяет, закреплен ли оператор за локацией
func (u *User) AssignedTo(locationID int64) bool {
	return u.LocationID != nil && *u.LocationID == locationID
}

// ErrorResponse модель ошибки от UserService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type getOrCreateRequest struct {
	Phone string `json:"phone"`
}
