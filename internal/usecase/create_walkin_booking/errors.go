package create_walkin_booking

import "errors"

var (
	// ErrSlotNotFound возвращается, когда парковочное место не найдено
	ErrSlotNotFound = errors.New("create_walkin_booking: slot not found")

	// ErrSlotUnderMaintenance возвращается, когда место выведено на обслуживание
	ErrSlotUnderMaintenance = errors.New("create_walkin_booking: slot is under maintenance")

	// ErrSlotNotAvailable возвращается, когда интервал пересекается с существующей бронью
	ErrSlotNotAvailable = errors.New("create_walkin_booking: slot is not available for this interval")

	// ErrUserNotFound возвращается, когда пользователь не найден
	ErrUserNotFound = errors.New("create_walkin_booking: user not found")

	// ErrAccessDenied возвращается, когда пользователь не является оператором этой локации
	ErrAccessDenied = errors.New("create_walkin_booking: access denied")

	// ErrInvalidDuration возвращается при недопустимой длительности брони
	ErrInvalidDuration = errors.New("create_walkin_booking: invalid booking duration")

	// ErrInvalidPaymentMethod возвращается, когда способ оплаты не подходит для оплаты на месте
	ErrInvalidPaymentMethod = errors.New("create_walkin_booking: payment method is not collectable on site")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_walkin_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_walkin_booking: internal error")
)
