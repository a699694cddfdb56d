package settle_overstay

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("settle_overstay: booking not found")

	// ErrUserNotFound возвращается, когда пользователь не найден
	ErrUserNotFound = errors.New("settle_overstay: user not found")

	// ErrAccessDenied возвращается, когда пользователь не является оператором локации брони
	ErrAccessDenied = errors.New("settle_overstay: access denied")

	// ErrSessionNotActive возвращается, когда сессия завершена или отменена:
	// расчет превышения от текущего момента для нее уже не имеет смысла
	ErrSessionNotActive = errors.New("settle_overstay: parking session is not active")

	// ErrNoOverstay возвращается, когда превышения нет или оно в пределах льготного периода
	ErrNoOverstay = errors.New("settle_overstay: no billable overstay")

	// ErrAlreadySettled возвращается, когда превышение по этой брони уже оплачено
	ErrAlreadySettled = errors.New("settle_overstay: overstay is already settled")

	// ErrInvalidPaymentMethod возвращается, когда способ оплаты не подходит для оплаты на месте
	ErrInvalidPaymentMethod = errors.New("settle_overstay: payment method is not collectable on site")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("settle_overstay: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("settle_overstay: internal error")
)
