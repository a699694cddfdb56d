package create_walkin_booking

import "time"

// Request модель запроса на создание брони оператором для подъехавшего клиента
type Request struct {
	AttendantUserID int64  // ID оператора, оформляющего бронь
	SlotID          int64  // ID парковочного места
	CustomerPhone   string // Телефон клиента; по нему находится или заводится пользователь
	PlateNumber     string // Госномер автомобиля
	DurationHours   int    // Длительность стоянки в часах
	PaymentMethod   string // Способ оплаты на месте: cash, pos или manual
}

// Response модель ответа с созданной бронью
type Response struct {
	ID            int64
	SlotID        int64
	UserID        int64 // ID клиента (найденного или заведенного по телефону)
	LocationID    int64
	PlateNumber   string
	StartTime     time.Time
	EndTime       time.Time
	DurationHours int
	TotalPrice    float64
	Status        string
	PaymentStatus string

	AttendantUserID int64
	ReceiptNumber   string // Номер квитанции оплаты на месте

	CreatedAt time.Time
	UpdatedAt time.Time
}
