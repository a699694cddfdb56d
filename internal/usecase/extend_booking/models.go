package extend_booking

import "time"

// Request модель запроса на продление брони
type Request struct {
	BookingID      int64 // ID брони (корень цепочки или любое звено)
	UserID         int64 // ID пользователя; продлить бронь может только владелец
	ExtensionHours int   // Длительность продления в часах (1..24)
}

// Response модель ответа с созданным звеном продления
type Response struct {
	ID                int64 // ID звена продления
	OriginalBookingID int64 // ID корня цепочки
	SlotID            int64
	UserID            int64
	LocationID        int64
	PlateNumber       string
	StartTime         time.Time // Равно окончанию предыдущего звена
	EndTime           time.Time
	DurationHours     int
	TotalPrice        float64
	Status            string
	PaymentStatus     string

	CreatedAt time.Time
	UpdatedAt time.Time
}
