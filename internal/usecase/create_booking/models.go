package create_booking

import "time"

// Request модель запроса на создание бронирования
type Request struct {
	UserID        int64      // ID пользователя
	SlotID        int64      // ID парковочного места
	PlateNumber   string     // Госномер автомобиля
	StartTime     *time.Time // Запрошенное время начала; nil - бронь с текущего момента
	DurationHours int        // Запрошенная длительность в часах
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID            int64     // ID созданного бронирования
	SlotID        int64     // ID парковочного места
	UserID        int64     // ID пользователя
	LocationID    int64     // ID локации (денормализовано из слота)
	PlateNumber   string    // Госномер
	StartTime     time.Time // Начало окна (для отложенных броней - на час раньше запрошенного)
	EndTime       time.Time // Окончание окна
	DurationHours int       // Оплачиваемые часы
	TotalPrice    float64   // Итоговая стоимость
	Status        string    // Статус бронирования
	PaymentStatus string    // Статус оплаты

	CreatedAt time.Time
	UpdatedAt time.Time
}
