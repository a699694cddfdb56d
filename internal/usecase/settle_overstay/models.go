package settle_overstay

import "time"

// Request модель запроса на оформление оплаты превышения времени стоянки
type Request struct {
	BookingID       int64  // ID брони (корень цепочки или звено)
	AttendantUserID int64  // ID оператора, принимающего оплату
	PaymentMethod   string // Способ оплаты на месте: cash, pos или manual
}

// Response модель ответа с оформленным платежом за превышение
type Response struct {
	PaymentID     int64   // ID платежной записи
	BookingID     int64   // ID брони
	Amount        float64 // Сумма к оплате
	Method        string  // Способ оплаты
	Status        string  // Статус платежа
	ReceiptNumber string  // Номер квитанции

	EffectiveEnd    time.Time // Окончание последнего звена цепочки
	OverstayMinutes int       // Полные минуты сверх окончания
	BillableHours   int       // Тарифицируемые часы
	HourlyRate      float64   // Почасовой тариф места
}
