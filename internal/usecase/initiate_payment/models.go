package initiate_payment

// Request модель запроса на инициацию оплаты брони
type Request struct {
	BookingID int64 // ID брони (корень цепочки или звено продления)
	UserID    int64 // ID пользователя; оплатить бронь может только владелец
}

// Response модель ответа с данными для перехода к оплате
type Response struct {
	PaymentID   int64   // ID платежной записи
	BookingID   int64   // ID оплачиваемой брони
	Amount      float64 // Сумма к оплате
	PaymentURL  string  // URL страницы оплаты провайдера
	ProviderRef string  // Идентификатор транзакции провайдера
}
