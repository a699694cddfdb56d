package verify_payment

// Request модель запроса на проверку платежа
type Request struct {
	ProviderRef string // Идентификатор транзакции платежного провайдера
}

// Response модель результата проверки платежа
type Response struct {
	PaymentID int64  // ID платежной записи
	BookingID int64  // ID оплаченной брони
	Verified  bool   // true, если платеж подтвержден (в том числе ранее)
	Status    string // Итоговый статус платежной записи
}
