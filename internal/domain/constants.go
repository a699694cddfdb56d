package domain

// Business constants
const (
	// GracePeriodMinutes льготный период после окончания брони,
	// в течение которого превышение не тарифицируется
	GracePeriodMinutes = 15

	// ScheduledLeadInHours буфер перед отложенной бронью: окно начинается
	// на час раньше запрошенного времени, и этот час оплачивается
	ScheduledLeadInHours = 1

	// MinExtensionHours / MaxExtensionHours допустимый диапазон продления
	MinExtensionHours = 1
	MaxExtensionHours = 24

	// MaxBookingDurationHours верхняя граница длительности одной брони
	MaxBookingDurationHours = 24

	// DefaultHourlyRate используется, когда у слота не настроен тариф
	DefaultHourlyRate = 50.0
)

// Time format constants
const (
	DateTimeFormat = "2006-01-02T15:04:05Z07:00" // RFC 3339
	DateFormat     = "2006-01-02"
)

// OccupyingStatuses список статусов, блокирующих интервал слота
// Используется при проверке доступности
var OccupyingStatuses = []BookingStatus{
	StatusPending,
	StatusActive,
}
