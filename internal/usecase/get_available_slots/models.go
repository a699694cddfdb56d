package get_available_slots

import "time"

// Request модель запроса на получение доступных мест локации
type Request struct {
	LocationID    int64      // ID локации
	StartTime     *time.Time // Начало интересующего окна; nil - с текущего момента
	DurationHours int        // Длительность интересующего окна в часах
}

// SlotInfo информация о парковочном месте и его доступности на окно
type SlotInfo struct {
	ID          int64   // ID места
	Identifier  string  // Человекочитаемый номер места
	HourlyPrice float64 // Почасовой тариф
	Status      string  // Текущий статус места
	Available   bool    // Доступно ли место на запрошенное окно
}

// Response модель ответа со списком мест локации
type Response struct {
	LocationID int64      // ID локации
	StartTime  time.Time  // Начало проверяемого окна
	EndTime    time.Time  // Окончание проверяемого окна
	Slots      []SlotInfo // Все места локации с признаком доступности
}
