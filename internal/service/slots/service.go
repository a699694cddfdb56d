package slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	slotRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/slot"
)

// Service синхронизирует грубый статус слота с жизненным циклом броней
//
// Вызывается ровно в двух точках: бронь становится active (оплата
// подтверждена или бронь создана оператором) -> Occupy; бронь явно
// завершена -> Release. Никакой фоновой сверки по времени нет: слот
// с молча просроченной активной бронью остается occupied, пока оператор
// не завершит сессию. Именно поэтому тарификация превышения - отдельный
// ручной поток, а не автоматический таймер
type Service struct {
	slotRepo SlotRepository
	logger   Logger
}

// NewService создает новый экземпляр сервиса статусов слотов
func NewService(slotRepo SlotRepository, logger Logger) *Service {
	return &Service{
		slotRepo: slotRepo,
		logger:   logger,
	}
}

// Occupy помечает слот занятым
// Идемпотентен: повторный вызов для уже занятого слота не является ошибкой
func (s *Service) Occupy(ctx context.Context, slotID int64) error {
	return s.setStatus(ctx, slotID, domain.SlotOccupied)
}

// Release помечает слот свободным
// Идемпотентен: повторный вызов для уже свободного слота не является ошибкой
func (s *Service) Release(ctx context.Context, slotID int64) error {
	return s.setStatus(ctx, slotID, domain.SlotAvailable)
}

func (s *Service) setStatus(ctx context.Context, slotID int64, status domain.SlotStatus) error {
	if err := s.slotRepo.UpdateStatus(ctx, slotID, status); err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			s.logger.Warn("setStatus: slot id=%d not found", slotID)
			return ErrSlotNotFound
		}
		s.logger.Error("setStatus: repository error for slot id=%d: %v", slotID, err)
		return fmt.Errorf("%w: setStatus - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("setStatus: slot id=%d -> %s", slotID, status)
	return nil
}
