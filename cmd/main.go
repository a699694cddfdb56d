package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelBookingHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/create_booking"
	createWalkinBookingHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/create_walkin_booking"
	endSessionHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/end_session"
	extendBookingHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/extend_booking"
	getAvailableSlotsHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/get_booking"
	getLocationBookingsHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/get_location_bookings"
	getOverstayedVehiclesHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/get_overstayed_vehicles"
	getUserBookingsHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/get_user_bookings"
	initiatePaymentHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/initiate_payment"
	settleOverstayHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/settle_overstay"
	validateVehicleHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/validate_vehicle"
	verifyPaymentHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/verify_payment"
	"github.com/m04kA/SMC-ParkingService/internal/api/middleware"
	"github.com/m04kA/SMC-ParkingService/internal/config"
	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/events"
	bookingRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/booking"
	paymentRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/payment"
	slotRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/slot"
	paymentServiceClient "github.com/m04kA/SMC-ParkingService/internal/integrations/paymentservice"
	userServiceClient "github.com/m04kA/SMC-ParkingService/internal/integrations/userservice"
	bookingsService "github.com/m04kA/SMC-ParkingService/internal/service/bookings"
	overstayService "github.com/m04kA/SMC-ParkingService/internal/service/overstay"
	slotsService "github.com/m04kA/SMC-ParkingService/internal/service/slots"
	createBookingUC "github.com/m04kA/SMC-ParkingService/internal/usecase/create_booking"
	createWalkinBookingUC "github.com/m04kA/SMC-ParkingService/internal/usecase/create_walkin_booking"
	extendBookingUC "github.com/m04kA/SMC-ParkingService/internal/usecase/extend_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-ParkingService/internal/usecase/get_available_slots"
	initiatePaymentUC "github.com/m04kA/SMC-ParkingService/internal/usecase/initiate_payment"
	settleOverstayUC "github.com/m04kA/SMC-ParkingService/internal/usecase/settle_overstay"
	verifyPaymentUC "github.com/m04kA/SMC-ParkingService/internal/usecase/verify_payment"
	"github.com/m04kA/SMC-ParkingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ParkingService/pkg/logger"
	"github.com/m04kA/SMC-ParkingService/pkg/metrics"
	"github.com/m04kA/SMC-ParkingService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-ParkingService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-ParkingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем интеграционных клиентов
	userClient := userServiceClient.NewClient(
		cfg.UserService.URL,
		time.Duration(cfg.UserService.Timeout)*time.Second,
		log,
	)
	paymentClient := paymentServiceClient.NewClient(
		cfg.PaymentService.URL,
		time.Duration(cfg.PaymentService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (UserService=%s timeout=%ds, PaymentService=%s timeout=%ds)",
		cfg.UserService.URL, cfg.UserService.Timeout, cfg.PaymentService.URL, cfg.PaymentService.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository *bookingRepo.Repository
		slotRepository    *slotRepo.Repository
		paymentRepository *paymentRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases)
	// TODO: Точно нужно переделать эту шл
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		// Инициализируем репозитории с обёрткой метрик
		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		slotRepository = slotRepo.NewRepository(wrappedDB)
		paymentRepository = paymentRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		// Инициализируем репозитории без метрик
		bookingRepository = bookingRepo.NewRepository(db)
		slotRepository = slotRepo.NewRepository(db)
		paymentRepository = paymentRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем publisher событий (если включен)
	type EventPublisher interface {
		BookingCreated(ctx context.Context, booking *domain.Booking)
		BookingStatusUpdated(ctx context.Context, booking *domain.Booking)
		BookingDeleted(ctx context.Context, booking *domain.Booking)
	}
	var eventPub EventPublisher

	if cfg.Events.Enabled {
		var recorder events.MetricsRecorder
		if metricsCollector != nil {
			recorder = metricsCollector
		}
		publisher, err := events.NewPublisher(cfg.Events.URL, cfg.Events.Exchange, log, recorder)
		if err != nil {
			log.Fatal("Failed to connect to event broker: %v", err)
		}
		defer publisher.Close()
		eventPub = publisher
		log.Info("Event publisher connected (exchange=%s)", cfg.Events.Exchange)
	} else {
		eventPub = events.NoopPublisher{}
		log.Info("Event publishing disabled")
	}

	// Инициализируем сервисы
	slotSync := slotsService.NewService(slotRepository, log)
	overstayCalc := overstayService.NewCalculator(bookingRepository, slotRepository, log)
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		userClient,
		slotSync,
		overstayCalc,
		eventPub,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		slotRepository,
		txMgr,
		eventPub,
		log,
	)
	createWalkinBookingUseCase := createWalkinBookingUC.NewUseCase(
		bookingRepository,
		slotRepository,
		slotSync,
		paymentRepository,
		userClient,
		txMgr,
		eventPub,
		log,
	)
	extendBookingUseCase := extendBookingUC.NewUseCase(
		bookingRepository,
		slotRepository,
		txMgr,
		eventPub,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		slotRepository,
		log,
	)
	initiatePaymentUseCase := initiatePaymentUC.NewUseCase(
		bookingRepository,
		paymentRepository,
		paymentClient,
		txMgr,
		log,
	)
	verifyPaymentUseCase := verifyPaymentUC.NewUseCase(
		bookingRepository,
		paymentRepository,
		slotSync,
		paymentClient,
		txMgr,
		eventPub,
		log,
	)
	settleOverstayUseCase := settleOverstayUC.NewUseCase(
		bookingRepository,
		paymentRepository,
		userClient,
		overstayCalc,
		txMgr,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	createWalkinBooking := createWalkinBookingHandler.NewHandler(createWalkinBookingUseCase, log)
	extendBooking := extendBookingHandler.NewHandler(extendBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	endSession := endSessionHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getLocationBookings := getLocationBookingsHandler.NewHandler(bookingSvc, log)
	validateVehicle := validateVehicleHandler.NewHandler(bookingSvc, log)
	getOverstayedVehicles := getOverstayedVehiclesHandler.NewHandler(bookingSvc, log)
	initiatePayment := initiatePaymentHandler.NewHandler(initiatePaymentUseCase, log)
	verifyPayment := verifyPaymentHandler.NewHandler(verifyPaymentUseCase, log)
	settleOverstay := settleOverstayHandler.NewHandler(settleOverstayUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Получение доступных слотов локации
	api.HandleFunc("/locations/{locationId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Подтверждение оплаты (callback платёжного шлюза, без X-User-ID)
	api.HandleFunc("/payments/verify", verifyPayment.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Создание бронирования
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Регистрация walk-in клиента (для сотрудников парковки)
	protected.HandleFunc("/bookings/walkin", createWalkinBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Продление бронирования
	protected.HandleFunc("/bookings/{bookingId}/extend", extendBooking.Handle).Methods(http.MethodPost)

	// Завершение парковочной сессии
	protected.HandleFunc("/bookings/{bookingId}/complete", endSession.Handle).Methods(http.MethodPost)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// --- Оплата ---
	// Инициация оплаты бронирования
	protected.HandleFunc("/bookings/{bookingId}/payment", initiatePayment.Handle).Methods(http.MethodPost)

	// Оформление доплаты за превышение времени (для сотрудников парковки)
	protected.HandleFunc("/bookings/{bookingId}/overstay/settle", settleOverstay.Handle).Methods(http.MethodPost)

	// --- История ---
	// История бронирований пользователя
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Управление локацией (для сотрудников парковки) ---
	// Список бронирований локации
	protected.HandleFunc("/locations/{locationId}/bookings", getLocationBookings.Handle).Methods(http.MethodGet)

	// Проверка автомобиля по госномеру
	protected.HandleFunc("/locations/{locationId}/validate-vehicle", validateVehicle.Handle).Methods(http.MethodGet)

	// Список автомобилей с превышением времени
	protected.HandleFunc("/locations/{locationId}/overstays", getOverstayedVehicles.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
