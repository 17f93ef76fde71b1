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

	cancelBookingHandler "github.com/kmalyshev/ABS-BookingService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/kmalyshev/ABS-BookingService/internal/api/handlers/create_booking"
	createExceptionHandler "github.com/kmalyshev/ABS-BookingService/internal/api/handlers/create_exception"
	deleteExceptionHandler "github.com/kmalyshev/ABS-BookingService/internal/api/handlers/delete_exception"
	getBookingHandler "github.com/kmalyshev/ABS-BookingService/internal/api/handlers/get_booking"
	getBusinessBookingsHandler "github.com/kmalyshev/ABS-BookingService/internal/api/handlers/get_business_bookings"
	getClientBookingsHandler "github.com/kmalyshev/ABS-BookingService/internal/api/handlers/get_client_bookings"
	getDayAvailabilityHandler "github.com/kmalyshev/ABS-BookingService/internal/api/handlers/get_day_availability"
	listExceptionsHandler "github.com/kmalyshev/ABS-BookingService/internal/api/handlers/list_exceptions"
	updateBookingStatusHandler "github.com/kmalyshev/ABS-BookingService/internal/api/handlers/update_booking_status"
	"github.com/kmalyshev/ABS-BookingService/internal/api/middleware"
	"github.com/kmalyshev/ABS-BookingService/internal/config"
	bookingRepo "github.com/kmalyshev/ABS-BookingService/internal/infra/storage/booking"
	exceptionRepo "github.com/kmalyshev/ABS-BookingService/internal/infra/storage/exception"
	directoryServiceClient "github.com/kmalyshev/ABS-BookingService/internal/integrations/directoryservice"
	notifyServiceClient "github.com/kmalyshev/ABS-BookingService/internal/integrations/notifyservice"
	bookingsService "github.com/kmalyshev/ABS-BookingService/internal/service/bookings"
	exceptionsService "github.com/kmalyshev/ABS-BookingService/internal/service/exceptions"
	createBookingUC "github.com/kmalyshev/ABS-BookingService/internal/usecase/create_booking"
	getDayAvailabilityUC "github.com/kmalyshev/ABS-BookingService/internal/usecase/get_day_availability"
	"github.com/kmalyshev/ABS-BookingService/pkg/dbmetrics"
	"github.com/kmalyshev/ABS-BookingService/pkg/logger"
	"github.com/kmalyshev/ABS-BookingService/pkg/metrics"
	"github.com/kmalyshev/ABS-BookingService/pkg/simpletxmanager"
	"github.com/kmalyshev/ABS-BookingService/pkg/txmanager"
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

	log.Info("Starting ABS-BookingService...")
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
	directoryClient := directoryServiceClient.NewClient(
		cfg.DirectoryService.URL,
		time.Duration(cfg.DirectoryService.Timeout)*time.Second,
		log,
	)
	notifyClient := notifyServiceClient.NewClient(
		cfg.NotifyService.URL,
		time.Duration(cfg.NotifyService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (DirectoryService=%s timeout=%ds, NotifyService=%s timeout=%ds)",
		cfg.DirectoryService.URL, cfg.DirectoryService.Timeout, cfg.NotifyService.URL, cfg.NotifyService.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository   *bookingRepo.Repository
		exceptionRepository *exceptionRepo.Repository
		txMgr               createBookingUC.TransactionManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		exceptionRepository = exceptionRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		exceptionRepository = exceptionRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		directoryClient,
		notifyClient,
		log,
	)
	exceptionSvc := exceptionsService.NewService(
		exceptionRepository,
		directoryClient,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		exceptionRepository,
		directoryClient,
		notifyClient,
		txMgr,
		log,
	)

	getDayAvailabilityUseCase := getDayAvailabilityUC.NewUseCase(
		bookingRepository,
		exceptionRepository,
		directoryClient,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getDayAvailability := getDayAvailabilityHandler.NewHandler(getDayAvailabilityUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	getClientBookings := getClientBookingsHandler.NewHandler(bookingSvc, log)
	getBusinessBookings := getBusinessBookingsHandler.NewHandler(bookingSvc, log)
	createException := createExceptionHandler.NewHandler(exceptionSvc, log)
	deleteException := deleteExceptionHandler.NewHandler(exceptionSvc, log)
	listExceptions := listExceptionsHandler.NewHandler(exceptionSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Сквозной request id на всех запросах
	r.Use(middleware.RequestID)

	// Rate limiting (если включен)
	if cfg.RateLimit.Enabled {
		r.Use(middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		log.Info("Rate limiting enabled (rps=%.1f, burst=%d)", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		log.Info("HTTP metrics middleware enabled")

		// Metrics endpoint (публичный, без аутентификации)
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Сетка слотов сотрудника на день
	api.HandleFunc("/businesses/{businessId}/availability",
		getDayAvailability.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи ---
	// Создание записи
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение записи по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Отмена записи
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// Обновление статуса записи (для владельцев/менеджеров)
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)

	// История записей клиента
	protected.HandleFunc("/clients/{clientId}/bookings", getClientBookings.Handle).Methods(http.MethodGet)

	// --- Управление бизнесом (для владельцев/менеджеров) ---
	// Список записей бизнеса
	protected.HandleFunc("/businesses/{businessId}/bookings", getBusinessBookings.Handle).Methods(http.MethodGet)

	// Исключения графика: праздники и особые дни
	protected.HandleFunc("/businesses/{businessId}/exceptions", listExceptions.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/businesses/{businessId}/exceptions", createException.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/businesses/{businessId}/exceptions/{exceptionId}", deleteException.Handle).Methods(http.MethodDelete)

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
