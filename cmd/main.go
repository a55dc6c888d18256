package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	assignStaffHandler "github.com/m04kA/SMC-BookingOps/internal/api/handlers/assign_staff"
	cancelBookingHandler "github.com/m04kA/SMC-BookingOps/internal/api/handlers/cancel_booking"
	changeStaffStatusHandler "github.com/m04kA/SMC-BookingOps/internal/api/handlers/change_staff_status"
	commitTransitionHandler "github.com/m04kA/SMC-BookingOps/internal/api/handlers/commit_transition"
	confirmPaymentHandler "github.com/m04kA/SMC-BookingOps/internal/api/handlers/confirm_payment"
	createPaymentSessionHandler "github.com/m04kA/SMC-BookingOps/internal/api/handlers/create_payment_session"
	createStaffHandler "github.com/m04kA/SMC-BookingOps/internal/api/handlers/create_staff"
	fileCancellationHandler "github.com/m04kA/SMC-BookingOps/internal/api/handlers/file_cancellation"
	getBookingHandler "github.com/m04kA/SMC-BookingOps/internal/api/handlers/get_booking"
	getCalendarHandler "github.com/m04kA/SMC-BookingOps/internal/api/handlers/get_calendar"
	listBookingsHandler "github.com/m04kA/SMC-BookingOps/internal/api/handlers/list_bookings"
	listCancellationsHandler "github.com/m04kA/SMC-BookingOps/internal/api/handlers/list_cancellations"
	listStaffHandler "github.com/m04kA/SMC-BookingOps/internal/api/handlers/list_staff"
	previewTransitionHandler "github.com/m04kA/SMC-BookingOps/internal/api/handlers/preview_transition"
	resolveCancellationHandler "github.com/m04kA/SMC-BookingOps/internal/api/handlers/resolve_cancellation"
	stripeWebhookHandler "github.com/m04kA/SMC-BookingOps/internal/api/handlers/stripe_webhook"
	submitBookingHandler "github.com/m04kA/SMC-BookingOps/internal/api/handlers/submit_booking"
	"github.com/m04kA/SMC-BookingOps/internal/api/middleware"
	"github.com/m04kA/SMC-BookingOps/internal/config"
	"github.com/m04kA/SMC-BookingOps/internal/domain"
	"github.com/m04kA/SMC-BookingOps/internal/infra/locks"
	appointmentRepo "github.com/m04kA/SMC-BookingOps/internal/infra/storage/appointment"
	bookingRepo "github.com/m04kA/SMC-BookingOps/internal/infra/storage/booking"
	cancellationRepo "github.com/m04kA/SMC-BookingOps/internal/infra/storage/cancellation"
	"github.com/m04kA/SMC-BookingOps/internal/infra/storage/memory"
	staffRepo "github.com/m04kA/SMC-BookingOps/internal/infra/storage/staff"
	"github.com/m04kA/SMC-BookingOps/internal/integrations/catalog"
	"github.com/m04kA/SMC-BookingOps/internal/integrations/notifier"
	"github.com/m04kA/SMC-BookingOps/internal/integrations/stripepay"
	bookingsService "github.com/m04kA/SMC-BookingOps/internal/service/bookings"
	"github.com/m04kA/SMC-BookingOps/internal/service/calendar"
	cancellationsService "github.com/m04kA/SMC-BookingOps/internal/service/cancellations"
	staffService "github.com/m04kA/SMC-BookingOps/internal/service/staff"
	confirmPaymentUC "github.com/m04kA/SMC-BookingOps/internal/usecase/confirm_payment"
	createPaymentSessionUC "github.com/m04kA/SMC-BookingOps/internal/usecase/create_payment_session"
	getCalendarUC "github.com/m04kA/SMC-BookingOps/internal/usecase/get_calendar"
	reapStaleDraftsUC "github.com/m04kA/SMC-BookingOps/internal/usecase/reap_stale_drafts"
	submitBookingUC "github.com/m04kA/SMC-BookingOps/internal/usecase/submit_booking"
	"github.com/m04kA/SMC-BookingOps/pkg/dbmetrics"
	"github.com/m04kA/SMC-BookingOps/pkg/keylock"
	"github.com/m04kA/SMC-BookingOps/pkg/logger"
	"github.com/m04kA/SMC-BookingOps/pkg/metrics"
	"github.com/m04kA/SMC-BookingOps/pkg/tracing"
	"github.com/m04kA/SMC-BookingOps/pkg/txmanager"
	"github.com/m04kA/SMC-BookingOps/pkg/types"
)

// Общие интерфейсы хранилищ, их реализуют и PostgreSQL, и memory
type bookingStore interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	Save(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	Query(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
	ListStaleDrafts(ctx context.Context, before time.Time, after *domain.DraftCursor, limit int) ([]*domain.Booking, error)
}

type appointmentStore interface {
	ListInRange(ctx context.Context, from, to time.Time) ([]domain.Appointment, error)
}

type cancellationStore interface {
	Create(ctx context.Context, req *domain.CancellationRequest) (*domain.CancellationRequest, error)
	GetByID(ctx context.Context, id string) (*domain.CancellationRequest, error)
	Save(ctx context.Context, req *domain.CancellationRequest) (*domain.CancellationRequest, error)
	List(ctx context.Context, filter domain.CancellationsFilter) ([]*domain.CancellationRequest, error)
}

type staffStore interface {
	Create(ctx context.Context, s *domain.Staff) (*domain.Staff, error)
	GetByID(ctx context.Context, id string) (*domain.Staff, error)
	Save(ctx context.Context, s *domain.Staff) (*domain.Staff, error)
	List(ctx context.Context, filter domain.StaffFilter) ([]*domain.Staff, error)
}

type txManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

type lockManager interface {
	Lock(ctx context.Context, key string) (func(), error)
}

type notificationSender interface {
	Notify(ctx context.Context, recipient, template string, data map[string]string) error
	Close() error
}

type domainMetrics interface {
	RecordTransition(entity, from, to string)
	RecordRejection(entity, reason string)
	AddReaped(n int)
	RecordNotificationFailure(template string)
}

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

	log.Info("Starting SMC-BookingOps...")
	log.Info("Configuration loaded from config.toml (driver=%s, notifications=%s)",
		cfg.Database.Driver, cfg.Notifications.Transport)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Трейсинг
	shutdownTracing, err := tracing.Setup(ctx, tracing.Config{
		Enabled:      cfg.Tracing.Enabled,
		ServiceName:  cfg.Tracing.ServiceName,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		SampleRatio:  cfg.Tracing.SampleRatio,
	})
	if err != nil {
		log.Fatal("Failed to setup tracing: %v", err)
	}

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var appMetrics domainMetrics = metrics.Nop{}
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		appMetrics = metricsCollector
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Хранилище
	var (
		bookings      bookingStore
		appointments  appointmentStore
		cancellations cancellationStore
		staffMembers  staffStore
		txMgr         txManager
	)

	switch cfg.Database.Driver {
	case config.DriverMemory:
		store := memory.NewStore()
		bookings = store.Bookings()
		appointments = store.Appointments()
		cancellations = store.Cancellations()
		staffMembers = store.Staff()
		// Хранилище в памяти само откатывает изменения неудачной транзакции
		txMgr = store
		log.Warn("Using in-memory storage, data is lost on restart")

	default:
		// lib/pq регистрирует драйвер "postgres", pgx stdlib - "pgx"
		db, err := sql.Open(cfg.Database.Driver, cfg.Database.DSN())
		if err != nil {
			log.Fatal("Failed to connect to database: %v", err)
		}
		defer db.Close()

		// Настраиваем connection pool
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

		if err := db.PingContext(ctx); err != nil {
			log.Fatal("Failed to ping database: %v", err)
		}
		log.Info("Successfully connected to database (driver=%s, host=%s, port=%d, db=%s)",
			cfg.Database.Driver, cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

		// Без метрик обертка только передает запросы и транзакции
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)

		bookings = bookingRepo.NewRepository(wrappedDB)
		appointments = appointmentRepo.NewRepository(wrappedDB)
		cancellations = cancellationRepo.NewRepository(wrappedDB)
		staffMembers = staffRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	}

	// Блокировки бронирований
	var locker lockManager
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatal("Failed to ping redis at %s: %v", cfg.Redis.Addr, err)
		}
		locker = locks.NewRedisLocker(redisClient, cfg.Workflow.LockTTL(), log)
		log.Info("Booking locks are held in redis (addr=%s)", cfg.Redis.Addr)
	} else {
		locker = keylock.New()
		log.Info("Booking locks are held in process memory")
	}

	// Уведомления
	var notify notificationSender
	notifyTimeout := time.Duration(cfg.Notifications.Timeout) * time.Second
	switch cfg.Notifications.Transport {
	case config.NotifierKafka:
		writer := notifier.NewKafkaWriter(cfg.Notifications.KafkaBrokers, cfg.Notifications.KafkaTopic)
		notify = notifier.NewKafkaNotifier(writer, notifyTimeout, log)
		log.Info("Notifications are published to kafka topic %s", cfg.Notifications.KafkaTopic)
	case config.NotifierRabbitMQ:
		notify = notifier.NewRabbitNotifier(notifier.DialURL(cfg.Notifications.RabbitMQURL), cfg.Notifications.RabbitQueue, notifyTimeout, log)
		log.Info("Notifications are published to rabbitmq queue %s", cfg.Notifications.RabbitQueue)
	default:
		notify = notifier.NewLogNotifier(log)
	}
	defer func() {
		if err := notify.Close(); err != nil {
			log.Warn("Failed to close notifier: %v", err)
		}
	}()

	// Интеграции
	services, err := catalog.FromConfig(cfg.Catalog)
	if err != nil {
		log.Fatal("Failed to load service catalog: %v", err)
	}
	payments := stripepay.NewClient(stripepay.Config{
		SecretKey:     cfg.Payments.SecretKey,
		WebhookSecret: cfg.Payments.WebhookSecret,
		Currency:      cfg.Payments.Currency,
		SuccessURL:    cfg.Payments.SuccessURL,
		CancelURL:     cfg.Payments.CancelURL,
	}, log)
	if !payments.IsLive() {
		log.Warn("Stripe secret key is not configured, payment sessions are stubbed")
	}

	// Инициализируем сервисы
	lockWait := cfg.Workflow.LockWait()

	bookingSvc := bookingsService.NewService(
		bookings,
		staffMembers,
		locker,
		txMgr,
		notify,
		appMetrics,
		lockWait,
		log,
	)
	cancellationSvc := cancellationsService.NewService(
		cancellations,
		bookings,
		bookingSvc,
		txMgr,
		notify,
		appMetrics,
		log,
	)
	staffSvc := staffService.NewService(staffMembers, appMetrics, log)

	// Инициализируем use cases
	submitBookingUseCase := submitBookingUC.NewUseCase(bookings, services, txMgr, notify, appMetrics, log)
	createPaymentSessionUseCase := createPaymentSessionUC.NewUseCase(bookings, payments, log)
	confirmPaymentUseCase := confirmPaymentUC.NewUseCase(bookings, locker, txMgr, notify, appMetrics, lockWait, log)
	reapStaleDraftsUseCase := reapStaleDraftsUC.NewUseCase(bookings, locker, txMgr, appMetrics, cfg.Workflow.ReapBatchSize, lockWait, log)
	getCalendarUseCase := getCalendarUC.NewUseCase(
		appointments,
		calendar.NewGridBuilder(nil),
		domain.SlotsConfig{
			DayStart:     types.TimeString(cfg.Calendar.DayStart),
			DayEnd:       types.TimeString(cfg.Calendar.DayEnd),
			WidthMinutes: cfg.Calendar.SlotWidthMinutes,
		},
		log,
	)

	// Инициализируем handlers
	submitBooking := submitBookingHandler.NewHandler(submitBookingUseCase, log)
	listBookings := listBookingsHandler.NewHandler(bookingSvc, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	previewTransition := previewTransitionHandler.NewHandler(bookingSvc, log)
	commitTransition := commitTransitionHandler.NewHandler(bookingSvc, log)
	assignStaff := assignStaffHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	createPaymentSession := createPaymentSessionHandler.NewHandler(createPaymentSessionUseCase, log)
	confirmPayment := confirmPaymentHandler.NewHandler(confirmPaymentUseCase, cfg.Payments.ResultsToken, log)
	stripeWebhook := stripeWebhookHandler.NewHandler(payments, confirmPaymentUseCase, log)
	getCalendar := getCalendarHandler.NewHandler(getCalendarUseCase, log)
	fileCancellation := fileCancellationHandler.NewHandler(cancellationSvc, log)
	listCancellations := listCancellationsHandler.NewHandler(cancellationSvc, log)
	resolveCancellation := resolveCancellationHandler.NewHandler(cancellationSvc, log)
	createStaff := createStaffHandler.NewHandler(staffSvc, log)
	listStaff := listStaffHandler.NewHandler(staffSvc, log)
	changeStaffStatus := changeStaffStatusHandler.NewHandler(staffSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PAYMENT CALLBACKS (без X-User-ID, проверяются подписью или токеном)
	// ============================================================

	api.HandleFunc("/payments/results", confirmPayment.Handle).Methods(http.MethodPost)
	api.HandleFunc("/payments/stripe/webhook", stripeWebhook.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", submitBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings", listBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/transitions", previewTransition.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/transitions", commitTransition.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/staff", assignStaff.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/payment-session", createPaymentSession.Handle).Methods(http.MethodPost)

	// --- Календарь ---
	protected.HandleFunc("/calendar", getCalendar.Handle).Methods(http.MethodGet)

	// --- Заявки на отмену ---
	protected.HandleFunc("/cancellations", fileCancellation.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/cancellations", listCancellations.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/cancellations/{requestId}/resolve", resolveCancellation.Handle).Methods(http.MethodPost)

	// --- Сотрудники ---
	protected.HandleFunc("/staff", createStaff.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/staff", listStaff.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/staff/{staffId}/status", changeStaffStatus.Handle).Methods(http.MethodPatch)

	// Фоновая очистка неоплаченных черновиков
	reaper := reapStaleDraftsUC.NewWorker(
		reapStaleDraftsUseCase,
		cfg.Workflow.ReapInterval(),
		cfg.Workflow.StaleDraftAfter(),
		log,
	)
	reaperDone := make(chan struct{})
	go func() {
		defer close(reaperDone)
		reaper.Run(ctx)
	}()
	log.Info("Stale draft reaper started (interval=%s, older_than=%s)",
		cfg.Workflow.ReapInterval(), cfg.Workflow.StaleDraftAfter())

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      otelhttp.NewHandler(r, "booking-ops"),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	<-reaperDone
	log.Info("Stale draft reaper stopped")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warn("Failed to flush traces: %v", err)
	}

	log.Info("Server stopped gracefully")
}
