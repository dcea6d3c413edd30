package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"ttms-analytics/config"
	"ttms-analytics/handlers"
	"ttms-analytics/logging"
	"ttms-analytics/middleware"
	"ttms-analytics/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Загружаем .env файл (игнорируем ошибку для продакшн)
	_ = godotenv.Load()

	// Загружаем конфигурацию
	cfg := config.Load()
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	logging.Info().Str("environment", cfg.Environment).Msg("Start service")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Инициализируем сервисы
	cacheService := services.NewCacheService(cfg.CacheTTL.Default(), 2*cfg.CacheTTL.Default()).
		WithFetchTimeout(cfg.Upstream.FetchTimeout)
	client := services.NewUpstreamClient(cfg.Upstream)
	paginator := services.NewPaginator(client, cfg.Upstream.PageSize, cfg.Upstream.MaxPages)

	authService := services.NewAuthService(client, cacheService, cfg.CacheTTL.AdminSession)
	periodService := services.NewPeriodService(client, cacheService, cfg.CacheTTL.Period)
	subjectService := services.NewSubjectService(client, cacheService, cfg.CacheTTL.Subjects, cfg.CacheTTL.Schedule)
	studentService := services.NewStudentService(paginator, authService, subjectService, cacheService, cfg.CacheTTL.Students, cfg.CacheTTL.Sections)
	lecturerService := services.NewLecturerService(paginator, authService, subjectService, cacheService, cfg.CacheTTL.Lecturers, cfg.CacheTTL.Sections)
	roomService := services.NewRoomService(paginator, authService, cacheService, cfg.CacheTTL.Rooms, cfg.CacheTTL.Schedule)
	analysisService := services.NewAnalysisService(authService, periodService, studentService, lecturerService, roomService, subjectService, cfg.Analysis)

	// nil-хранилище отключает экспорт, остальной API работает
	var storage services.ExportStorage
	if cfg.Export.Enabled {
		minioService, err := services.NewMinIOService(cfg.Export)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize MinIO service")
		}
		if err := minioService.EnsureBucket(ctx); err != nil {
			logging.Warn().Err(err).Msg("Export bucket is not ready, exports may fail")
		}
		storage = minioService
	}
	exporter := services.NewReportExporter(analysisService, storage, cfg.Export.PathPattern)

	if cfg.Warmup.Enabled() {
		warmup := services.NewWarmupScheduler(cfg.Warmup.Schedule, cfg.Warmup.AdminSessionID,
			periodService, studentService, lecturerService, roomService, subjectService)
		if err := warmup.Start(); err != nil {
			logging.Fatal().Err(err).Msg("Failed to start cache warm-up")
		}
		defer warmup.Stop()
	}

	// Инициализируем handlers
	analysisHandler := handlers.NewAnalysisHandler(analysisService)
	studentHandler := handlers.NewStudentHandler(studentService)
	lecturerHandler := handlers.NewLecturerHandler(lecturerService, cfg.Analysis.SlotDuration)
	roomHandler := handlers.NewRoomHandler(roomService, cfg.Analysis.SlotDuration)
	timetableHandler := handlers.NewTimetableHandler(periodService, subjectService)
	authHandler := handlers.NewAuthHandler(authService)
	cacheHandler := handlers.NewCacheHandler(cacheService)
	exportHandler := handlers.NewExportHandler(exporter)

	// Настраиваем Gin
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(cfg.CORSOrigins))
	router.Use(middleware.Metrics())
	router.Use(gin.Recovery())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes
	api := router.Group("/api/v1")
	{
		// Health check
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status": "ok",
				"time":   time.Now(),
			})
		})

		// Auth
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/admin-session", authHandler.AdminSession)

		// Analysis
		analysis := api.Group("/analysis")
		analysis.GET("", analysisHandler.Reports)
		analysis.GET("/bulk", analysisHandler.Bulk)
		for _, name := range services.ReportNames {
			analysis.GET("/"+name, analysisHandler.Report(name))
		}

		// Students
		api.GET("/students", studentHandler.GetStudents)
		api.GET("/students/:id/sessions", studentHandler.GetSessions)
		api.GET("/students/:id/semesters", studentHandler.GetSemesters)
		api.GET("/students/:id/courses", studentHandler.GetCourses)
		api.GET("/students/:id/timetable", studentHandler.GetTimetable)
		api.GET("/students/:id/timetable/:day", studentHandler.GetDailyTimetable)

		// Lecturers
		api.GET("/lecturers", lecturerHandler.GetLecturers)
		api.GET("/lecturers/:staffNo/sections", lecturerHandler.GetSections)
		api.GET("/lecturers/:staffNo/timetable", lecturerHandler.GetTimetable)
		api.GET("/lecturers/:staffNo/availability", lecturerHandler.GetAvailability)

		// Rooms
		api.GET("/rooms", roomHandler.GetRooms)
		api.GET("/rooms/:code/schedule", roomHandler.GetSchedule)
		api.GET("/rooms/:code/timetable", roomHandler.GetTimetable)
		api.GET("/rooms/:code/timetable/:day", roomHandler.GetDailyTimetable)
		api.GET("/rooms/:code/availability", roomHandler.GetAvailability)

		// Sessions and subjects
		api.GET("/timetable/sessions/all", timetableHandler.GetAllSessions)
		api.GET("/timetable/sessions/current", timetableHandler.GetCurrentSession)
		api.GET("/subjects", timetableHandler.GetSubjects)
		api.GET("/subjects/:code/sections/:section/schedule", timetableHandler.GetSectionSchedule)

		// Exports
		api.GET("/exports", exportHandler.GetExports)
		api.GET("/exports/download", exportHandler.GetPresignedDownloadURL)
		api.POST("/exports/:report", exportHandler.CreateExport)

		// Cache management
		api.GET("/cache/stats", cacheHandler.Stats)
		api.POST("/cache/invalidate", cacheHandler.InvalidateCache)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		logging.Info().Str("port", cfg.ServerPort).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	logging.Info().Msg("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("Server shutdown failed")
	}
}
