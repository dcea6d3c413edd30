package services

import (
	"context"
	"fmt"
	"time"

	"ttms-analytics/logging"
	"ttms-analytics/models"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"
)

const warmupTimeout = 5 * time.Minute

// WarmupScheduler по расписанию прогревает кэш текущего периода,
// чтобы первый отчёт за день не ждал полной пагинации
type WarmupScheduler struct {
	cron      *cron.Cron
	schedule  string
	creds     models.Credentials
	periods   *PeriodService
	students  *StudentService
	lecturers *LecturerService
	rooms     *RoomService
	subjects  *SubjectService
	now       func() time.Time
}

func NewWarmupScheduler(schedule, adminSessionID string, periods *PeriodService, students *StudentService, lecturers *LecturerService, rooms *RoomService, subjects *SubjectService) *WarmupScheduler {
	return &WarmupScheduler{
		cron:      cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
		schedule:  schedule,
		creds:     models.Credentials{AdminSessionID: adminSessionID},
		periods:   periods,
		students:  students,
		lecturers: lecturers,
		rooms:     rooms,
		subjects:  subjects,
		now:       time.Now,
	}
}

func (w *WarmupScheduler) Start() error {
	_, err := w.cron.AddFunc(w.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), warmupTimeout)
		defer cancel()
		if err := w.RunOnce(ctx); err != nil {
			logging.Warn().Err(err).Msg("Cache warm-up failed")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid warm-up schedule %q: %w", w.schedule, err)
	}
	w.cron.Start()
	logging.Info().Str("schedule", w.schedule).Msg("Cache warm-up scheduled")
	return nil
}

// Stop ждёт завершения текущего прогрева
func (w *WarmupScheduler) Stop() {
	<-w.cron.Stop().Done()
}

// RunOnce загружает сущности текущего периода в кэш
func (w *WarmupScheduler) RunOnce(ctx context.Context) error {
	current, err := w.periods.CurrentPeriod(ctx, w.now())
	if err != nil {
		return err
	}
	period := current.Period()
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := w.students.FetchAll(gctx, period, w.creds)
		return err
	})
	g.Go(func() error {
		_, err := w.lecturers.FetchAll(gctx, period, w.creds)
		return err
	})
	g.Go(func() error {
		_, err := w.rooms.FetchAll(gctx, period, w.creds, "")
		return err
	})
	g.Go(func() error {
		_, err := w.subjects.FetchAll(gctx, period)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	logging.Info().
		Str("period", period.String()).
		Dur("duration", time.Since(start)).
		Msg("Cache warmed")
	return nil
}
