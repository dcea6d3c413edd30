package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"ttms-analytics/logging"
	"ttms-analytics/models"
)

// ExportStorage - то, что нужно экспорту от объектного хранилища
type ExportStorage interface {
	UploadFile(ctx context.Context, objectPath string, reader io.Reader, size int64, contentType string) error
	ListFiles(ctx context.Context, prefix string) ([]models.ExportFile, error)
	GetPresignedURL(ctx context.Context, objectPath string) (*models.PresignedURLResponse, error)
	ObjectExists(ctx context.Context, objectPath string) (bool, error)
}

// ReportExporter выгружает отчёты в xlsx и кладёт их в хранилище
type ReportExporter struct {
	analysis    *AnalysisService
	storage     ExportStorage
	pathPattern string
	now         func() time.Time
}

func NewReportExporter(analysis *AnalysisService, storage ExportStorage, pathPattern string) *ReportExporter {
	return &ReportExporter{
		analysis:    analysis,
		storage:     storage,
		pathPattern: pathPattern,
		now:         time.Now,
	}
}

// Export считает отчёт, сохраняет книгу и возвращает ссылку на скачивание
func (e *ReportExporter) Export(ctx context.Context, report string, period models.AcademicPeriod, creds models.Credentials, limit int) (*models.PresignedURLResponse, error) {
	if e.storage == nil {
		return nil, models.ErrExportNotAvailable
	}

	value, err := e.analysis.Run(ctx, report, period, creds, limit)
	if err != nil {
		return nil, err
	}
	sheets, err := reportSheets(report, value)
	if err != nil {
		return nil, err
	}
	buf, err := writeWorkbook(sheets)
	if err != nil {
		return nil, err
	}

	fileName := fmt.Sprintf("%s_%s.xlsx", report, e.now().UTC().Format("20060102T150405"))
	objectPath := e.ObjectPath(period, report, fileName)
	size := int64(buf.Len())
	if err := e.storage.UploadFile(ctx, objectPath, buf, size, xlsxContentType); err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Info().
		Str("report", report).
		Str("period", period.String()).
		Str("path", objectPath).
		Int64("size", size).
		Msg("Report exported")

	return e.storage.GetPresignedURL(ctx, objectPath)
}

// ObjectPath строит путь объекта по шаблону: период, отчёт, имя файла
func (e *ReportExporter) ObjectPath(period models.AcademicPeriod, report, fileName string) string {
	return fmt.Sprintf(e.pathPattern, period.Slug(), report, fileName)
}

// List - выгрузки периода; пустой период - все выгрузки
func (e *ReportExporter) List(ctx context.Context, period *models.AcademicPeriod) ([]models.ExportFile, error) {
	if e.storage == nil {
		return nil, models.ErrExportNotAvailable
	}
	prefix := ""
	if period != nil {
		full := e.ObjectPath(*period, "", "")
		slug := period.Slug()
		if i := strings.Index(full, slug); i >= 0 {
			prefix = full[:i+len(slug)] + "/"
		}
	}
	return e.storage.ListFiles(ctx, prefix)
}

// Download - новая ссылка на уже выгруженный файл
func (e *ReportExporter) Download(ctx context.Context, objectPath string) (*models.PresignedURLResponse, error) {
	if e.storage == nil {
		return nil, models.ErrExportNotAvailable
	}
	exists, err := e.storage.ObjectExists(ctx, objectPath)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", models.ErrExportNotFound, objectPath)
	}
	return e.storage.GetPresignedURL(ctx, objectPath)
}
