package services

import (
	"bytes"
	"fmt"
	"strings"

	"ttms-analytics/models"

	"github.com/xuri/excelize/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// reportSheet - один лист выгрузки: заголовок и строки
type reportSheet struct {
	Name   string
	Header []string
	Rows   [][]interface{}
}

// reportSheets раскладывает результат отчёта в таблицы.
// Вложенные отчёты, которые нельзя свести к строкам, дают ErrExportUnsupported.
func reportSheets(report string, value interface{}) ([]reportSheet, error) {
	switch v := value.(type) {
	case []models.WorkloadEntry:
		sheet := reportSheet{Name: "Workload", Header: []string{"Staff No", "Name", "Courses", "Sections", "Hours"}}
		for _, w := range v {
			sheet.Rows = append(sheet.Rows, []interface{}{w.StaffNo, w.Name, w.TotalCourses, w.TotalSections, w.TotalHours})
		}
		return []reportSheet{sheet}, nil

	case *models.TopLecturers:
		header := []string{"Staff No", "Name", "Sections", "Hours"}
		bySections := reportSheet{Name: "By sections", Header: header}
		for _, l := range v.BySections {
			bySections.Rows = append(bySections.Rows, []interface{}{l.StaffNo, l.Name, l.TotalSections, l.TotalHours})
		}
		byHours := reportSheet{Name: "By hours", Header: header}
		for _, l := range v.ByHours {
			byHours.Rows = append(byHours.Rows, []interface{}{l.StaffNo, l.Name, l.TotalSections, l.TotalHours})
		}
		return []reportSheet{bySections, byHours}, nil

	case []models.LecturerConflict:
		sheet := reportSheet{Name: "Lecturer conflicts", Header: []string{"Staff No", "Name", "Time slot", "Courses"}}
		for _, c := range v {
			courses := make([]string, len(c.ConflictingCourses))
			for i, course := range c.ConflictingCourses {
				courses[i] = course.Subject + "/" + course.Section
			}
			sheet.Rows = append(sheet.Rows, []interface{}{c.Lecturer.StaffNo, c.Lecturer.Name, c.TimeSlot, strings.Join(courses, ", ")})
		}
		return []reportSheet{sheet}, nil

	case []models.SectionStat:
		sheet := reportSheet{Name: "Sections", Header: []string{"Subject", "Section", "Students", "Course"}}
		for _, s := range v {
			sheet.Rows = append(sheet.Rows, []interface{}{s.SubjectCode, s.Section, s.StudentCount, s.CourseName})
		}
		return []reportSheet{sheet}, nil

	case []models.CourseStat:
		sheet := reportSheet{Name: "Courses", Header: []string{"Subject", "Course", "Students", "Sections", "Lecturers"}}
		for _, c := range v {
			sheet.Rows = append(sheet.Rows, []interface{}{c.SubjectCode, c.CourseName, c.TotalStudents, c.SectionCount, c.LecturerCount})
		}
		return []reportSheet{sheet}, nil

	case []models.MultiSectionCourse:
		sheet := reportSheet{Name: "Multi-section courses", Header: []string{"Subject", "Course", "Sections", "Students", "Lecturers"}}
		for _, c := range v {
			sheet.Rows = append(sheet.Rows, []interface{}{c.SubjectCode, c.CourseName, c.TotalSections, c.TotalStudents, c.LecturerCount})
		}
		return []reportSheet{sheet}, nil

	case []models.RoomClash:
		sheet := reportSheet{Name: "Room clashes", Header: []string{"Room", "Name", "Time slot", "Sessions"}}
		for _, c := range v {
			sessions := make([]string, len(c.ConflictingSessions))
			for i, s := range c.ConflictingSessions {
				sessions[i] = fmt.Sprintf("%s/%s (%s)", s.Subject, s.Section, s.Lecturer)
			}
			sheet.Rows = append(sheet.Rows, []interface{}{c.Room.Code, c.Room.Name, c.TimeSlot, strings.Join(sessions, ", ")})
		}
		return []reportSheet{sheet}, nil

	case []models.RoomUtilization:
		sheet := reportSheet{Name: "Room utilization", Header: []string{"Room", "Name", "Total slots", "Occupied", "Rate %"}}
		for _, u := range v {
			sheet.Rows = append(sheet.Rows, []interface{}{u.RoomCode, u.RoomName, u.TotalSlots, u.OccupiedSlots, u.UtilizationRate})
		}
		return []reportSheet{sheet}, nil

	case []models.StudentBreakdown:
		sheet := reportSheet{Name: "Students", Header: []string{"Session", "Semester", "Group", "Name", "Students"}}
		for _, b := range v {
			sheet.Rows = append(sheet.Rows, breakdownRows(b)...)
		}
		return []reportSheet{sheet}, nil

	case *models.StudentBreakdown:
		sheet := reportSheet{Name: "Students", Header: []string{"Session", "Semester", "Group", "Name", "Students"}}
		sheet.Rows = breakdownRows(*v)
		return []reportSheet{sheet}, nil
	}
	return nil, fmt.Errorf("%w: %s", models.ErrExportUnsupported, report)
}

func breakdownRows(b models.StudentBreakdown) [][]interface{} {
	rows := [][]interface{}{{b.Year, b.Semester, "Total", "", b.TotalStudents}}
	groups := []struct {
		name   string
		counts []models.NamedCount
	}{
		{"Faculty", b.Faculties},
		{"Program", b.Programs},
		{"Year level", b.YearLevels},
	}
	for _, g := range groups {
		for _, c := range g.counts {
			rows = append(rows, []interface{}{b.Year, b.Semester, g.name, c.Name, c.Count})
		}
	}
	return rows
}

// writeWorkbook собирает книгу xlsx: по листу на таблицу, жирный заголовок
func writeWorkbook(sheets []reportSheet) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, sheet := range sheets {
		name := sheetName(sheet.Name)
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}

		header := make([]interface{}, len(sheet.Header))
		for j, h := range sheet.Header {
			header[j] = h
		}
		if err := f.SetSheetRow(name, "A1", &header); err != nil {
			return nil, err
		}
		if err := f.SetRowStyle(name, 1, 1, headerStyle); err != nil {
			return nil, err
		}

		for r, row := range sheet.Rows {
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write xlsx: %w", err)
	}
	return buf, nil
}

// sheetName - excel ограничивает имя листа 31 символом
func sheetName(name string) string {
	if len(name) > 31 {
		return name[:31]
	}
	return name
}
