package models

import (
	"fmt"
	"strings"
)

// AcademicPeriod - ключ партиции почти всех данных (сессия + семестр)
type AcademicPeriod struct {
	Sesi     string `json:"sesi" form:"sesi" binding:"required,sesi"`
	Semester int    `json:"semester" form:"semester" binding:"required,min=1,max=3"`
}

// Key используется в ключах кэша
func (p AcademicPeriod) Key() string {
	return fmt.Sprintf("%s_%d", p.Sesi, p.Semester)
}

func (p AcademicPeriod) String() string {
	return fmt.Sprintf("%s/S%d", p.Sesi, p.Semester)
}

// Slug - безопасное для путей представление периода
func (p AcademicPeriod) Slug() string {
	return fmt.Sprintf("%s-s%d", strings.ReplaceAll(p.Sesi, "/", "-"), p.Semester)
}

// Credentials - логин-сессия или админ-сессия, достаточно одной
type Credentials struct {
	LoginSessionID string `json:"loginSessionId,omitempty" form:"loginSessionId"`
	AdminSessionID string `json:"adminSessionId,omitempty" form:"adminSessionId"`
}

func (c Credentials) Empty() bool {
	return c.LoginSessionID == "" && c.AdminSessionID == ""
}

// SessionPeriod - запись справочника сессий (sesisemester)
type SessionPeriod struct {
	Sesi              string `json:"sesi"`
	Semester          int    `json:"semester"`
	SessionSemesterID string `json:"sessionSemesterId,omitempty"`
	StartDate         string `json:"startDate,omitempty"`
	EndDate           string `json:"endDate,omitempty"`
	Display           string `json:"display"`
}

func (s SessionPeriod) Period() AcademicPeriod {
	return AcademicPeriod{Sesi: s.Sesi, Semester: s.Semester}
}
