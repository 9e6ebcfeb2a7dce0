package handlers

import (
	"time"

	"github.com/appointra/scheduler/internal/models"
	"github.com/appointra/scheduler/internal/timezone"
)

func companyLocation(company *models.Company) *time.Location {
	if company == nil {
		return time.UTC
	}
	return timezone.Location(company.Timezone)
}

func parseDateInCompany(company *models.Company, dateStr string) (time.Time, error) {
	return time.ParseInLocation(
		"2006-01-02",
		dateStr,
		companyLocation(company),
	)
}
