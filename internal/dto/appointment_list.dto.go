package dto

import (
	"time"

	"github.com/appointra/scheduler/internal/models"
)

type AppointmentListDTO struct {
	ID           uint      `json:"id"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	Status       string    `json:"status"`
	Version      uint      `json:"version"`
	CustomerName string    `json:"customer_name"`
	ServiceName  string    `json:"service_name"`
	Notes        string    `json:"notes,omitempty"`
}

func ToAppointmentListDTO(ap models.Appointment) AppointmentListDTO {
	return AppointmentListDTO{
		ID:           ap.ID,
		StartTime:    ap.StartTime,
		EndTime:      ap.EndTime,
		Status:       ap.Status,
		Version:      ap.Version,
		CustomerName: ap.Customer.Name,
		ServiceName:  ap.Service.Name,
		Notes:        ap.Notes,
	}
}

func ToAppointmentListDTOs(apps []models.Appointment) []AppointmentListDTO {
	out := make([]AppointmentListDTO, 0, len(apps))
	for _, ap := range apps {
		out = append(out, ToAppointmentListDTO(ap))
	}
	return out
}
