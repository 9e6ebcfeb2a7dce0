package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/appointra/scheduler/internal/httperr"
)

// writeBookingError maps use-case outcome codes onto HTTP responses. Lost
// races are 409s with a recovery suggestion, not server errors.
func writeBookingError(c *gin.Context, err error) {
	var be httperr.BusinessError
	if !errors.As(err, &be) {
		httperr.Internal(c, "internal_error", "something went wrong")
		return
	}

	switch be.Code {
	case httperr.CodeSlotTaken:
		httperr.Conflict(c, be.Code,
			"that time was just taken",
			"refresh availability and pick another slot")

	case httperr.CodeNoStaffAvailable:
		httperr.Conflict(c, be.Code,
			"no staff member is free at that time",
			"pick a different time or a specific staff member")

	case httperr.CodeStaleVersion:
		httperr.Conflict(c, be.Code,
			"the appointment changed while you were editing it",
			"reload the appointment and retry")

	case "company_not_found", "service_not_found", "staff_not_found", "appointment_not_found":
		httperr.NotFound(c, be.Code, "not found")

	case "invalid_date_or_time":
		httperr.BadRequest(c, be.Code, "date or time is invalid")

	case "too_soon":
		httperr.BadRequest(c, be.Code, "that time is in the past or too close")

	case "outside_working_hours":
		httperr.BadRequest(c, be.Code, "outside the staff member's working hours")

	case "invalid_state":
		httperr.BadRequest(c, be.Code, "the appointment is not in a state that allows this")

	default:
		httperr.BadRequest(c, be.Code, "request rejected")
	}
}
