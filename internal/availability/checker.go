// Package availability decides whether a candidate appointment time is free
// for a staff member. Only PROGRAMADA appointments block a slot; attended and
// cancelled ones never do.
package availability

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/salabelleza/agenda-console/internal/model"
)

// ErrCheckUnavailable means the appointment fetch failed. The caller must
// treat the slot as undetermined, never as free.
var ErrCheckUnavailable = errors.New("availability could not be verified")

// StaffAppointments is the one read the checker needs.
type StaffAppointments interface {
	ByStaff(ctx context.Context, staffID int64) ([]model.Appointment, error)
}

type Checker struct {
	appointments StaffAppointments
}

func NewChecker(appointments StaffAppointments) *Checker {
	return &Checker{appointments: appointments}
}

// Result of a conflict check. Determined is false when inputs were missing
// and no check was performed: neither conflict nor clearance is signaled.
type Result struct {
	Determined bool
	Conflict   bool
	Blocking   *model.Appointment
}

// Check reports whether staffID already holds a PROGRAMADA appointment on
// date whose span [start, end) contains startTime. A candidate equal to an
// existing appointment's end time is not a conflict (half-open interval).
//
// On fetch failure the returned error wraps ErrCheckUnavailable and the
// result is undetermined; the previous validity state must stand.
func (c *Checker) Check(ctx context.Context, staffID int64, date, startTime string) (Result, error) {
	if staffID == 0 || date == "" || startTime == "" {
		return Result{}, nil
	}

	candidate, err := MinutesOfDay(startTime)
	if err != nil {
		return Result{}, fmt.Errorf("invalid candidate time %q: %w", startTime, err)
	}

	appointments, err := c.appointments.ByStaff(ctx, staffID)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrCheckUnavailable, err)
	}

	for i := range appointments {
		appt := appointments[i]
		if appt.Status != model.AppointmentScheduled || appt.Date != date {
			continue
		}
		start, err := MinutesOfDay(appt.StartTime)
		if err != nil {
			continue
		}
		end, err := MinutesOfDay(appt.EndTime)
		if err != nil {
			continue
		}
		if candidate >= start && candidate < end {
			return Result{Determined: true, Conflict: true, Blocking: &appointments[i]}, nil
		}
	}
	return Result{Determined: true}, nil
}

// MinutesOfDay converts "HH:MM" (seconds tolerated and ignored) to minutes
// since midnight.
func MinutesOfDay(t string) (int, error) {
	parts := strings.Split(t, ":")
	if len(parts) < 2 {
		return 0, fmt.Errorf("malformed time %q", t)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("malformed hour in %q", t)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("malformed minute in %q", t)
	}
	return h*60 + m, nil
}

// EndTime derives the end of a slot from its start plus the service duration,
// in the backend's HH:MM format. Used when building creation payloads.
func EndTime(startTime string, durationMinutes int) (string, error) {
	start, err := MinutesOfDay(startTime)
	if err != nil {
		return "", err
	}
	end := (start + durationMinutes) % (24 * 60)
	return fmt.Sprintf("%02d:%02d", end/60, end%60), nil
}
