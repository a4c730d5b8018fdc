package availability

import (
	"context"
	"errors"
	"testing"

	"github.com/salabelleza/agenda-console/internal/model"
)

type fakeAppointments struct {
	appointments []model.Appointment
	err          error
	calls        int
}

func (f *fakeAppointments) ByStaff(_ context.Context, _ int64) ([]model.Appointment, error) {
	f.calls++
	return f.appointments, f.err
}

func scheduled(date, start, end string) model.Appointment {
	return model.Appointment{Status: model.AppointmentScheduled, Date: date, StartTime: start, EndTime: end}
}

func TestCheck_ConflictInsideInterval(t *testing.T) {
	source := &fakeAppointments{appointments: []model.Appointment{scheduled("2026-09-01", "09:00", "09:30")}}
	checker := NewChecker(source)

	for _, candidate := range []string{"09:00", "09:15", "09:29"} {
		result, err := checker.Check(context.Background(), 7, "2026-09-01", candidate)
		if err != nil {
			t.Fatalf("check %s: %v", candidate, err)
		}
		if !result.Determined || !result.Conflict {
			t.Fatalf("expected conflict at %s, got %+v", candidate, result)
		}
		if result.Blocking == nil || result.Blocking.StartTime != "09:00" {
			t.Fatalf("expected blocking appointment at %s, got %+v", candidate, result.Blocking)
		}
	}
}

func TestCheck_EndTimeIsFree(t *testing.T) {
	source := &fakeAppointments{appointments: []model.Appointment{scheduled("2026-09-01", "09:00", "09:30")}}
	checker := NewChecker(source)

	result, err := checker.Check(context.Background(), 7, "2026-09-01", "09:30")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !result.Determined || result.Conflict {
		t.Fatalf("09:30 should be free against [09:00, 09:30), got %+v", result)
	}
}

func TestCheck_OnlyScheduledBlocks(t *testing.T) {
	source := &fakeAppointments{appointments: []model.Appointment{
		{Status: model.AppointmentCancelled, Date: "2026-09-01", StartTime: "09:00", EndTime: "09:30"},
		{Status: model.AppointmentAttended, Date: "2026-09-01", StartTime: "09:00", EndTime: "09:30"},
	}}
	checker := NewChecker(source)

	result, err := checker.Check(context.Background(), 7, "2026-09-01", "09:15")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if result.Conflict {
		t.Fatalf("cancelled and attended appointments must not block, got %+v", result)
	}
}

func TestCheck_OtherDateDoesNotBlock(t *testing.T) {
	source := &fakeAppointments{appointments: []model.Appointment{scheduled("2026-09-02", "09:00", "09:30")}}
	checker := NewChecker(source)

	result, err := checker.Check(context.Background(), 7, "2026-09-01", "09:15")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if result.Conflict {
		t.Fatalf("a different date must not block, got %+v", result)
	}
}

func TestCheck_MissingInputsSkipCheck(t *testing.T) {
	source := &fakeAppointments{}
	checker := NewChecker(source)

	cases := []struct {
		staffID int64
		date    string
		start   string
	}{
		{0, "2026-09-01", "09:00"},
		{7, "", "09:00"},
		{7, "2026-09-01", ""},
	}
	for _, tc := range cases {
		result, err := checker.Check(context.Background(), tc.staffID, tc.date, tc.start)
		if err != nil {
			t.Fatalf("check %+v: %v", tc, err)
		}
		if result.Determined {
			t.Fatalf("missing inputs must leave the result undetermined, got %+v", result)
		}
	}
	if source.calls != 0 {
		t.Fatalf("no fetch expected with missing inputs, got %d", source.calls)
	}
}

func TestCheck_FetchFailureIsNotClearance(t *testing.T) {
	source := &fakeAppointments{err: errors.New("backend down")}
	checker := NewChecker(source)

	result, err := checker.Check(context.Background(), 7, "2026-09-01", "09:15")
	if !errors.Is(err, ErrCheckUnavailable) {
		t.Fatalf("expected ErrCheckUnavailable, got %v", err)
	}
	if result.Determined || result.Conflict {
		t.Fatalf("a failed fetch must not determine anything, got %+v", result)
	}
}

func TestMinutesOfDay(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"00:00", 0, true},
		{"09:30", 570, true},
		{"23:59", 1439, true},
		{"09:30:00", 570, true},
		{"9", 0, false},
		{"24:00", 0, false},
		{"09:60", 0, false},
	}
	for _, tc := range cases {
		got, err := MinutesOfDay(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("MinutesOfDay(%q) = %d, %v; want %d", tc.in, got, err, tc.want)
		}
		if !tc.ok && err == nil {
			t.Fatalf("MinutesOfDay(%q) should fail", tc.in)
		}
	}
}

func TestEndTime(t *testing.T) {
	got, err := EndTime("09:00", 45)
	if err != nil || got != "09:45" {
		t.Fatalf("EndTime(09:00, 45) = %q, %v", got, err)
	}
	got, err = EndTime("23:30", 60)
	if err != nil || got != "00:30" {
		t.Fatalf("EndTime(23:30, 60) = %q, %v; expected midnight wrap", got, err)
	}
}
