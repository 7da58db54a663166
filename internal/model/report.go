package model

import (
	"time"

	"github.com/google/uuid"
)

// StatusCount is an appointment count grouped by status.
type StatusCount struct {
	Status AppointmentStatus `db:"status" json:"status"`
	Count  int               `db:"count" json:"count"`
}

// ServiceRevenue is completed-appointment revenue per service.
type ServiceRevenue struct {
	ServiceID    uuid.UUID `db:"service_id" json:"service_id"`
	ServiceName  string    `db:"service_name" json:"service_name"`
	Appointments int       `db:"appointments" json:"appointments"`
	RevenueCents int64     `db:"revenue_cents" json:"revenue_cents"`
}

// TherapistLoad is per-therapist appointment workload.
type TherapistLoad struct {
	TherapistID  uuid.UUID `db:"therapist_id" json:"therapist_id"`
	Name         string    `db:"name" json:"name"`
	Appointments int       `db:"appointments" json:"appointments"`
	Completed    int       `db:"completed" json:"completed"`
	Canceled     int       `db:"canceled" json:"canceled"`
}

// ReportRange bounds a reporting query.
type ReportRange struct {
	From time.Time `form:"from" time_format:"2006-01-02"`
	To   time.Time `form:"to" time_format:"2006-01-02"`
}
