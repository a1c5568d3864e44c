package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// User Activity Metrics
	NewUsersTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_new_users_total",
		Help: "Total number of new user registrations.",
	})
	LoginAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "app_login_attempts_total",
		Help: "Total number of login attempts (successful and failed).",
	}, []string{"status"}) // status: "success" or "failed"
	OTPIssuedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_otp_issued_total",
		Help: "Total number of one-time passcodes issued.",
	})
	OTPVerificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "app_otp_verifications_total",
		Help: "Total number of OTP verification attempts.",
	}, []string{"status"})

	// Application-Specific Feature Usage Metrics
	NoteCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_note_created_total",
		Help: "Total number of notes created.",
	})
	SummaryGeneratedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_summary_generated_total",
		Help: "Total number of note summaries generated.",
	})
)
