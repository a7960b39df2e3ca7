package services

import "github.com/prometheus/client_golang/prometheus"

var (
	reportsSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cleancity_reports_submitted_total",
			Help: "Reports accepted, by severity.",
		},
		[]string{"severity"},
	)
	pointsAwarded = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cleancity_points_awarded_total",
		Help: "Points credited to users for accepted reports.",
	})
	reportsCleaned = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cleancity_reports_cleaned_total",
		Help: "Reports transitioned from pending to cleaned.",
	})
	assistantReplies = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cleancity_assistant_replies_total",
			Help: "Assistant turns emitted, by rule or action.",
		},
		[]string{"rule"},
	)
)

func init() {
	prometheus.MustRegister(reportsSubmitted, pointsAwarded, reportsCleaned, assistantReplies)
}
