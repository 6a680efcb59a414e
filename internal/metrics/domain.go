package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "jobboard"

var (
	// ApplicationsSubmitted 统计成功提交的求职申请。
	ApplicationsSubmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "board",
			Name:      "applications_submitted_total",
			Help:      "成功提交的申请数量。",
		},
	)

	// ApplicationStatusChanges 按目标状态统计雇主的状态更新。
	ApplicationStatusChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "board",
			Name:      "application_status_changes_total",
			Help:      "申请状态更新次数，按目标状态划分。",
		},
		[]string{"status"},
	)

	// FavoriteToggles 按结果（added/removed）统计收藏切换。
	FavoriteToggles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "board",
			Name:      "favorite_toggles_total",
			Help:      "收藏切换次数。",
		},
		[]string{"result"},
	)

	// JobsExpired 统计因截止日期过期而下线的职位。
	JobsExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "board",
			Name:      "jobs_expired_total",
			Help:      "因截止日期已过而被下线的职位数量。",
		},
	)
)
