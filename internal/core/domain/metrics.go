package domain

import (
	"fmt"
	"time"
)

// ServerMetrics is one sample of server activity.
type ServerMetrics struct {
	Uptime            string            `json:"uptime"`
	UptimeSeconds     int64             `json:"uptime_seconds"`
	CPUPercent        float64           `json:"cpu_percent"`
	MemoryMB          float64           `json:"memory_mb"`
	Goroutines        int               `json:"goroutines"`
	ActiveConnections int64             `json:"active_connections"`
	MaxConnections    int64             `json:"max_connections"`
	TotalConnections  int64             `json:"total_connections"`
	Dependencies      map[string]string `json:"dependencies,omitempty"`
	SampledAt         time.Time         `json:"sampled_at"`
}

// FormatUptime renders d as "Xd Xh Xm Xs".
func FormatUptime(d time.Duration) string {
	secs := int64(d / time.Second)
	days := secs / 86400
	secs %= 86400
	hours := secs / 3600
	secs %= 3600
	mins := secs / 60
	secs %= 60
	return fmt.Sprintf("%dd %dh %dm %ds", days, hours, mins, secs)
}
