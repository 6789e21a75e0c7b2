package dto

import (
	"time"

	"job-portal/internal/domain/notification"
	"job-portal/internal/usecase"

	"github.com/google/uuid"
)

type NotificationResponse struct {
	ID        uuid.UUID         `json:"id"`
	Type      notification.Type `json:"type"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	JobID     *uuid.UUID        `json:"jobId,omitempty"`
	Read      bool              `json:"read"`
	CreatedAt time.Time         `json:"createdAt"`
}

func NewNotificationResponses(items []notification.Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(items))
	for _, n := range items {
		out = append(out, NotificationResponse{
			ID:        n.ID,
			Type:      n.Type,
			Title:     n.Title,
			Message:   n.Message,
			JobID:     n.JobID,
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		})
	}
	return out
}

type SummaryResponse struct {
	TotalUsers        int `json:"totalUsers"`
	TotalJobs         int `json:"totalJobs"`
	TotalApplications int `json:"totalApplications"`
	ActiveSessions    int `json:"activeSessions"`
}

func NewSummaryResponse(s usecase.Summary) SummaryResponse {
	return SummaryResponse{
		TotalUsers:        s.TotalUsers,
		TotalJobs:         s.TotalJobs,
		TotalApplications: s.TotalApplications,
		ActiveSessions:    s.ActiveSessions,
	}
}

type AnalyticsResponse struct {
	ApplicationRate int      `json:"applicationRate"`
	TopCategories   []string `json:"topCategories"`
	UserGrowth      []int    `json:"userGrowth"`
	JobGrowth       []int    `json:"jobGrowth"`
}

func NewAnalyticsResponse(a usecase.Analytics) AnalyticsResponse {
	return AnalyticsResponse{
		ApplicationRate: a.ApplicationRate,
		TopCategories:   a.TopCategories,
		UserGrowth:      a.UserGrowth,
		JobGrowth:       a.JobGrowth,
	}
}

type BroadcastResponse struct {
	Recipients int `json:"recipients"`
}
