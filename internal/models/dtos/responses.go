package dtos

import "time"

type APIResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	ResponseTime string `json:"response_time"`
	Data         any    `json:"data,omitempty"`
}

type SessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type LayoutResponse struct {
	UserID           string   `json:"userId"`
	ColumnOrder      []string `json:"columnOrder"`
	ColumnVisibility []string `json:"columnVisibility"`
	CreatorName      string   `json:"creatorName"`
	CreatorURL       string   `json:"creatorUrl"`
	Source           string   `json:"source"`
}

type PendingMutation struct {
	Operation string    `json:"operation"`
	TargetID  string    `json:"targetId"`
	StartedAt time.Time `json:"startedAt"`
}

type Notification struct {
	ID        string    `json:"id"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
