package server

import (
	"time"

	"verbline/internal/domain"
)

// Request payloads

type CreateVerbRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type SetStateRequest struct {
	State  string `json:"state" enum:"captured,active,paused,done,dropped"`
	Reason string `json:"reason,omitempty"`
}

type DropVerbRequest struct {
	Reason string `json:"reason,omitempty"`
}

// Response payloads

type VerbResponse struct {
	ID          string `json:"id" format:"uuid"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	State       string `json:"state" enum:"captured,active,paused,done,dropped"`
	CreatedAt   string `json:"created_at" format:"date-time"`
	UpdatedAt   string `json:"updated_at" format:"date-time"`
}

type VerbListResponse struct {
	Verbs  []VerbResponse `json:"verbs"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

type ActionLogResponse struct {
	ID         string  `json:"id" format:"uuid"`
	VerbID     string  `json:"verb_id" format:"uuid"`
	ActionType string  `json:"action_type" enum:"created,activated,paused,completed,dropped"`
	FromState  *string `json:"from_state,omitempty"`
	ToState    string  `json:"to_state"`
	Reason     string  `json:"reason,omitempty"`
	Timestamp  string  `json:"timestamp" format:"date-time"`
}

// Conversion helpers

func verbResponse(v domain.Verb) VerbResponse {
	return VerbResponse{
		ID:          v.ID.String(),
		Title:       v.Title,
		Description: v.Description,
		State:       v.State.String(),
		CreatedAt:   v.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:   v.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func mapVerbs(in []domain.Verb) []VerbResponse {
	res := make([]VerbResponse, 0, len(in))
	for _, v := range in {
		res = append(res, verbResponse(v))
	}
	return res
}

func logResponse(l domain.ActionLog) ActionLogResponse {
	res := ActionLogResponse{
		ID:         l.ID.String(),
		VerbID:     l.VerbID.String(),
		ActionType: l.ActionType.String(),
		ToState:    l.ToState.String(),
		Reason:     l.Reason,
		Timestamp:  l.Timestamp.UTC().Format(time.RFC3339Nano),
	}
	if l.FromState != nil {
		from := l.FromState.String()
		res.FromState = &from
	}
	return res
}

func mapLogs(in []domain.ActionLog) []ActionLogResponse {
	res := make([]ActionLogResponse, 0, len(in))
	for _, l := range in {
		res = append(res, logResponse(l))
	}
	return res
}
