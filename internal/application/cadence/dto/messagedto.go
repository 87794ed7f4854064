package dto

import (
	"time"

	"github.com/samber/lo"

	"github.com/beneficlub/backoffice/internal/domain/cadence"
)

type MessageDTO struct {
	SID               string     `json:"sid"`
	RunID             string     `json:"run_id"`
	Cadence           string     `json:"cadence"`
	StepIndex         int        `json:"step_index"`
	Status            string     `json:"status"`
	Phone             string     `json:"phone,omitempty"`
	Body              string     `json:"body"`
	SendAt            time.Time  `json:"send_at"`
	Attempts          int        `json:"attempts"`
	LastError         string     `json:"last_error,omitempty"`
	ProviderMessageID string     `json:"provider_message_id,omitempty"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

type ListMessagesResponse struct {
	Messages []*MessageDTO `json:"messages"`
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}

type CancelMessagesResponse struct {
	Cancelled int64 `json:"cancelled"`
}

func ToMessageDTO(m *cadence.Message) *MessageDTO {
	return &MessageDTO{
		SID:               m.SID(),
		RunID:             m.RunID(),
		Cadence:           m.Cadence().String(),
		StepIndex:         m.StepIndex(),
		Status:            m.Status().String(),
		Phone:             m.Phone(),
		Body:              m.Body(),
		SendAt:            m.SendAt(),
		Attempts:          m.Attempts(),
		LastError:         m.LastError(),
		ProviderMessageID: m.ProviderMessageID(),
		CompletedAt:       m.CompletedAt(),
		CreatedAt:         m.CreatedAt(),
	}
}

func ToMessageDTOList(msgs []*cadence.Message) []*MessageDTO {
	return lo.Map(msgs, func(m *cadence.Message, _ int) *MessageDTO {
		return ToMessageDTO(m)
	})
}
