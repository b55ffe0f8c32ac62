package types

import (
	"encoding/json"
	"strings"
)

type DetailMode string

const (
	DetailModeUserOnly     DetailMode = "user_only"
	DetailModeConversation DetailMode = "conversation"
	DetailModeFull         DetailMode = "full"
)

var detailModes = []DetailMode{DetailModeUserOnly, DetailModeConversation, DetailModeFull}

func DetailModes() []DetailMode {
	return append([]DetailMode(nil), detailModes...)
}

func ParseDetailMode(raw string) (DetailMode, bool) {
	value := strings.ToLower(strings.TrimSpace(raw))
	value = strings.ReplaceAll(value, "-", "_")
	for _, mode := range detailModes {
		if string(mode) == value {
			return mode, true
		}
	}
	return "", false
}

// Next cycles user_only -> conversation -> full -> user_only.
func (m DetailMode) Next() DetailMode {
	for i, mode := range detailModes {
		if mode == m {
			return detailModes[(i+1)%len(detailModes)]
		}
	}
	return DetailModeUserOnly
}

func (m DetailMode) Label() string {
	switch m {
	case DetailModeUserOnly:
		return "User messages"
	case DetailModeConversation:
		return "Conversation"
	case DetailModeFull:
		return "Full events"
	default:
		return string(m)
	}
}

type SessionToolEvent struct {
	Name   string          `json:"name"`
	Input  json.RawMessage `json:"input,omitempty"`
	Output string          `json:"output,omitempty"`
	Status string          `json:"status,omitempty"`
}

type SessionEvent struct {
	Actor       string            `json:"actor"`
	Category    string            `json:"category"`
	Label       string            `json:"label"`
	Text        string            `json:"text"`
	SummaryText string            `json:"summary_text"`
	Timestamp   string            `json:"timestamp,omitempty"`
	Data        json.RawMessage   `json:"data,omitempty"`
	Tool        *SessionToolEvent `json:"tool,omitempty"`
}

func (e SessionEvent) IsUser() bool {
	return strings.EqualFold(strings.TrimSpace(e.Actor), "user")
}

// DisplayText prefers the full text and falls back to the summary.
func (e SessionEvent) DisplayText() string {
	if strings.TrimSpace(e.Text) != "" {
		return e.Text
	}
	return e.SummaryText
}

type SessionDetailResponse struct {
	Provider  string         `json:"provider"`
	SessionID string         `json:"session_id"`
	Mode      DetailMode     `json:"mode,omitempty"`
	Events    []SessionEvent `json:"events"`
}

// UserMessages returns the texts of user-authored events in order.
func (r *SessionDetailResponse) UserMessages() []string {
	if r == nil {
		return nil
	}
	out := make([]string, 0, len(r.Events))
	for _, event := range r.Events {
		if !event.IsUser() {
			continue
		}
		out = append(out, event.DisplayText())
	}
	return out
}
