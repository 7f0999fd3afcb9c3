package http

import "github.com/randomtoy/tarot-studio/internal/domain"

// DrawRequest is the body of POST /v1/draw.
type DrawRequest struct {
	SpreadID            string   `json:"spreadId" validate:"required"`
	AllowDuplicates     bool     `json:"allowDuplicates"`
	ForceReversed       *bool    `json:"forceReversed"`
	ReversedProbability *float64 `json:"reversedProbability" validate:"omitempty,gte=0,lte=1"`
	// Redraw starts a fresh session before drawing.
	Redraw bool `json:"redraw"`
}

// CardRef names a card already drawn by the client.
type CardRef struct {
	ID         string `json:"id" validate:"required"`
	IsReversed bool   `json:"isReversed"`
}

// ReadingRequest is the body of POST /v1/readings. When Cards is empty a hand
// is drawn for the spread; otherwise the given hand is interpreted.
type ReadingRequest struct {
	SpreadID            string    `json:"spreadId" validate:"required"`
	Question            string    `json:"question" validate:"max=500"`
	Cards               []CardRef `json:"cards" validate:"omitempty,dive"`
	AllowDuplicates     bool      `json:"allowDuplicates"`
	ForceReversed       *bool     `json:"forceReversed"`
	ReversedProbability *float64  `json:"reversedProbability" validate:"omitempty,gte=0,lte=1"`
}

type ReadingResponse struct {
	Reading   domain.Reading `json:"reading"`
	SessionID string         `json:"sessionId,omitempty"`
	Saved     bool           `json:"saved"`
	Meta      MetaResp       `json:"meta"`
}

type CleanupResponse struct {
	Removed    int `json:"removed"`
	MaxAgeDays int `json:"maxAgeDays"`
}

type MetaResp struct {
	RequestID string `json:"request_id"`
	LatencyMS int64  `json:"latency_ms"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
