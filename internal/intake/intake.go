// Package intake implements the messaging-channel edge for Nivaran.
// Inbound messages either query an existing grievance's status or register
// a new grievance, with the first image attachment kept as report evidence.
package intake

import (
	"strings"

	"github.com/google/uuid"
)

// Media is one attachment from an inbound message. Data arrives base64
// encoded in the webhook body.
type Media struct {
	Data        []byte `json:"data"`
	ContentType string `json:"content_type"`
}

// Event is one inbound channel message.
type Event struct {
	Sender       string     `json:"sender"`
	Body         string     `json:"body"`
	Media        []Media    `json:"media"`
	PoliticianID *uuid.UUID `json:"politician_id,omitempty"`
}

// Reply is the outbound response to an inbound message.
type Reply struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

// ParseStatusQuery reports whether a message body is a status query and
// extracts the grievance id. The form is "STATUS <id>", case-insensitive.
func ParseStatusQuery(body string) (uuid.UUID, bool) {
	fields := strings.Fields(body)
	if len(fields) != 2 || !strings.EqualFold(fields[0], "STATUS") {
		return uuid.Nil, false
	}

	id, err := uuid.Parse(fields[1])
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func firstImage(media []Media) *Media {
	for i := range media {
		if strings.HasPrefix(media[i].ContentType, "image/") && len(media[i].Data) > 0 {
			return &media[i]
		}
	}
	return nil
}
