package core

import (
	"context"
	"encoding/json"
)

type (
	// OutgoingDocument is a binary document addressed to a chat (and optionally a forum topic inside it).
	OutgoingDocument struct {
		ChatID   string
		TopicID  string
		Filename string
		Content  []byte
		Caption  string // HTML
	}

	// DocumentTransport is any messaging service that can deliver documents.
	DocumentTransport interface {
		// SendDocument delivers the document and returns the transport's own response payload.
		SendDocument(ctx context.Context, doc OutgoingDocument) (json.RawMessage, error)
	}
)
