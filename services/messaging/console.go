package messagingsvc

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/akademflow/backend/core"
)

var (
	SentDocuments = make([]core.OutgoingDocument, 0)
	mu            sync.Mutex
)

// consoleService prints documents instead of sending them.
type consoleService struct {
	disableOutput bool
}

var _ core.DocumentTransport = (*consoleService)(nil)

func NewConsoleService() core.DocumentTransport {
	return &consoleService{}
}

func (svc consoleService) SendDocument(ctx context.Context, doc core.OutgoingDocument) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	mu.Lock()
	SentDocuments = append(SentDocuments, doc)
	mu.Unlock()

	if !svc.disableOutput {
		body := new(strings.Builder)
		_, _ = fmt.Fprintf(body, "Date: %s\n", time.Now().Format(time.RFC1123Z))
		_, _ = fmt.Fprintf(body, "Chat: %s\n", doc.ChatID)
		_, _ = fmt.Fprintf(body, "Topic: %s\n", doc.TopicID)
		_, _ = fmt.Fprintf(body, "Document: %s (%d bytes)\n\n", doc.Filename, len(doc.Content))
		_, _ = fmt.Fprintf(body, "%s\n", doc.Caption)
		log.Println(body.String())
	}
	return json.RawMessage(`{"ok":true,"result":{"console":true}}`), nil
}

func NewConsoleServiceMock() core.DocumentTransport {
	return &consoleService{disableOutput: true}
}

// ResetSentDocuments clears SentDocuments.
func ResetSentDocuments() {
	mu.Lock()
	SentDocuments = make([]core.OutgoingDocument, 0)
	mu.Unlock()
}
