// Package relay delivers uploaded documents to the chat topic routed for their stage and field.
package relay

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/akademflow/backend/core"
	"github.com/akademflow/backend/core/routing"
)

const (
	transportName = "messaging transport"

	// AnonymousSubmitter is shown in captions when the uploader gave no name.
	AnonymousSubmitter = "Anonim"
)

type (
	// Guard rejects repeated deliveries of the same document to the same target.
	Guard interface {
		// Claim returns false when `key` was already claimed and not released.
		Claim(ctx context.Context, key string) (bool, error)
		Release(ctx context.Context, key string) error
	}

	// Archiver keeps a copy of every delivered document.
	Archiver interface {
		Archive(ctx context.Context, key string, doc core.OutgoingDocument) error
	}

	Document struct {
		Filename  string
		Content   []byte
		Stage     string
		Field     string
		FileType  string
		Submitter string
	}

	Receipt struct {
		OK                bool            `json:"ok"`
		ChatID            string          `json:"chatId"`
		TopicID           string          `json:"topicId"`
		TransportResponse json.RawMessage `json:"transportResponse"`
	}

	Option func(*Service)
)

func WithGuard(g Guard) Option {
	return func(svc *Service) { svc.guard = g }
}

func WithArchiver(a Archiver) Option {
	return func(svc *Service) { svc.archiver = a }
}

type Service struct {
	routes    *routing.Table
	transport core.DocumentTransport
	guard     Guard
	archiver  Archiver
	logger    core.Logger
	timeout   time.Duration
	location  *time.Location
	nowFunc   func() time.Time // mockable
}

func NewService(conf *core.Config, routes *routing.Table, transport core.DocumentTransport, logger core.Logger, opts ...Option) *Service {
	loc := conf.Location
	if loc == nil {
		loc = time.UTC
	}
	svc := &Service{
		routes:    routes,
		transport: transport,
		logger:    logger,
		timeout:   conf.Telegram.Timeout,
		location:  loc,
		nowFunc:   time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func (doc *Document) clean() {
	doc.Filename = core.CleanString(doc.Filename)
	doc.Stage = core.CleanString(doc.Stage)
	doc.Field = core.CleanString(doc.Field)
	doc.FileType = core.CleanString(doc.FileType)
	doc.Submitter = core.FirstNonEmpty(core.CleanString(doc.Submitter), AnonymousSubmitter)
}

func (doc *Document) validate() error {
	var flds []core.FieldError
	if doc.Filename == "" || len(doc.Content) == 0 {
		flds = append(flds, core.FieldError{Field: "file", Error: "this field is required"})
	}
	if doc.Stage == "" {
		flds = append(flds, core.FieldError{Field: "stage", Error: "this field is required"})
	}
	if doc.Field == "" {
		flds = append(flds, core.FieldError{Field: "field", Error: "this field is required"})
	}
	if len(flds) > 0 {
		return core.NewValidationError(nil, flds...)
	}
	return nil
}

// Relay resolves the target of `doc`, captions it and hands it to the transport.
func (svc *Service) Relay(ctx context.Context, doc Document) (Receipt, error) {
	doc.clean()
	if err := doc.validate(); err != nil {
		return Receipt{}, err
	}

	stage := core.NormalizeStage(doc.Stage)
	target, err := svc.routes.Resolve(stage, doc.Field)
	if err != nil {
		var nf *routing.NotFoundError
		if errors.As(err, &nf) && nf.ChatID != "" {
			svc.logger.Debug(fmt.Sprintf("stage %s is routed to chat %s but has no topic for %q", stage, nf.ChatID, doc.Field))
		}
		return Receipt{}, core.NewResolutionError(core.RoutingNotFound, fmt.Sprintf("%s / %s", stage, doc.Field))
	}

	ctx, cancel := svc.withTimeout(ctx)
	defer cancel()

	key := contentKey(target, doc.Content)
	if svc.guard != nil {
		ok, err := svc.guard.Claim(ctx, key)
		switch {
		case err != nil:
			svc.logger.Warn("upload de-dup unavailable", err)
		case !ok:
			return Receipt{}, core.ErrDuplicateUpload
		}
	}

	out := core.OutgoingDocument{
		ChatID:   target.ChatID,
		TopicID:  target.TopicID,
		Filename: doc.Filename,
		Content:  doc.Content,
		Caption:  Compose(stage, doc.Field, doc.FileType, doc.Submitter, svc.nowFunc().In(svc.location)),
	}
	resp, err := svc.transport.SendDocument(ctx, out)
	if err != nil {
		if svc.guard != nil {
			if rErr := svc.guard.Release(context.Background(), key); rErr != nil {
				svc.logger.Warn("releasing upload de-dup key", rErr)
			}
		}
		return Receipt{}, core.NewCollaboratorError(transportName, err)
	}

	if svc.archiver != nil {
		if err = svc.archiver.Archive(ctx, archiveKey(stage, doc, key), out); err != nil {
			svc.logger.Error("archiving document", err, core.Actor{Name: doc.Submitter})
		}
	}

	return Receipt{
		OK:                true,
		ChatID:            target.ChatID,
		TopicID:           target.TopicID,
		TransportResponse: resp,
	}, nil
}

func (svc *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if svc.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, svc.timeout)
}

// contentKey identifies a document's content at a target.
func contentKey(target routing.Target, content []byte) string {
	sum := sha256.Sum256(content)
	return fmt.Sprintf("%s:%s:%s", target.ChatID, target.TopicID, hex.EncodeToString(sum[:]))
}

func archiveKey(stage core.StageID, doc Document, key string) string {
	sum := key[len(key)-16:]
	return fmt.Sprintf("%s/%s/%s-%s", Slugify(string(stage)), Slugify(doc.Field), sum, doc.Filename)
}
