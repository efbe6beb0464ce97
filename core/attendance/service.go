package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/akademflow/backend/core"
)

const storeName = "ledger store"

type Service struct {
	store        Store
	ledger       *Ledger
	spreadsheets map[core.StageID]string
	validate     *validator.Validate
	logger       core.Logger
	timeout      time.Duration
	location     *time.Location
	nowFunc      func() time.Time // mockable
}

func NewService(conf *core.Config, store Store, validate *validator.Validate, logger core.Logger) *Service {
	loc := conf.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		store: store,
		ledger: NewLedger(LedgerOptions{
			SequenceLabel:     conf.Ledger.SequenceLabel,
			NameLabel:         conf.Ledger.NameLabel,
			Labels:            NewStatusLabels(conf.Ledger.StatusLabels),
			CreateMissingRows: conf.Ledger.CreateMissingRows,
		}),
		spreadsheets: conf.Ledger.Spreadsheets,
		validate:     validate,
		logger:       logger,
		timeout:      conf.Ledger.Timeout,
		location:     loc,
		nowFunc:      time.Now,
	}
}

func (svc *Service) now() time.Time {
	return svc.nowFunc().In(svc.location)
}

func (svc *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if svc.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, svc.timeout)
}

// Save validates the submission and synchronizes it into the ledger of its stage and field.
func (svc *Service) Save(ctx context.Context, sub Submission) (Result, error) {
	sub.Clean(svc.now())
	marks, err := sub.Validate(svc.validate)
	if err != nil {
		return Result{}, err
	}

	ctx, cancel := svc.withTimeout(ctx)
	defer cancel()

	stage := core.NormalizeStage(sub.Stage)
	ws, err := svc.worksheet(ctx, stage, sub.Field)
	if err != nil {
		return Result{}, err
	}

	res, err := svc.ledger.Sync(ctx, ws, sub.Date, sub.Time, marks)
	if err != nil {
		return Result{}, core.NewCollaboratorError(storeName, err)
	}
	if len(res.Missing) > 0 {
		svc.logger.Warn(
			fmt.Sprintf("%d student(s) not found in %s / %s", len(res.Missing), stage, sub.Field),
			map[string]interface{}{"date": sub.Date, "missing": res.Missing},
			sub.Actor(),
		)
	}

	return Result{
		OK:         true,
		Stage:      stage,
		Field:      sub.Field,
		Date:       sub.Date,
		Time:       sub.Time,
		SyncResult: res,
	}, nil
}

// Snapshot returns every row of the ledger of `stage` and `field`.
func (svc *Service) Snapshot(ctx context.Context, stage, field string) ([][]string, error) {
	field = core.CleanString(field)
	if field == "" {
		return nil, core.NewValidationError(nil, core.FieldError{Field: "field", Error: "this field is required"})
	}

	ctx, cancel := svc.withTimeout(ctx)
	defer cancel()

	ws, err := svc.worksheet(ctx, core.NormalizeStage(stage), field)
	if err != nil {
		return nil, err
	}
	rows, err := ws.Rows(ctx)
	if err != nil {
		return nil, core.NewCollaboratorError(storeName, errors.Wrap(err, "reading ledger"))
	}
	return rows, nil
}

func (svc *Service) worksheet(ctx context.Context, stage core.StageID, field string) (Worksheet, error) {
	if !stage.Known() {
		return nil, core.NewResolutionError(core.UnknownStage, string(stage))
	}
	id := svc.spreadsheets[stage]
	if id == "" {
		return nil, core.NewCollaboratorError(storeName, core.NewResolutionError(core.NoSpreadsheet, string(stage)))
	}
	ws, err := svc.store.Worksheet(ctx, id, field)
	if err != nil {
		return nil, core.NewCollaboratorError(storeName, errors.Wrapf(err, "opening worksheet %q", field))
	}
	return ws, nil
}
