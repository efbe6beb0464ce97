package attendance_test

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/akademflow/backend/core"
	. "github.com/akademflow/backend/core/attendance"
	inmemdb "github.com/akademflow/backend/storage/inmem"
	"github.com/akademflow/backend/testutil"
)

func newService(t *testing.T, conf *core.Config) (*Service, *inmemdb.DB, *testutil.Logger) {
	t.Helper()
	validate := validator.New()
	core.InitValidators(validate, core.NewTranslator())
	db := inmemdb.Open()
	logger := testutil.NewLogger()
	return NewService(conf, db, validate, logger), db, logger
}

func TestService_Save(t *testing.T) {
	svc, db, logger := newService(t, testutil.NewConfig())
	db.Seed("sheet-1", "Economics", [][]string{{"N", "F.I.SH"}, {"1", "Ali Valiyev"}})

	res, err := svc.Save(context.Background(), Submission{
		Stage:     "first",
		Field:     "Economics",
		Date:      "2025-09-07",
		Time:      "09:00",
		Submitter: "Ustoz",
		Attendance: Entries{
			{Student: "Ali Valiyev", Status: "keldi"},
			{Student: "Vali Aliyev", Status: "sababli"},
		},
	})
	require.NoError(t, err)

	assert.True(t, res.OK)
	assert.Equal(t, core.StageOne, res.Stage)
	assert.Equal(t, "Economics", res.Field)
	assert.Equal(t, "2025-09-07", res.Date)
	assert.Equal(t, "09:00", res.Time)
	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, []string{"Vali Aliyev"}, res.Missing)
	assert.Equal(t, "keldi", db.Snapshot("sheet-1", "Economics")[1][2])

	warnings := logger.Entries("warn")
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Args, core.Actor{Name: "Ustoz"})
}

func TestService_Save_defaults(t *testing.T) {
	svc, db, _ := newService(t, testutil.NewConfig())
	SetNowFunc(svc, func() time.Time { return time.Date(2025, 9, 8, 14, 30, 0, 0, time.UTC) })

	res, err := svc.Save(context.Background(), Submission{
		Specialization: "magistr",
		Field:          "Physics",
		Attendance:     Entries{{Student: "Ali", Status: "present"}},
	})
	require.NoError(t, err)

	assert.Equal(t, core.StageTwo, res.Stage)
	assert.Equal(t, "2025-09-08", res.Date)
	assert.Equal(t, "14:30", res.Time)
	assert.Equal(t, []string{"N", "F.I.SH", "2025-09-08"}, db.Snapshot("sheet-2", "Physics")[0])
}

func TestService_Save_errors(t *testing.T) {
	noSheet := testutil.NewConfig()
	noSheet.Ledger.Spreadsheets = map[core.StageID]string{core.StageOne: "sheet-1"}

	valid := func(stage string) Submission {
		return Submission{
			Stage:      stage,
			Field:      "Economics",
			Date:       "2025-09-07",
			Time:       "09:00",
			Attendance: Entries{{Student: "Ali", Status: "keldi"}},
		}
	}
	invalidStatus := valid("first")
	invalidStatus.Attendance = Entries{{Student: "Ali", Status: "keldi"}, {Student: "Vali", Status: "late"}}

	tests := []struct {
		name  string
		conf  *core.Config
		sub   Submission
		check func(t *testing.T, err error)
	}{
		{
			name: "invalid status",
			conf: testutil.NewConfig(),
			sub:  invalidStatus,
			check: func(t *testing.T, err error) {
				var vErr *core.ValidationError
				require.True(t, errors.As(err, &vErr))
				var invErr *InvalidStatusError
				require.True(t, errors.As(err, &invErr))
				assert.Equal(t, "late", invErr.Token)
			},
		},
		{
			name: "unknown stage",
			conf: testutil.NewConfig(),
			sub:  valid("uchinchi"),
			check: func(t *testing.T, err error) {
				var rErr *core.ResolutionError
				require.True(t, errors.As(err, &rErr))
				assert.Equal(t, core.UnknownStage, rErr.Kind)
			},
		},
		{
			name: "no spreadsheet",
			conf: noSheet,
			sub:  valid("second"),
			check: func(t *testing.T, err error) {
				var cErr *core.CollaboratorError
				require.True(t, errors.As(err, &cErr))
				assert.Equal(t, "ledger store", cErr.Name)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, db, _ := newService(t, tt.conf)
			_, err := svc.Save(context.Background(), tt.sub)
			require.Error(t, err)
			tt.check(t, err)
			assert.Nil(t, db.Snapshot("sheet-1", "Economics"), "ledger must not be touched")
		})
	}
}

func TestService_Export(t *testing.T) {
	svc, db, _ := newService(t, testutil.NewConfig())
	rows := [][]string{{"N", "F.I.SH", "2025-09-07"}, {"1", "Ali", "keldi"}, {"", "Last_Submit", "09:00"}}
	db.Seed("sheet-1", "Economics", rows)

	buf, err := svc.Export(context.Background(), "1-bosqich", "Economics")
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	got, err := f.GetRows("Economics")
	require.NoError(t, err)
	assert.Equal(t, rows, got)

	_, err = svc.Export(context.Background(), "1-bosqich", " ")
	var vErr *core.ValidationError
	assert.True(t, errors.As(err, &vErr))
}
