package importer

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	"github.com/mikexportit-jpg/attendance/internal/attendance"
	"github.com/mikexportit-jpg/attendance/internal/events"
	"github.com/mikexportit-jpg/attendance/internal/messaging/kafka"
	"github.com/mikexportit-jpg/attendance/internal/schedule"
	"github.com/mikexportit-jpg/attendance/internal/shared/apperror"
	"github.com/mikexportit-jpg/attendance/internal/user"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ImportSummary reports what a bulk upload did. Bad rows are skipped and
// reported; they never abort the batch.
type ImportSummary struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

//go:generate mockgen -source=importer_service.go -destination=mock/importer_service_mock.go -package=mock
type Service interface {
	ImportXLSX(ctx context.Context, importedBy string, r io.Reader) (ImportSummary, error)
	Template() (*excelize.File, error)
}

type service struct {
	db             *sql.DB
	attendanceRepo attendance.Repository
	userRepo       user.Repository
	outbox         kafka.OutboxRepository
	policy         schedule.Policy
	logger         *zap.Logger
}

func NewService(
	db *sql.DB,
	attendanceRepo attendance.Repository,
	userRepo user.Repository,
	outbox kafka.OutboxRepository,
	policy schedule.Policy,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("importer.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("importer.service")
	}
	return &service{
		db:             db,
		attendanceRepo: attendanceRepo,
		userRepo:       userRepo,
		outbox:         outbox,
		policy:         policy,
		logger:         l,
	}
}

// ImportXLSX reads rows of {username, date, clock_in, clock_out} from the
// first sheet. The header row is skipped. An empty clock_out leaves the
// session open with provisional clock-in metrics; a full pair is settled
// immediately. The whole batch commits in one transaction together with an
// outbox event naming the touched users.
func (s *service) ImportXLSX(ctx context.Context, importedBy string, r io.Reader) (ImportSummary, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return ImportSummary{}, apperror.New(apperror.CodeInvalidInput, "Unreadable xlsx file", 400)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return ImportSummary{}, err
	}

	summary := ImportSummary{}
	batch := make([]attendance.Attendance, 0, len(rows))
	userCache := map[string]uuid.UUID{}
	touched := map[string]struct{}{}

	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if len(row) < 3 || row[0] == "" {
			continue
		}

		username := row[0]
		uid, ok := userCache[username]
		if !ok {
			u, err := s.userRepo.FindByUsername(ctx, username)
			if err != nil {
				summary.Skipped++
				summary.Errors = append(summary.Errors, fmt.Sprintf("row %d: unknown user %q", i+1, username))
				continue
			}
			uid = u.ID
			userCache[username] = uid
		}

		date, err := time.Parse("2006-01-02", row[1])
		if err != nil {
			summary.Skipped++
			summary.Errors = append(summary.Errors, fmt.Sprintf("row %d: bad date %q", i+1, row[1]))
			continue
		}

		clockIn, err := schedule.ParseTimeOfDay(row[2])
		if err != nil {
			summary.Skipped++
			summary.Errors = append(summary.Errors, fmt.Sprintf("row %d: bad clock_in %q", i+1, row[2]))
			continue
		}

		var clockOut *schedule.TimeOfDay
		if len(row) > 3 && row[3] != "" {
			out, err := schedule.ParseTimeOfDay(row[3])
			if err != nil {
				summary.Skipped++
				summary.Errors = append(summary.Errors, fmt.Sprintf("row %d: bad clock_out %q", i+1, row[3]))
				continue
			}
			if out < clockIn {
				summary.Skipped++
				summary.Errors = append(summary.Errors, fmt.Sprintf("row %d: clock_out before clock_in", i+1))
				continue
			}
			clockOut = &out
		}

		var metrics schedule.Metrics
		if clockOut != nil {
			metrics = schedule.ComputeMetrics(s.policy, date, &clockIn, clockOut)
		} else {
			metrics = schedule.ClockInMetrics(s.policy, date, clockIn)
		}

		userID := uid
		batch = append(batch, attendance.Attendance{
			ID:            uuid.New(),
			UserID:        &userID,
			Date:          date,
			ClockIn:       clockIn,
			ClockOut:      clockOut,
			OvertimeHours: metrics.OvertimeHours,
			LateMinutes:   metrics.LateMinutes,
			Source:        attendance.SourceImport,
		})
		touched[uid.String()] = struct{}{}
	}

	if len(batch) > 0 {
		if err := s.persistBatch(ctx, importedBy, batch, touched, summary.Skipped); err != nil {
			return ImportSummary{}, err
		}
	}

	summary.Imported = len(batch)
	s.logger.Info("attendance import finished",
		zap.Int("imported", summary.Imported),
		zap.Int("skipped", summary.Skipped),
	)
	return summary, nil
}

func (s *service) persistBatch(ctx context.Context, importedBy string, batch []attendance.Attendance, touched map[string]struct{}, skipped int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	txRepo := s.attendanceRepo.WithTx(tx)
	for i := range batch {
		if err := txRepo.Create(ctx, &batch[i]); err != nil {
			s.logger.Error("attendance import insert failed", zap.Error(err))
			return err
		}
	}

	userIDs := make([]string, 0, len(touched))
	for id := range touched {
		userIDs = append(userIDs, id)
	}

	event := events.AttendanceImportedEvent{
		EventType:  events.EventTypeAttendanceImported,
		ImportedBy: importedBy,
		UserIDs:    userIDs,
		Imported:   len(batch),
		Skipped:    skipped,
		OccurredAt: time.Now().UTC(),
	}
	outboxEvent, err := kafka.NewOutboxEvent(ctx, "attendance_import", uuid.NewString(), event.EventType, events.AttendanceImportedTopic, event)
	if err != nil {
		return err
	}
	if err := s.outbox.WithTx(tx).Create(ctx, outboxEvent); err != nil {
		return err
	}

	return tx.Commit()
}

// Template produces an empty workbook with the expected import columns.
func (s *service) Template() (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []string{"username", "date", "clock_in", "clock_out"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}
	return f, nil
}
