package importer

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/mikexportit-jpg/attendance/internal/attendance"
	"github.com/mikexportit-jpg/attendance/internal/events"
	"github.com/mikexportit-jpg/attendance/internal/messaging/kafka"
	"github.com/mikexportit-jpg/attendance/internal/schedule"
	"github.com/mikexportit-jpg/attendance/internal/user"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeAttendanceRepo struct {
	attendance.Repository
	created []attendance.Attendance
}

func (f *fakeAttendanceRepo) WithTx(tx *sql.Tx) attendance.Repository { return f }
func (f *fakeAttendanceRepo) Create(ctx context.Context, a *attendance.Attendance) error {
	f.created = append(f.created, *a)
	return nil
}

type fakeUserRepo struct {
	user.Repository
	byUsername map[string]*user.User
}

func (f *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	if u, ok := f.byUsername[username]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeOutbox struct {
	events []kafka.OutboxEvent
}

func (f *fakeOutbox) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }
func (f *fakeOutbox) Create(ctx context.Context, e kafka.OutboxEvent) error {
	f.events = append(f.events, e)
	return nil
}
func (f *fakeOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error                  { return nil }
func (f *fakeOutbox) MarkFailed(ctx context.Context, id string, reason string) error { return nil }

func importWorkbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	_ = f.SetSheetRow(sheet, "A1", &[]any{"username", "date", "clock_in", "clock_out"})
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		r := row
		_ = f.SetSheetRow(sheet, cell, &r)
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatal(err)
	}
	return &buf
}

func TestService_ImportXLSX(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	alice := &user.User{ID: uuid.New(), Username: "alice"}
	repo := &fakeAttendanceRepo{}
	outbox := &fakeOutbox{}
	users := &fakeUserRepo{byUsername: map[string]*user.User{"alice": alice}}
	svc := NewService(db, repo, users, outbox, schedule.DefaultPolicy(), zap.NewNop())

	// Monday 2025-06-02: late arrival and a post-window clock-out.
	buf := importWorkbook(t, [][]any{
		{"alice", "2025-06-02", "10:20", "19:30"},
		{"alice", "2025-06-03", "10:00", ""},
		{"bob", "2025-06-02", "10:00", "19:00"},
		{"alice", "2025-06-04", "nonsense", "19:00"},
	})

	summary, err := svc.ImportXLSX(context.Background(), "manager-1", buf)

	assert.NoError(t, err)
	assert.Equal(t, 2, summary.Imported)
	assert.Equal(t, 2, summary.Skipped)
	assert.Len(t, summary.Errors, 2)

	assert.Len(t, repo.created, 2)
	first := repo.created[0]
	assert.Equal(t, alice.ID, *first.UserID)
	assert.Equal(t, attendance.SourceImport, first.Source)
	assert.Equal(t, 20, first.LateMinutes)
	assert.InDelta(t, 0.5, first.OvertimeHours, 1e-9)

	second := repo.created[1]
	assert.Nil(t, second.ClockOut)

	assert.Len(t, outbox.events, 1)
	var event events.AttendanceImportedEvent
	assert.NoError(t, json.Unmarshal(outbox.events[0].Payload, &event))
	assert.Equal(t, events.EventTypeAttendanceImported, event.EventType)
	assert.Equal(t, "manager-1", event.ImportedBy)
	assert.Equal(t, []string{alice.ID.String()}, event.UserIDs)
	assert.Equal(t, 2, event.Imported)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_ImportXLSXRejectsReversedPair(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	alice := &user.User{ID: uuid.New(), Username: "alice"}
	svc := NewService(db, &fakeAttendanceRepo{}, &fakeUserRepo{byUsername: map[string]*user.User{"alice": alice}}, &fakeOutbox{}, schedule.DefaultPolicy(), zap.NewNop())

	buf := importWorkbook(t, [][]any{
		{"alice", "2025-06-02", "15:00", "12:00"},
	})

	summary, err := svc.ImportXLSX(context.Background(), "manager-1", buf)

	assert.NoError(t, err)
	assert.Zero(t, summary.Imported)
	assert.Equal(t, 1, summary.Skipped)
	assert.NoError(t, mock.ExpectationsWereMet()) // nothing persisted
}

func TestService_ImportXLSXUnreadableFile(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()
	svc := NewService(db, &fakeAttendanceRepo{}, &fakeUserRepo{}, &fakeOutbox{}, schedule.DefaultPolicy(), zap.NewNop())

	_, err := svc.ImportXLSX(context.Background(), "manager-1", bytes.NewReader([]byte("not an xlsx")))

	assert.Error(t, err)
}

func TestService_Template(t *testing.T) {
	svc := NewService(nil, &fakeAttendanceRepo{}, &fakeUserRepo{}, &fakeOutbox{}, schedule.DefaultPolicy(), zap.NewNop())

	f, err := svc.Template()

	assert.NoError(t, err)
	sheet := f.GetSheetName(0)
	v, _ := f.GetCellValue(sheet, "C1")
	assert.Equal(t, "clock_in", v)
	_ = f.Close()
}
