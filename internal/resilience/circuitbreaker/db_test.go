package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sony/gobreaker"
)

func TestNewDB(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer func() { _ = db.Close() }()

	d := NewDB(db)

	if d.Unwrap() != db {
		t.Error("expected db to be set")
	}
	if d.State() != gobreaker.StateClosed {
		t.Errorf("expected initial state to be Closed, got %s", d.State())
	}
}

func TestDB_QueryAndExec(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer func() { _ = db.Close() }()

	d := NewDB(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT payload FROM payloads").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow(`{"id":1}`))
	mock.ExpectExec("DELETE FROM payloads").
		WillReturnResult(sqlmock.NewResult(0, 1))

	rows, err := d.QueryContext(ctx, "SELECT payload FROM payloads WHERE endpoint = ?", "/folder")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	_ = rows.Close()

	res, err := d.ExecContext(ctx, "DELETE FROM payloads WHERE endpoint = ?", "/folder")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if n, _ := res.RowsAffected(); n != 1 {
		t.Errorf("expected 1 row affected, got %d", n)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestDB_OpensAfterFailures(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer func() { _ = db.Close() }()

	cfg := StoreConfig()
	cfg.Timeout = time.Minute
	d := NewDBWithConfig(db, cfg)
	ctx := context.Background()
	dbErr := errors.New("connection lost")

	for i := 0; i < 5; i++ {
		mock.ExpectExec("UPDATE payloads").WillReturnError(dbErr)
		if _, err := d.ExecContext(ctx, "UPDATE payloads SET payload = ?", "{}"); !errors.Is(err, dbErr) {
			t.Fatalf("attempt %d: expected db error, got %v", i, err)
		}
	}

	if d.State() != gobreaker.StateOpen {
		t.Fatalf("expected Open after 5 failures, got %s", d.State())
	}

	_, err = d.QueryContext(ctx, "SELECT payload FROM payloads")
	if !IsRejected(err) {
		t.Errorf("expected rejection while open, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
