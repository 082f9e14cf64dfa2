package database

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"cfpanel/internal/model"
)

func TestLogAudit(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec("INSERT INTO audit_log").
		WithArgs("alice", "delete_record", "z1", "example.com", "www.example.com", "A", "", "10.0.0.1").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := db.LogAudit(model.AuditEntry{
		Username:   "alice",
		Action:     "delete_record",
		ZoneID:     "z1",
		ZoneName:   "example.com",
		RecordName: "www.example.com",
		RecordType: "A",
		IPAddress:  "10.0.0.1",
	})
	if err != nil {
		t.Fatalf("LogAudit: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestListAuditLog(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now()

	cols := []string{"id", "username", "action", "zone_id", "zone_name", "record_name", "record_type", "detail", "ip_address", "created_at"}
	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery("SELECT id, username, action").
		WithArgs(50, 0).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(2, "alice", "token_apply", nil, nil, nil, nil, nil, "10.0.0.1", now).
			AddRow(1, "bob", "delete_record", "z1", nil, "www.example.com", "A", nil, "10.0.0.2", now))

	entries, total, err := db.ListAuditLog(50, 0)
	if err != nil {
		t.Fatalf("ListAuditLog: %v", err)
	}
	if total != 2 || len(entries) != 2 {
		t.Fatalf("total=%d len=%d", total, len(entries))
	}

	// NULL zone columns come back empty.
	if entries[0].ZoneID != "" || entries[0].ZoneName != "" {
		t.Fatalf("entry %+v", entries[0])
	}
	// Missing zone name falls back to the id for display.
	if entries[1].ZoneName != "z1" {
		t.Fatalf("zone name fallback: %+v", entries[1])
	}
}
