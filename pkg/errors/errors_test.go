package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestMalformedRowError(t *testing.T) {
	err := NewMalformedRowError("pricelist_datagrid", 42, "w_sale_price", "not a decimal")

	if !errors.Is(err, ErrMalformedRow) {
		t.Error("MalformedRowError should match ErrMalformedRow")
	}
	if !IsMalformedRow(err) {
		t.Error("IsMalformedRow should return true")
	}

	msg := err.Error()
	for _, want := range []string{"pricelist_datagrid", "42", "w_sale_price", "not a decimal"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error message %q missing %q", msg, want)
		}
	}

	// Without a field the message still names source and row.
	err = NewMalformedRowError("gtin_items_datagrid", 0, "", "duplicate item code")
	if !strings.Contains(err.Error(), "gtin_items_datagrid") {
		t.Errorf("error message %q missing source", err.Error())
	}
}

func TestMalformedRowErrorWrapped(t *testing.T) {
	err := fmt.Errorf("ingest failed: %w", NewMalformedRowError("contract_items_datagrid", 7, "contract_price", "empty"))
	if !IsMalformedRow(err) {
		t.Error("wrapped MalformedRowError should still match ErrMalformedRow")
	}

	var target *MalformedRowError
	if !errors.As(err, &target) {
		t.Fatal("errors.As failed to extract MalformedRowError")
	}
	if target.Row != 7 {
		t.Errorf("Row = %d, want 7", target.Row)
	}
}

func TestSnapshotErrorSentinels(t *testing.T) {
	loadErr := NewSnapshotError("load", "/var/lib/pricesync/snapshot.yaml", errors.New("corrupt"))
	if !IsSnapshotUnavailable(loadErr) {
		t.Error("load error should match ErrSnapshotUnavailable")
	}
	if IsCommitFailed(loadErr) {
		t.Error("load error should not match ErrCommitFailed")
	}

	commitErr := NewSnapshotError("commit", "/var/lib/pricesync/snapshot.yaml", errors.New("disk full"))
	if !IsCommitFailed(commitErr) {
		t.Error("commit error should match ErrCommitFailed")
	}
	if IsSnapshotUnavailable(commitErr) {
		t.Error("commit error should not match ErrSnapshotUnavailable")
	}

	// Unwrap reaches the underlying cause.
	if commitErr.Unwrap() == nil || commitErr.Unwrap().Error() != "disk full" {
		t.Error("Unwrap did not return the underlying error")
	}
}

func TestTieError(t *testing.T) {
	err := &TieError{ItemCode: "ABC100", RuleCodes: []string{"R1", "R1"}}
	if !IsUnresolvedTie(err) {
		t.Error("TieError should match ErrUnresolvedTie")
	}
	if !strings.Contains(err.Error(), "ABC100") {
		t.Errorf("error message %q missing item code", err.Error())
	}
}

func TestWrapHelpers(t *testing.T) {
	if WrapIO("write", "/tmp/x", nil) != nil {
		t.Error("WrapIO(nil) should return nil")
	}
	if WrapExport("tickets", "/tmp/tickets.txt", nil) != nil {
		t.Error("WrapExport(nil) should return nil")
	}

	ioErr := WrapIO("write", "/tmp/x", errors.New("boom"))
	var asIO *IOError
	if !errors.As(ioErr, &asIO) || asIO.Path != "/tmp/x" {
		t.Error("WrapIO did not produce an IOError with path")
	}

	expErr := WrapExport("tickets", "/tmp/tickets.txt", errors.New("boom"))
	var asExport *ExportError
	if !errors.As(expErr, &asExport) || asExport.Report != "tickets" {
		t.Error("WrapExport did not produce an ExportError with report name")
	}
}
