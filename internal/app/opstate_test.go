package app

import "testing"

func TestOpState_BeginRefusedWhilePending(t *testing.T) {
	var s OpState
	if !s.Begin() {
		t.Fatalf("first Begin should succeed")
	}
	if s.Begin() {
		t.Fatalf("second Begin while pending should be refused")
	}
	if !s.Busy() {
		t.Fatalf("refused Begin must leave the busy flag set")
	}
	s.Succeed()
	if s.Busy() {
		t.Fatalf("Succeed should clear busy")
	}
	if !s.Begin() {
		t.Fatalf("Begin after completion should succeed")
	}
}

func TestOpState_FailRecordsMessageAndSucceedClearsIt(t *testing.T) {
	var s OpState
	s.Begin()
	s.Fail("boom")
	if s.Busy() {
		t.Fatalf("Fail should clear busy")
	}
	if s.LastError() != "boom" {
		t.Fatalf("LastError = %q, want %q", s.LastError(), "boom")
	}
	s.Begin()
	if s.LastError() != "" {
		t.Fatalf("Begin should reset the last error")
	}
	s.Succeed()
	if s.LastError() != "" {
		t.Fatalf("Succeed should leave no error")
	}
}
