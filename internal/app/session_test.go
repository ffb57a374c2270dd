package app

import (
	"strings"
	"testing"
)

func TestSetDocuments_ClearsDanglingSelection(t *testing.T) {
	s := NewSession()
	s.SetDocuments([]string{"a.pdf", "b.pdf"}, false)
	s.Select("b.pdf")

	changed := s.SetDocuments([]string{"a.pdf"}, false)
	if !changed {
		t.Fatalf("expected selection change to be reported")
	}
	if s.Selected() != "" {
		t.Fatalf("selection = %q, want empty after its document vanished", s.Selected())
	}
}

func TestSetDocuments_SelectFirstOnlyWhenEmpty(t *testing.T) {
	s := NewSession()
	if changed := s.SetDocuments([]string{"x.pdf", "y.pdf"}, true); !changed {
		t.Fatalf("expected select-first to pick an entry")
	}
	if s.Selected() != "x.pdf" {
		t.Fatalf("selection = %q, want first entry in server order", s.Selected())
	}

	// An existing selection is never displaced.
	if changed := s.SetDocuments([]string{"y.pdf", "x.pdf"}, true); changed {
		t.Fatalf("select-first must not displace a live selection")
	}
	if s.Selected() != "x.pdf" {
		t.Fatalf("selection = %q, want x.pdf", s.Selected())
	}
}

func TestSelect_BumpsGenerationAndClearsSamples(t *testing.T) {
	s := NewSession()
	s.SetDocuments([]string{"a.pdf", "b.pdf"}, false)
	s.Select("a.pdf")
	gen, ok := s.StartSamples()
	if !ok {
		t.Fatalf("expected samples fetch to start")
	}

	s.Select("b.pdf")
	if s.ResolveSamples(gen, []string{"stale question"}, nil) != true {
		t.Fatalf("expected the fetch for the previous selection to be stale")
	}
	if len(s.Samples()) != 0 {
		t.Fatalf("stale result must not touch the sample list, got %v", s.Samples())
	}

	gen2, ok := s.StartSamples()
	if !ok {
		t.Fatalf("expected a fresh fetch for the new selection")
	}
	if s.ResolveSamples(gen2, []string{"fresh"}, nil) {
		t.Fatalf("matching generation must not be stale")
	}
	if len(s.Samples()) != 1 || s.Samples()[0] != "fresh" {
		t.Fatalf("samples = %v, want [fresh]", s.Samples())
	}
}

func TestStartSamples_NoSelection(t *testing.T) {
	s := NewSession()
	if _, ok := s.StartSamples(); ok {
		t.Fatalf("samples fetch must not start without a selection")
	}
}

func TestStartAsk_EmptyQueryAppendsNothing(t *testing.T) {
	s := NewSession()
	s.SetDocuments([]string{"a.pdf"}, true)
	if _, ok := s.StartAsk("   "); ok {
		t.Fatalf("whitespace query must be rejected")
	}
	if len(s.Messages()) != 0 {
		t.Fatalf("rejected query must append no message, got %d", len(s.Messages()))
	}
}

func TestStartAsk_NoSelectionAppendsExactlyOneNotice(t *testing.T) {
	s := NewSession()
	if _, ok := s.StartAsk("hello"); ok {
		t.Fatalf("ask must not start without a selection")
	}
	msgs := s.Messages()
	if len(msgs) != 1 {
		t.Fatalf("message count = %d, want exactly 1", len(msgs))
	}
	if msgs[0].Role != RoleSystem || msgs[0].Text != "Select a document first." {
		t.Fatalf("unexpected guard message: %+v", msgs[0])
	}
}

func TestStartAsk_RefusedWhilePending(t *testing.T) {
	s := NewSession()
	s.SetDocuments([]string{"a.pdf"}, true)
	if _, ok := s.StartAsk("first"); !ok {
		t.Fatalf("first ask should start")
	}
	before := len(s.Messages())
	if _, ok := s.StartAsk("second"); ok {
		t.Fatalf("second ask while pending must be refused")
	}
	if len(s.Messages()) != before {
		t.Fatalf("refused ask must not append messages")
	}
	if !s.Op(OpAsk).Busy() {
		t.Fatalf("busy flag must stay set until the first ask resolves")
	}
}

func TestAskFlow_SuccessCarriesConfidenceAndCitationOrder(t *testing.T) {
	s := NewSession()
	s.SetDocuments([]string{"paper.pdf"}, true)
	query, ok := s.StartAsk("  what is this about? ")
	if !ok {
		t.Fatalf("ask should start")
	}
	if query != "what is this about?" {
		t.Fatalf("query = %q, want trimmed text", query)
	}

	res := &AnswerResult{
		Answer:    "It is about retrieval.",
		Citations: []Citation{{ChunkID: 3, Score: 0.72}, {ChunkID: 7, Score: 0.31}},
	}
	s.ResolveAsk("paper.pdf", res, nil)

	if s.Op(OpAsk).Busy() {
		t.Fatalf("ask should be idle after resolution")
	}
	msgs := s.Messages()
	last := msgs[len(msgs)-1]
	if last.Role != RoleAssistant {
		t.Fatalf("last message role = %q, want assistant", last.Role)
	}
	if last.Meta == nil || last.Meta.Confidence == nil {
		t.Fatalf("answer message must carry confidence metadata")
	}
	if last.Meta.Confidence.Label != "High" {
		t.Fatalf("confidence = %q, want High", last.Meta.Confidence.Label)
	}
	if last.Meta.TopScore != 0.72 {
		t.Fatalf("top score = %v, want 0.72", last.Meta.TopScore)
	}
	if last.Meta.Citations[0].ChunkID != 3 || last.Meta.Citations[1].ChunkID != 7 {
		t.Fatalf("citation order not preserved: %+v", last.Meta.Citations)
	}
	if last.Meta.Document != "paper.pdf" {
		t.Fatalf("document tag = %q, want paper.pdf", last.Meta.Document)
	}
}

func TestAskFlow_FailureAppendsSystemError(t *testing.T) {
	s := NewSession()
	s.SetDocuments([]string{"a.pdf"}, true)
	s.StartAsk("why")
	s.ResolveAsk("a.pdf", nil, newOpError(OpAsk, 500, "model exploded"))

	msgs := s.Messages()
	last := msgs[len(msgs)-1]
	if last.Role != RoleSystem || last.Meta == nil || last.Meta.Kind != KindError {
		t.Fatalf("expected a system error message, got %+v", last)
	}
	if !strings.Contains(last.Text, "model exploded") {
		t.Fatalf("error text should carry the server detail, got %q", last.Text)
	}
	if s.Op(OpAsk).LastError() == "" {
		t.Fatalf("coordinator should record the failure")
	}
}

func TestSummarizeFlow_SyntheticUserTurnAndNoConfidence(t *testing.T) {
	s := NewSession()
	s.SetDocuments([]string{"a.pdf"}, true)
	if !s.StartSummarize() {
		t.Fatalf("summarize should start")
	}
	msgs := s.Messages()
	if msgs[len(msgs)-1].Text != "Summarize this document." || msgs[len(msgs)-1].Role != RoleUser {
		t.Fatalf("expected the synthetic user turn, got %+v", msgs[len(msgs)-1])
	}

	s.ResolveSummarize("a.pdf", &SummarizeResult{
		Summary:   "Short version.",
		Citations: []Citation{{ChunkID: 1, Score: 0.9}},
	}, nil)

	msgs = s.Messages()
	last := msgs[len(msgs)-1]
	if last.Meta == nil || last.Meta.Kind != KindSummary {
		t.Fatalf("expected summary metadata, got %+v", last.Meta)
	}
	if last.Meta.Confidence != nil {
		t.Fatalf("summaries are not scored; confidence must be absent")
	}
	if len(last.Meta.Citations) != 1 {
		t.Fatalf("summary citations missing")
	}
}

func TestSummarize_NoSelectionGuard(t *testing.T) {
	s := NewSession()
	if s.StartSummarize() {
		t.Fatalf("summarize must not start without a selection")
	}
	if len(s.Messages()) != 1 {
		t.Fatalf("guard must append exactly one notice")
	}
}

func TestUploadFlow_SelectsUploadAndReportsFacts(t *testing.T) {
	s := NewSession()
	if !s.StartUpload() {
		t.Fatalf("upload should start")
	}
	s.ResolveUpload(&UploadResult{Filename: "paper.pdf", TotalChunks: 12, EmbeddingDim: 384}, nil)
	s.SetDocuments([]string{"paper.pdf"}, false)

	if s.Selected() != "paper.pdf" {
		t.Fatalf("selection = %q, want the uploaded file", s.Selected())
	}
	if !contains(s.Documents(), "paper.pdf") {
		t.Fatalf("registry should contain the uploaded file after refresh")
	}
	last := s.Messages()[len(s.Messages())-1]
	for _, want := range []string{"paper.pdf", "12", "384"} {
		if !strings.Contains(last.Text, want) {
			t.Fatalf("upload notice %q should contain %q", last.Text, want)
		}
	}
}

func TestUploadFlow_FailureLeavesSelectionUntouched(t *testing.T) {
	s := NewSession()
	s.SetDocuments([]string{"old.pdf"}, true)
	s.StartUpload()
	s.ResolveUpload(nil, newOpError(OpUpload, 400, "not a pdf"))

	if s.Selected() != "old.pdf" {
		t.Fatalf("failed upload must not change selection")
	}
	last := s.Messages()[len(s.Messages())-1]
	if last.Meta == nil || last.Meta.Kind != KindError {
		t.Fatalf("expected an error message, got %+v", last)
	}
}

func TestDeleteFlow_SuccessClearsSelectionAndCountsArtifacts(t *testing.T) {
	s := NewSession()
	s.SetDocuments([]string{"paper.pdf"}, true)
	if !s.StartDelete() {
		t.Fatalf("delete should start")
	}
	s.ResolveDelete("paper.pdf", &DeleteResult{Deleted: []string{"paper.pdf", "paper.pdf.chunks.json"}}, nil)
	s.SetDocuments(nil, false)

	if s.Selected() != "" {
		t.Fatalf("selection should clear after delete")
	}
	if len(s.Documents()) != 0 {
		t.Fatalf("registry should be empty after refresh")
	}
	last := s.Messages()[len(s.Messages())-1]
	if !strings.Contains(last.Text, "2 file(s)") {
		t.Fatalf("delete notice should report 2 removed artifacts, got %q", last.Text)
	}
}

func TestDeleteFlow_FailureAppendsNoMessage(t *testing.T) {
	s := NewSession()
	s.SetDocuments([]string{"paper.pdf"}, true)
	s.StartDelete()
	s.ResolveDelete("paper.pdf", nil, newOpError(OpDelete, 500, "locked"))

	if len(s.Messages()) != 0 {
		t.Fatalf("delete failures surface in the confirm dialog, not the log")
	}
	if s.Op(OpDelete).LastError() != "locked" {
		t.Fatalf("LastError = %q, want locked", s.Op(OpDelete).LastError())
	}
	if s.Selected() != "paper.pdf" {
		t.Fatalf("failed delete must not clear the selection")
	}
}

func TestClear_EmptiesLogForAnyLength(t *testing.T) {
	for _, n := range []int{0, 1, 5} {
		s := NewSession()
		for i := 0; i < n; i++ {
			s.Append(RoleUser, "msg")
		}
		s.Clear()
		if len(s.Messages()) != 0 {
			t.Fatalf("after appending %d and clearing, log length = %d", n, len(s.Messages()))
		}
	}
}

func TestAppend_AssignsUniqueIDs(t *testing.T) {
	s := NewSession()
	a := s.Append(RoleUser, "one")
	b := s.Append(RoleUser, "two")
	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("messages must carry distinct non-empty ids")
	}
}

func TestCrossKindConcurrencyAllowed(t *testing.T) {
	s := NewSession()
	s.SetDocuments([]string{"a.pdf"}, true)
	if _, ok := s.StartAsk("q"); !ok {
		t.Fatalf("ask should start")
	}
	if !s.StartUpload() {
		t.Fatalf("upload must be allowed while ask is pending")
	}
}
