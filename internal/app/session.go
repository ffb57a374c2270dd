package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

type MessageKind string

const (
	KindAnswer  MessageKind = "answer"
	KindSummary MessageKind = "summary"
	KindUpload  MessageKind = "upload"
	KindDelete  MessageKind = "delete"
	KindNotice  MessageKind = "notice"
	KindError   MessageKind = "error"
)

// Message is one immutable entry in the conversation log.
type Message struct {
	ID        string
	Role      Role
	Text      string
	CreatedAt time.Time
	Meta      *MessageMeta
}

// MessageMeta carries the operation-specific facts attached at append
// time. Citations are snapshots; they are never refetched.
type MessageMeta struct {
	Kind       MessageKind
	Confidence *Confidence
	TopScore   float64
	Citations  []Citation
	Document   string
}

const selectDocumentNotice = "Select a document first."

// Session is the interaction controller: the document registry, the
// current selection, the conversation log and the per-kind operation
// states. It is not safe for concurrent use; all mutation is expected to
// happen on the UI event loop, with network work delivering its results
// back onto that loop.
type Session struct {
	docs     []string
	selected string

	sampleGen int
	samples   []string

	log []Message
	ops map[OpKind]*OpState
}

func NewSession() *Session {
	ops := make(map[OpKind]*OpState, len(Kinds))
	for _, k := range Kinds {
		ops[k] = &OpState{}
	}
	return &Session{ops: ops}
}

func (s *Session) Documents() []string { return s.docs }
func (s *Session) Selected() string    { return s.selected }
func (s *Session) Samples() []string   { return s.samples }
func (s *Session) SampleGen() int      { return s.sampleGen }
func (s *Session) Messages() []Message { return s.log }

// Op exposes the state machine for one operation kind.
func (s *Session) Op(kind OpKind) *OpState { return s.ops[kind] }

// SetDocuments replaces the registry wholesale from the server list. A
// selection no longer present in the list is cleared; with selectFirst
// set (initial load only) an empty selection moves to the first entry in
// server order. It reports whether the selection changed, in which case
// the caller owes the sample list a refresh.
func (s *Session) SetDocuments(list []string, selectFirst bool) bool {
	s.docs = list

	if s.selected != "" && !contains(list, s.selected) {
		s.setSelected("")
		return true
	}
	if selectFirst && s.selected == "" && len(list) > 0 {
		s.setSelected(list[0])
		return true
	}
	return false
}

// Select sets the selection unconditionally; existence is enforced lazily
// by the next refresh.
func (s *Session) Select(name string) {
	if name == s.selected {
		return
	}
	s.setSelected(name)
}

func (s *Session) setSelected(name string) {
	s.selected = name
	// Any in-flight sample fetch now resolves against a stale generation
	// and will be discarded on arrival.
	s.sampleGen++
	s.samples = nil
}

// ApplySamples installs a fetched question list, unless the selection has
// moved on since the fetch was issued.
func (s *Session) ApplySamples(gen int, questions []string) bool {
	if gen != s.sampleGen {
		return false
	}
	s.samples = questions
	return true
}

func (s *Session) Append(role Role, text string) Message {
	return s.AppendWith(role, text, nil)
}

func (s *Session) AppendWith(role Role, text string, meta *MessageMeta) Message {
	m := Message{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		CreatedAt: time.Now(),
		Meta:      meta,
	}
	s.log = append(s.log, m)
	return m
}

func (s *Session) appendSystem(kind MessageKind, text string) Message {
	return s.AppendWith(RoleSystem, text, &MessageMeta{Kind: kind})
}

// Clear replaces the log with the empty sequence. The caller must also
// close any sources view, since it references messages that no longer
// exist.
func (s *Session) Clear() {
	s.log = nil
}

// StartAsk runs the ask guards. Empty input is rejected silently; a
// missing selection appends exactly one system notice. On success the
// user's turn is already appended and the ask slot is held.
func (s *Session) StartAsk(raw string) (string, bool) {
	query := strings.TrimSpace(raw)
	if query == "" {
		return "", false
	}
	if s.selected == "" {
		s.appendSystem(KindNotice, selectDocumentNotice)
		return "", false
	}
	if !s.ops[OpAsk].Begin() {
		return "", false
	}
	s.Append(RoleUser, query)
	return query, true
}

func (s *Session) ResolveAsk(doc string, res *AnswerResult, err error) {
	if err != nil {
		s.ops[OpAsk].Fail(err.Error())
		s.appendSystem(KindError, fmt.Sprintf("Answer error: %s", errMessage(err)))
		return
	}
	s.ops[OpAsk].Succeed()
	top := TopScore(res.Citations)
	conf := ConfidenceFromScore(top)
	s.AppendWith(RoleAssistant, res.Answer, &MessageMeta{
		Kind:       KindAnswer,
		Confidence: &conf,
		TopScore:   top,
		Citations:  res.Citations,
		Document:   doc,
	})
}

// StartSummarize appends the synthetic user turn that frames the summary
// conversationally, then holds the summarize slot.
func (s *Session) StartSummarize() bool {
	if s.selected == "" {
		s.appendSystem(KindNotice, selectDocumentNotice)
		return false
	}
	if !s.ops[OpSummarize].Begin() {
		return false
	}
	s.Append(RoleUser, "Summarize this document.")
	return true
}

func (s *Session) ResolveSummarize(doc string, res *SummarizeResult, err error) {
	if err != nil {
		s.ops[OpSummarize].Fail(err.Error())
		s.appendSystem(KindError, fmt.Sprintf("Summarize error: %s", errMessage(err)))
		return
	}
	s.ops[OpSummarize].Succeed()
	// Summaries are not scored, so no confidence bucket.
	s.AppendWith(RoleAssistant, res.Summary, &MessageMeta{
		Kind:      KindSummary,
		Citations: res.Citations,
		Document:  doc,
	})
}

func (s *Session) StartUpload() bool {
	return s.ops[OpUpload].Begin()
}

// ResolveUpload reports the upload outcome. On success the uploaded file
// becomes the selection; the registry itself catches up on the refresh
// the caller issues next.
func (s *Session) ResolveUpload(res *UploadResult, err error) {
	if err != nil {
		s.ops[OpUpload].Fail(err.Error())
		s.appendSystem(KindError, fmt.Sprintf("Upload error: %s", errMessage(err)))
		return
	}
	s.ops[OpUpload].Succeed()
	s.Select(res.Filename)
	s.appendSystem(KindUpload, fmt.Sprintf("Uploaded %s • %d chunks • %d dim",
		res.Filename, res.TotalChunks, res.EmbeddingDim))
}

func (s *Session) StartDelete() bool {
	return s.ops[OpDelete].Begin()
}

// ResolveDelete clears the selection on success. On failure it only
// records the error; the confirm dialog reads it back so the user can
// retry or cancel without losing context.
func (s *Session) ResolveDelete(doc string, res *DeleteResult, err error) {
	if err != nil {
		s.ops[OpDelete].Fail(errMessage(err))
		return
	}
	s.ops[OpDelete].Succeed()
	s.appendSystem(KindDelete, fmt.Sprintf("Deleted %q • removed %d file(s)", doc, len(res.Deleted)))
	if s.selected == doc {
		s.setSelected("")
	}
}

// StartSamples captures the generation for a fetch against the current
// selection. With no selection there is nothing to fetch and the list is
// already clear.
func (s *Session) StartSamples() (int, bool) {
	if s.selected == "" {
		return 0, false
	}
	if !s.ops[OpSamples].Begin() {
		return 0, false
	}
	return s.sampleGen, true
}

// ResolveSamples applies the fetched questions when the generation still
// matches. The returned flag reports a stale result, inviting the caller
// to issue a fresh fetch for whatever is selected now.
func (s *Session) ResolveSamples(gen int, questions []string, err error) (stale bool) {
	if err != nil {
		s.ops[OpSamples].Fail(errMessage(err))
		return gen != s.sampleGen
	}
	s.ops[OpSamples].Succeed()
	if !s.ApplySamples(gen, questions) {
		return true
	}
	return false
}

func errMessage(err error) string {
	var opErr *OpError
	if errors.As(err, &opErr) {
		return opErr.Message
	}
	return err.Error()
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
