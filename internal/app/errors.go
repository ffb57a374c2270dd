package app

import "fmt"

// OpKind tags every remote operation. Each kind has its own busy/error
// state and its own fallback error message.
type OpKind string

const (
	OpList      OpKind = "list"
	OpUpload    OpKind = "upload"
	OpAsk       OpKind = "ask"
	OpSummarize OpKind = "summarize"
	OpSamples   OpKind = "samples"
	OpDelete    OpKind = "delete"
)

// Kinds holds every operation kind the coordinator tracks.
var Kinds = []OpKind{OpList, OpUpload, OpAsk, OpSummarize, OpSamples, OpDelete}

var fallbackMessages = map[OpKind]string{
	OpList:      "Listing documents failed",
	OpUpload:    "Upload failed",
	OpAsk:       "Answer failed",
	OpSummarize: "Summarize failed",
	OpSamples:   "Fetching sample questions failed",
	OpDelete:    "Delete failed",
}

// OpError is the one failure shape the gateway produces. Message is the
// server's `detail` field when the body carried one, else the per-kind
// fallback; Status is zero for transport-level failures.
type OpError struct {
	Kind    OpKind
	Status  int
	Message string
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func newOpError(kind OpKind, status int, detail string) *OpError {
	msg := detail
	if msg == "" {
		msg = fallbackMessages[kind]
	}
	return &OpError{Kind: kind, Status: status, Message: msg}
}
