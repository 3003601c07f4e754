package internal

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Role identifies which participant produced a record.
type Role string

const (
	RoleUser         Role = "USER"
	RoleAgentBuilder Role = "AGENT_BUILDER"
	RoleAgentChat    Role = "AGENT_CHAT"
)

// Kind distinguishes record categories.
type Kind string

const (
	KindDialogue   Kind = "DIALOGUE"
	KindFileChange Kind = "FILE_CHANGE"
	KindUndo       Kind = "UNDO"
	KindRedo       Kind = "REDO"
)

// Detail is the kind-specific payload of a non-dialogue record.
// Each implementation fixes the Kind it belongs to, so a record can never
// carry fields that are invalid for its kind.
type Detail interface {
	RecordKind() Kind
}

// FileChangeDetail describes an observed edit to a file.
type FileChangeDetail struct {
	FilePath   string `json:"filePath"`
	ChangeKind string `json:"changeKind"`
	BeforeText string `json:"beforeText,omitempty"`
	AfterText  string `json:"afterText,omitempty"`
}

func (*FileChangeDetail) RecordKind() Kind { return KindFileChange }

// UndoDetail describes an undo step.
type UndoDetail struct {
	FilePath string `json:"filePath,omitempty"`
	Note     string `json:"note,omitempty"`
}

func (*UndoDetail) RecordKind() Kind { return KindUndo }

// RedoDetail describes a redo step.
type RedoDetail struct {
	FilePath string `json:"filePath,omitempty"`
	Note     string `json:"note,omitempty"`
}

func (*RedoDetail) RecordKind() Kind { return KindRedo }

// Record is one classified, immutable fact. Once appended to the store it is
// never updated or deleted.
type Record struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Timestamp time.Time `json:"timestamp"`
	Role      Role      `json:"role"`
	Kind      Kind      `json:"kind"`
	Text      string    `json:"text"`
	Detail    Detail    `json:"detail,omitempty"`
}

// NewRecord builds a record with a fresh id and the current time. The kind is
// derived from the detail payload; a nil detail means plain dialogue.
func NewRecord(sessionID string, role Role, text string, detail Detail) Record {
	kind := KindDialogue
	if detail != nil {
		kind = detail.RecordKind()
	}
	return Record{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Timestamp: time.Now(),
		Role:      role,
		Kind:      kind,
		Text:      text,
		Detail:    detail,
	}
}

// FilePath returns the file path carried by the record's detail, if any.
func (r Record) FilePath() string {
	switch d := r.Detail.(type) {
	case *FileChangeDetail:
		return d.FilePath
	case *UndoDetail:
		return d.FilePath
	case *RedoDetail:
		return d.FilePath
	default:
		return ""
	}
}

// MarshalDetail serializes the detail payload for storage. Dialogue records
// have no payload and serialize to an empty string.
func (r Record) MarshalDetail() (string, error) {
	if r.Detail == nil {
		return "", nil
	}
	data, err := json.Marshal(r.Detail)
	if err != nil {
		return "", fmt.Errorf("failed to marshal %s detail: %w", r.Kind, err)
	}
	return string(data), nil
}

// UnmarshalDetail reconstructs a detail payload from its stored form.
func UnmarshalDetail(kind Kind, data string) (Detail, error) {
	if data == "" {
		return nil, nil
	}
	var detail Detail
	switch kind {
	case KindFileChange:
		detail = &FileChangeDetail{}
	case KindUndo:
		detail = &UndoDetail{}
	case KindRedo:
		detail = &RedoDetail{}
	case KindDialogue:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown record kind: %s", kind)
	}
	if err := json.Unmarshal([]byte(data), detail); err != nil {
		return nil, fmt.Errorf("failed to parse %s detail: %w", kind, err)
	}
	return detail, nil
}

// SessionSummary is derived on demand from stored records; it has no
// lifecycle of its own.
type SessionSummary struct {
	SessionID      string    `json:"sessionId"`
	RecordCount    int       `json:"recordCount"`
	FirstTimestamp time.Time `json:"firstTimestamp"`
	LastTimestamp  time.Time `json:"lastTimestamp"`
	Roles          []Role    `json:"roles"`
}

// SessionDetail is the full ordered record list for one session.
type SessionDetail struct {
	SessionID string   `json:"sessionId"`
	Records   []Record `json:"records"`
	Duration  string   `json:"duration"`
}

// Query describes a search: all set fields are combined conjunctively.
// Nil time bounds are unbounded; a nil role/kind matches any.
type Query struct {
	Keyword       string
	Start         *time.Time
	End           *time.Time
	Role          *Role
	Kind          *Kind
	FileExtension string
}

// SearchResult pairs a record with its relevance score and the highlighted
// excerpts around each keyword occurrence.
type SearchResult struct {
	Record    Record   `json:"record"`
	Relevance float64  `json:"relevance"`
	Excerpts  []string `json:"excerpts,omitempty"`
}

// ParseRole converts a user-supplied role name, accepting the wire form.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleAgentBuilder, RoleAgentChat:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role: %q (expected USER, AGENT_BUILDER or AGENT_CHAT)", s)
	}
}

// ParseKind converts a user-supplied kind name.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindDialogue, KindFileChange, KindUndo, KindRedo:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("unknown kind: %q (expected DIALOGUE, FILE_CHANGE, UNDO or REDO)", s)
	}
}
