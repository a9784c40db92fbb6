// Package session holds the mutable working state of one application
// run: the conversation, the loaded dataset or database connection,
// and the derived schema context.
//
// The session has a single logical owner — the TUI update loop.
// Background workers never touch it directly; they hand results back
// as Bubble Tea messages and the loop applies them.
package session

import (
	"fmt"
	"strings"

	"github.com/datatalk-ai/datatalk/ai"
	"github.com/datatalk-ai/datatalk/dataset"
	"github.com/datatalk-ai/datatalk/db"
)

// Session is the per-run working state.
type Session struct {
	Conversation []ai.Message

	// At most one dataset and one connection are live. The schema
	// context always reflects whichever was set last.
	Data          *dataset.Dataset
	DataSource    string
	Conn          db.Conn
	SchemaContext string

	// Training placeholders, unused until the pipeline lands.
	TrainedModel any
	ModelMetrics map[string]float64
}

// New creates an empty session.
func New() *Session {
	return &Session{ModelMetrics: make(map[string]float64)}
}

// AddMessage appends a message to the conversation.
func (s *Session) AddMessage(role, content string) {
	s.Conversation = append(s.Conversation, ai.Message{Role: role, Content: content})
}

// SetData installs a loaded dataset and its schema context. Any prior
// dataset is simply dropped.
func (s *Session) SetData(ds *dataset.Dataset, source, schemaContext string) {
	s.Data = ds
	s.DataSource = source
	s.SchemaContext = schemaContext
}

// SetConn installs a database connection and its schema context,
// releasing any previous connection first so handles don't leak.
func (s *Session) SetConn(conn db.Conn, schemaContext string) {
	if s.Conn != nil {
		s.Conn.Close()
	}
	s.Conn = conn
	s.SchemaContext = schemaContext
}

// ContextSummary builds the context string injected into the AI
// system prompt from the current state.
func (s *Session) ContextSummary() string {
	var parts []string
	if s.SchemaContext != "" {
		parts = append(parts, "DATA CONTEXT:\n"+s.SchemaContext)
	}
	if s.Data != nil {
		parts = append(parts, fmt.Sprintf("Loaded dataset: %d rows × %d columns",
			s.Data.NumRows(), s.Data.NumCols()))
	}
	if s.TrainedModel != nil {
		parts = append(parts, fmt.Sprintf("Trained model metrics: %v", s.ModelMetrics))
	}
	return strings.Join(parts, "\n\n")
}

// ClearConversation drops the chat history but keeps loaded data.
func (s *Session) ClearConversation() {
	s.Conversation = nil
}

// Reset returns the session to its initial empty state, releasing any
// open connection.
func (s *Session) Reset() {
	if s.Conn != nil {
		s.Conn.Close()
	}
	s.Conversation = nil
	s.Data = nil
	s.DataSource = ""
	s.Conn = nil
	s.SchemaContext = ""
	s.TrainedModel = nil
	s.ModelMetrics = make(map[string]float64)
}
