package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datatalk-ai/datatalk/ai"
	"github.com/datatalk-ai/datatalk/db"
)

// fakeConn records Close calls.
type fakeConn struct {
	closed bool
}

func (f *fakeConn) InspectSchema(ctx context.Context) (db.Schema, error) { return nil, nil }
func (f *fakeConn) Query(ctx context.Context, sql string) (*db.QueryResult, error) {
	return nil, nil
}
func (f *fakeConn) Close() { f.closed = true }

func TestAddMessage(t *testing.T) {
	s := New()
	s.AddMessage(ai.RoleUser, "hello")
	s.AddMessage(ai.RoleAssistant, "hi")

	require.Len(t, s.Conversation, 2)
	assert.Equal(t, ai.Message{Role: ai.RoleUser, Content: "hello"}, s.Conversation[0])
	assert.Equal(t, ai.RoleAssistant, s.Conversation[1].Role)
}

func TestSetConn_ClosesPrevious(t *testing.T) {
	s := New()
	first := &fakeConn{}
	second := &fakeConn{}

	s.SetConn(first, "schema one")
	s.SetConn(second, "schema two")

	assert.True(t, first.closed)
	assert.False(t, second.closed)
	assert.Equal(t, "schema two", s.SchemaContext)
}

func TestContextSummary(t *testing.T) {
	t.Run("empty session", func(t *testing.T) {
		assert.Equal(t, "", New().ContextSummary())
	})

	t.Run("with schema context", func(t *testing.T) {
		s := New()
		s.SetConn(&fakeConn{}, "Table: users (10 rows)")

		out := s.ContextSummary()
		assert.Contains(t, out, "DATA CONTEXT:")
		assert.Contains(t, out, "Table: users (10 rows)")
	})
}

func TestClearConversation_KeepsData(t *testing.T) {
	s := New()
	s.AddMessage(ai.RoleUser, "hello")
	s.SetConn(&fakeConn{}, "schema")

	s.ClearConversation()

	assert.Empty(t, s.Conversation)
	assert.NotNil(t, s.Conn)
	assert.Equal(t, "schema", s.SchemaContext)
}

func TestReset(t *testing.T) {
	s := New()
	conn := &fakeConn{}
	s.AddMessage(ai.RoleUser, "hello")
	s.SetConn(conn, "schema")
	s.TrainedModel = struct{}{}

	s.Reset()

	assert.True(t, conn.closed)
	assert.Empty(t, s.Conversation)
	assert.Nil(t, s.Conn)
	assert.Nil(t, s.Data)
	assert.Equal(t, "", s.SchemaContext)
	assert.Nil(t, s.TrainedModel)
}
