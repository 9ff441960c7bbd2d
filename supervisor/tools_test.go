package supervisor_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/kadirpekel/hector-driverloop/driverclient"
	"github.com/kadirpekel/hector-driverloop/supervisor"
	"github.com/stretchr/testify/require"
)

func TestWriteNoteThenReadNotes(t *testing.T) {
	dir := t.TempDir()
	reg := supervisor.New(filepath.Join(dir, "notes"), "SLACK_WEBHOOK_URL", nil)

	res := reg.Execute(context.Background(), driverclient.ToolCall{
		ID: "1", Name: supervisor.ToolWriteNote, Arguments: map[string]any{"text": "found an XSS"},
	})
	require.Contains(t, res.Content, "Note written successfully to")

	read := reg.Execute(context.Background(), driverclient.ToolCall{ID: "2", Name: supervisor.ToolReadNotes})
	require.Contains(t, read.Content, "found an XSS")
}

func TestReadNotesEmpty(t *testing.T) {
	dir := t.TempDir()
	reg := supervisor.New(filepath.Join(dir, "notes"), "SLACK_WEBHOOK_URL", nil)
	res := reg.Execute(context.Background(), driverclient.ToolCall{ID: "1", Name: supervisor.ToolReadNotes})
	require.Equal(t, "No notes yet.", res.Content)
}

func TestFinishedInvokesCallback(t *testing.T) {
	var gotReason string
	reg := supervisor.New(t.TempDir(), "SLACK_WEBHOOK_URL", func(reason string) { gotReason = reason })

	res := reg.Execute(context.Background(), driverclient.ToolCall{
		ID: "1", Name: supervisor.ToolFinished, Arguments: map[string]any{"reason": "done"},
	})
	require.Equal(t, "Autonomous session finished: done", res.Content)
	require.Equal(t, "done", gotReason)
}

func TestSlackWebhookSkipsWhenEnvUnset(t *testing.T) {
	os.Unsetenv("TEST_SLACK_WEBHOOK_URL")
	reg := supervisor.New(t.TempDir(), "TEST_SLACK_WEBHOOK_URL", nil)
	res := reg.Execute(context.Background(), driverclient.ToolCall{ID: "1", Name: supervisor.ToolSlackWebhook, Arguments: map[string]any{}})
	require.Contains(t, res.Content, "not set, skipping")
}

func TestSlackWebhookPosts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	t.Setenv("TEST_SLACK_WEBHOOK_URL_2", srv.URL)
	reg := supervisor.New(t.TempDir(), "TEST_SLACK_WEBHOOK_URL_2", nil)
	res := reg.Execute(context.Background(), driverclient.ToolCall{
		ID: "1", Name: supervisor.ToolSlackWebhook,
		Arguments: map[string]any{"title": "t", "asset": "a", "vuln_type": "xss", "severity": "high", "description": "d", "repro_steps": "r", "impact": "i", "cleanup": "c"},
	})
	require.Equal(t, "ok", res.Content)
}

func TestOfferedToolsHasFourEntries(t *testing.T) {
	tools := supervisor.OfferedTools()
	require.Len(t, tools, 4)
	names := map[string]bool{}
	for _, tl := range tools {
		names[tl.Name] = true
		require.NotEmpty(t, tl.Parameters)
	}
	require.True(t, names[supervisor.ToolWriteNote])
	require.True(t, names[supervisor.ToolReadNotes])
	require.True(t, names[supervisor.ToolSlackWebhook])
	require.True(t, names[supervisor.ToolFinished])
}
