package eventdemux_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/kadirpekel/hector-driverloop/agentrt"
	"github.com/kadirpekel/hector-driverloop/agentrt/fake"
	"github.com/kadirpekel/hector-driverloop/driverclient"
	"github.com/kadirpekel/hector-driverloop/eventdemux"
	"github.com/kadirpekel/hector-driverloop/prompt"
	"github.com/stretchr/testify/require"
)

func loadTemplates(t *testing.T) *prompt.Engine {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"initial.tmpl":           "{context}",
		"continuation.tmpl":      "{context}",
		"approval.tmpl":          "cmd={command}",
		"bugcrowd_approval.tmpl": "tool={tool} args={arguments}",
		"summarization.tmpl":     "{context}",
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	e, err := prompt.Load(dir)
	require.NoError(t, err)
	return e
}

func sseDriverStub(t *testing.T, text string) *driverclient.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "data: {\"choices\":[{\"delta\":{\"content\":%q}}]}\n\n", text)
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	t.Cleanup(srv.Close)
	return driverclient.New("DRIVER_API_KEY", driverclient.WithBaseURL(srv.URL))
}

func TestRunSingleCleanIteration(t *testing.T) {
	h := fake.New(fake.Script{Events: []agentrt.Event{
		{Type: agentrt.EventTaskStarted, CallID: "1"},
		{Type: agentrt.EventAgentMessage, Text: "hello world"},
		{Type: agentrt.EventTaskComplete},
	}})
	subID, err := h.Submit(context.Background(), agentrt.Op{Kind: agentrt.OpUserInput, Text: "go"})
	require.NoError(t, err)

	d := eventdemux.New(h, sseDriverStub(t, "n/a"), loadTemplates(t), "gpt-test", "task")
	res, err := d.Run(context.Background(), subID)
	require.NoError(t, err)
	require.Equal(t, "hello world", res.AssistantText)
	require.Len(t, res.ToolCalls, 1)
	require.True(t, res.ToolCalls[0].SystemKind)
}

func TestRunBugcrowdDenial(t *testing.T) {
	h := fake.New(fake.Script{Events: []agentrt.Event{
		{Type: agentrt.EventMcpToolCallBegin, CallID: "x", ToolName: "bugcrowd_submit", Arguments: map[string]any{"title": "t"}},
		{Type: agentrt.EventMcpToolCallEnd, CallID: "x", Result: "submitted"},
		{Type: agentrt.EventTaskComplete},
	}})
	subID, err := h.Submit(context.Background(), agentrt.Op{Kind: agentrt.OpUserInput, Text: "go"})
	require.NoError(t, err)

	d := eventdemux.New(h, sseDriverStub(t, "DENY - insufficient evidence"), loadTemplates(t), "gpt-test", "task")
	res, err := d.Run(context.Background(), subID)
	require.NoError(t, err)
	require.Len(t, res.ToolResponses, 1)
	require.Equal(t, "x", res.ToolResponses[0].ToolCallID)
	require.Contains(t, res.ToolResponses[0].Content, "❌ Bugcrowd submission denied by security review: insufficient evidence")
}

func TestRunExecApprovalApproved(t *testing.T) {
	h := fake.New(fake.Script{Events: []agentrt.Event{
		{Type: agentrt.EventExecApprovalRequest, CallID: "c1", Command: []string{"rm", "-rf", "/tmp/x"}},
		{Type: agentrt.EventTaskComplete},
	}}, fake.Script{})
	subID, err := h.Submit(context.Background(), agentrt.Op{Kind: agentrt.OpUserInput, Text: "go"})
	require.NoError(t, err)

	d := eventdemux.New(h, sseDriverStub(t, "APPROVE"), loadTemplates(t), "gpt-test", "task")
	res, err := d.Run(context.Background(), subID)
	require.NoError(t, err)
	require.Len(t, res.ToolCalls, 1)
	require.Equal(t, "request_approval", res.ToolCalls[0].Name)
	require.Len(t, res.ToolResponses, 1)
	require.Contains(t, res.ToolResponses[0].Content, "Approved")
	require.Len(t, h.Submitted, 2)
	require.Equal(t, agentrt.Approved, h.Submitted[1].Decision)
}

func TestRunErrorEventPropagates(t *testing.T) {
	h := fake.New(fake.Script{Events: []agentrt.Event{
		{Type: agentrt.EventError, ErrorMessage: "boom"},
	}})
	subID, err := h.Submit(context.Background(), agentrt.Op{Kind: agentrt.OpUserInput, Text: "go"})
	require.NoError(t, err)

	d := eventdemux.New(h, sseDriverStub(t, "n/a"), loadTemplates(t), "gpt-test", "task")
	_, err = d.Run(context.Background(), subID)
	require.Error(t, err)
}

func TestRunDiscardsEventsForOtherSubmissions(t *testing.T) {
	h := fake.New(fake.Script{Events: []agentrt.Event{
		{Type: agentrt.EventAgentMessage, Text: "hello"},
		{Type: agentrt.EventTaskComplete},
	}})
	subID, err := h.Submit(context.Background(), agentrt.Op{Kind: agentrt.OpUserInput, Text: "go"})
	require.NoError(t, err)

	d := eventdemux.New(h, sseDriverStub(t, "n/a"), loadTemplates(t), "gpt-test", "task")
	res, err := d.Run(context.Background(), "not-"+subID)
	require.NoError(t, err)
	require.Empty(t, res.AssistantText)
}
