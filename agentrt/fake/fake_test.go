package fake_test

import (
	"context"
	"testing"

	"github.com/kadirpekel/hector-driverloop/agentrt"
	"github.com/kadirpekel/hector-driverloop/agentrt/fake"
	"github.com/stretchr/testify/require"
)

func TestHandleReplaysScriptPerSubmission(t *testing.T) {
	h := fake.New(
		Script(agentrt.Event{Type: agentrt.EventAgentMessage, Text: "hello"}),
		Script(agentrt.Event{Type: agentrt.EventTaskComplete}),
	)
	ctx := context.Background()

	subID, err := h.Submit(ctx, agentrt.Op{Kind: agentrt.OpUserInput, Text: "go"})
	require.NoError(t, err)
	require.Equal(t, "sub-1", subID)

	ev, ok, err := h.NextEvent(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, agentrt.EventAgentMessage, ev.Type)
	require.Equal(t, "sub-1", ev.SubmissionID)

	_, ok, err = h.NextEvent(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	subID2, err := h.Submit(ctx, agentrt.Op{Kind: agentrt.OpUserInput, Text: "continue"})
	require.NoError(t, err)
	require.Equal(t, "sub-2", subID2)

	ev2, ok, err := h.NextEvent(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, agentrt.EventTaskComplete, ev2.Type)
}

func TestHandleRecordsSubmittedOps(t *testing.T) {
	h := fake.New(Script(agentrt.Event{Type: agentrt.EventTaskComplete}))
	_, err := h.Submit(context.Background(), agentrt.Op{Kind: agentrt.OpExecApproval, CallID: "c1", Decision: agentrt.Approved})
	require.NoError(t, err)
	require.Len(t, h.Submitted, 1)
	require.Equal(t, "c1", h.Submitted[0].CallID)
}

func Script(events ...agentrt.Event) fake.Script {
	return fake.Script{Events: events}
}
