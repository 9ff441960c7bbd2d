package convlog_test

import (
	"testing"

	"github.com/kadirpekel/hector-driverloop/convlog"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	sys := convlog.System("you are a driver")
	require.Equal(t, convlog.RoleSystem, sys.Role)
	require.Equal(t, "you are a driver", sys.Content)

	u := convlog.User("go on")
	require.Equal(t, convlog.RoleUser, u.Role)

	calls := []convlog.ToolCallRef{{ID: "1", Name: "write_note"}}
	uc := convlog.UserWithToolCalls("ran tools", calls)
	require.Equal(t, calls, uc.ToolCalls)

	at := convlog.AssistantText("done")
	require.Equal(t, "done", at.Content)
	require.Empty(t, at.ToolCalls)

	ar := convlog.AssistantReasoning("thinking...")
	require.Equal(t, "thinking...", ar.Reasoning)

	atc := convlog.AssistantToolCalls(calls)
	require.Equal(t, calls, atc.ToolCalls)

	tr := convlog.ToolResponse("1", "ok")
	require.Equal(t, convlog.RoleTool, tr.Role)
	require.Equal(t, "1", tr.ToolCallID)
}
