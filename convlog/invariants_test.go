package convlog_test

import (
	"testing"

	"github.com/kadirpekel/hector-driverloop/convlog"
	"github.com/stretchr/testify/require"
)

func TestValidateEmptyLog(t *testing.T) {
	require.Error(t, convlog.Validate(nil))
}

func TestValidateRequiresLeadingSystem(t *testing.T) {
	log := []convlog.Record{convlog.User("hi")}
	require.Error(t, convlog.Validate(log))
}

func TestValidateRejectsRepeatedSystem(t *testing.T) {
	log := []convlog.Record{
		convlog.System("sys"),
		convlog.System("sys again"),
	}
	require.Error(t, convlog.Validate(log))
}

func TestValidateRejectsUnknownToolCallID(t *testing.T) {
	log := []convlog.Record{
		convlog.System("sys"),
		convlog.ToolResponse("missing", "body"),
	}
	require.Error(t, convlog.Validate(log))
}

func TestValidateAcceptsResolvedToolCallID(t *testing.T) {
	log := []convlog.Record{
		convlog.System("sys"),
		convlog.AssistantToolCalls([]convlog.ToolCallRef{{ID: "1", Name: "write_note"}}),
		convlog.ToolResponse("1", "saved"),
	}
	require.NoError(t, convlog.Validate(log))
}
