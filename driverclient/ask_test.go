package driverclient_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kadirpekel/hector-driverloop/driverclient"
	"github.com/stretchr/testify/require"
)

func sseServer(t *testing.T, chunks ...string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		for _, c := range chunks {
			fmt.Fprintf(w, "data: %s\n\n", c)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
}

func TestAskReturnsAccumulatedText(t *testing.T) {
	srv := sseServer(t,
		`{"choices":[{"delta":{"content":"hello "}}]}`,
		`{"choices":[{"delta":{"content":"world"}}]}`,
	)
	defer srv.Close()

	c := driverclient.New("DRIVER_API_KEY", driverclient.WithBaseURL(srv.URL))
	text, calls, err := c.Ask(context.Background(), "go", "gpt-test", nil, nil)
	require.NoError(t, err)
	require.Equal(t, "hello world", text)
	require.Empty(t, calls)
}

func TestAskAccumulatesToolCallArguments(t *testing.T) {
	srv := sseServer(t,
		`{"choices":[{"delta":{"tool_calls":[{"index":0,"id":"call_1","function":{"name":"write_note","arguments":"{\"tex"}}]}}]}`,
		`{"choices":[{"delta":{"tool_calls":[{"index":0,"function":{"arguments":"t\":\"hi\"}"}}]}}]}`,
	)
	defer srv.Close()

	c := driverclient.New("DRIVER_API_KEY", driverclient.WithBaseURL(srv.URL))
	_, calls, err := c.Ask(context.Background(), "go", "gpt-test", nil, nil)
	require.NoError(t, err)
	require.Len(t, calls, 1)
	require.Equal(t, "call_1", calls[0].ID)
	require.Equal(t, "write_note", calls[0].Name)
	require.Equal(t, "hi", calls[0].Arguments["text"])
}

func TestAskEmptyResponseIsDriverError(t *testing.T) {
	srv := sseServer(t)
	defer srv.Close()

	c := driverclient.New("DRIVER_API_KEY", driverclient.WithBaseURL(srv.URL), driverclient.WithStreamRetries(0))
	_, _, err := c.Ask(context.Background(), "go", "gpt-test", nil, nil)
	require.Error(t, err)
	var derr *driverclient.DriverError
	require.ErrorAs(t, err, &derr)
	require.Equal(t, driverclient.KindEmptyResponse, derr.Kind)
}

func TestAskTransportExhaustedIsDriverError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := driverclient.New("DRIVER_API_KEY", driverclient.WithBaseURL(srv.URL), driverclient.WithStreamRetries(0))
	_, _, err := c.Ask(context.Background(), "go", "gpt-test", nil, nil)
	require.Error(t, err)
	var derr *driverclient.DriverError
	require.ErrorAs(t, err, &derr)
	require.Equal(t, driverclient.KindTransportExhausted, derr.Kind)
}
