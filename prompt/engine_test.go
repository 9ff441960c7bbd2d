package prompt_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kadirpekel/hector-driverloop/prompt"
	"github.com/stretchr/testify/require"
)

func writeTemplates(t *testing.T, dir string) {
	t.Helper()
	files := map[string]string{
		"initial.tmpl":           "CONFIG:\n{config_yaml}\n",
		"continuation.tmpl":      "CONTEXT:\n{context}\n",
		"approval.tmpl":          "cmd={command} cwd={cwd} reason={reason} task={task_context} changes={changes}",
		"bugcrowd_approval.tmpl": "tool={tool} args={arguments}",
		"summarization.tmpl":     "SUMMARIZE:\n{context}\n",
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
}

func TestLoadMissingTemplateIsFatal(t *testing.T) {
	dir := t.TempDir()
	_, err := prompt.Load(dir)
	require.Error(t, err)
}

func TestLoadAndRenderSubstitutesLiterally(t *testing.T) {
	dir := t.TempDir()
	writeTemplates(t, dir)
	e, err := prompt.Load(dir)
	require.NoError(t, err)

	out, err := e.Render(prompt.Approval, prompt.Vars{
		Command:     "rm -rf /tmp/x",
		Cwd:         "/work",
		Reason:      "cleanup",
		TaskContext: "autonomous session",
		Changes:     "none",
	})
	require.NoError(t, err)
	require.Equal(t, "cmd=rm -rf /tmp/x cwd=/work reason=cleanup task=autonomous session changes=none", out)
}

func TestRenderAllOccurrences(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "initial.tmpl"), []byte("{context} and {context}"), 0o644))
	writeTemplates(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "initial.tmpl"), []byte("{context} and {context}"), 0o644))
	e, err := prompt.Load(dir)
	require.NoError(t, err)

	out, err := e.Render(prompt.Initial, prompt.Vars{Context: "X"})
	require.NoError(t, err)
	require.Equal(t, "X and X", out)
}

func TestRenderUnknownTemplate(t *testing.T) {
	dir := t.TempDir()
	writeTemplates(t, dir)
	e, err := prompt.Load(dir)
	require.NoError(t, err)

	_, err = e.Render(prompt.Name("missing"), prompt.Vars{})
	require.Error(t, err)
}
