package main

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/resume-layout/internal/config"
	"github.com/jonathan/resume-layout/internal/server"
	"github.com/jonathan/resume-layout/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunRender_WritesPDF(t *testing.T) {
	dir := t.TempDir()
	setFlag(t, &configPath, "")
	setFlag(t, &renderInput, testRecordPath)
	setFlag(t, &renderOutput, dir)
	setFlag(t, &renderStyle, "modern")

	cmd, _ := testCommand()
	require.NoError(t, runRender(cmd, nil))

	data, err := os.ReadFile(filepath.Join(dir, "zoe-angstrom.pdf"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF-"))
}

func TestRunRender_LaTeXWithHTML(t *testing.T) {
	out := filepath.Join(t.TempDir(), "cv.tex")
	setFlag(t, &configPath, "")
	setFlag(t, &renderInput, testRecordPath)
	setFlag(t, &renderOutput, out)
	setFlag(t, &renderFormat, "latex")
	setFlag(t, &renderHTML, true)

	cmd, _ := testCommand()
	require.NoError(t, runRender(cmd, nil))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "document pipeline")
	assert.NotContains(t, string(data), "<b>")
}

func TestRunRender_Verbose(t *testing.T) {
	setFlag(t, &configPath, "")
	setFlag(t, &renderInput, testRecordPath)
	setFlag(t, &renderOutput, t.TempDir())
	setFlag(t, &renderVerbose, true)

	cmd, out := testCommand()
	require.NoError(t, runRender(cmd, nil))
	assert.Contains(t, out.String(), "Zoë Ångström")
}

func TestRunRender_InvalidRecord(t *testing.T) {
	dir := t.TempDir()
	setFlag(t, &configPath, "")
	setFlag(t, &renderInput, writeJSON(t, dir, "bad.json", `{"sections": []}`))
	setFlag(t, &renderOutput, dir)

	cmd, _ := testCommand()
	assert.Error(t, runRender(cmd, nil))
}

func TestRunRenderBatch(t *testing.T) {
	in := t.TempDir()
	data, err := os.ReadFile(testRecordPath)
	require.NoError(t, err)
	writeJSON(t, in, "one.json", string(data))
	writeJSON(t, in, "two.json", string(data))

	out := t.TempDir()
	setFlag(t, &configPath, "")
	setFlag(t, &batchOutDir, out)
	setFlag(t, &batchFormat, "docx")
	setFlag(t, &batchConcurrency, 2)

	cmd, _ := testCommand()
	require.NoError(t, runRenderBatch(cmd, []string{in}))

	for _, name := range []string{"one.docx", "two.docx"} {
		info, err := os.Stat(filepath.Join(out, name))
		require.NoError(t, err, name)
		assert.NotZero(t, info.Size())
	}
}

func TestRunRenderBatch_ReportsFailures(t *testing.T) {
	in := t.TempDir()
	data, err := os.ReadFile(testRecordPath)
	require.NoError(t, err)
	writeJSON(t, in, "good.json", string(data))
	writeJSON(t, in, "bad.json", `{"basics": {}}`)

	out := t.TempDir()
	setFlag(t, &configPath, "")
	setFlag(t, &batchOutDir, out)

	cmd, _ := testCommand()
	err = runRenderBatch(cmd, []string{in})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 records failed")

	_, err = os.Stat(filepath.Join(out, "good.pdf"))
	assert.NoError(t, err)
}

func TestRunValidate_Clean(t *testing.T) {
	setFlag(t, &configPath, "")
	setFlag(t, &validateInput, testRecordPath)
	setFlag(t, &validateMaxPages, 2)

	cmd, out := testCommand()
	require.NoError(t, runValidate(cmd, nil))

	var violations types.Violations
	require.NoError(t, json.Unmarshal(out.Bytes(), &violations))
	assert.False(t, violations.HasErrors())
}

func TestRunValidate_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "violations.json")
	setFlag(t, &configPath, "")
	setFlag(t, &validateInput, testRecordPath)
	setFlag(t, &validateOutput, path)

	cmd, out := testCommand()
	require.NoError(t, runValidate(cmd, nil))
	assert.Empty(t, out.String())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
}

func TestRunStyles(t *testing.T) {
	cmd, out := testCommand()
	require.NoError(t, runStyles(cmd, nil))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Equal(t, []string{"classic (default)", "modern", "timeline"}, lines)
}

func TestRunShowStyle(t *testing.T) {
	setFlag(t, &showStyleFile, "")

	cmd, out := testCommand()
	require.NoError(t, runShowStyle(cmd, []string{"timeline"}))
	assert.Contains(t, out.String(), "name: timeline")

	cmd, _ = testCommand()
	assert.Error(t, runShowStyle(cmd, []string{"baroque"}))
}

func TestRunShowStyle_NameAndFile(t *testing.T) {
	setFlag(t, &showStyleFile, "style.yaml")

	cmd, _ := testCommand()
	assert.Error(t, runShowStyle(cmd, []string{"classic"}))
}

func TestRunToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	owner := uuid.New()
	setFlag(t, &tokenOwner, owner.String())

	cmd, out := testCommand()
	require.NoError(t, runToken(cmd, nil))

	jwtConfig, err := config.NewJWTConfig()
	require.NoError(t, err)
	claims, err := server.NewJWTService(jwtConfig).ValidateToken(strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, owner, claims.GetOwnerID())
}

func TestRunToken_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	cmd, _ := testCommand()
	assert.Error(t, runToken(cmd, nil))
}

func TestRunToken_InvalidOwner(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	setFlag(t, &tokenOwner, "not-a-uuid")

	cmd, _ := testCommand()
	assert.Error(t, runToken(cmd, nil))
}

func TestRenderCommand_MissingInFlag(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "render", "--out", t.TempDir())
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "required flag(s) \"in\" not set")
}

func TestRenderCommand_StyleFlagsExclusive(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "render", "--in", testRecordPath, "--style", "classic", "--style-file", "style.yaml")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "none of the others can be")
}

func TestValidateCommand_WithinBudget(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "validate", "--in", testRecordPath, "--style", "classic", "--max-pages", "1")
	output, err := cmd.CombinedOutput()

	assert.NoError(t, err, string(output))
	assert.Contains(t, string(output), "violations")
}
