package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arloliu/recomp/coder"
	"github.com/arloliu/recomp/grammar"
	"github.com/stretchr/testify/require"
)

type result struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, stdin []byte, args ...string) result {
	t.Helper()

	var stdout, stderr bytes.Buffer
	code := run(args, bytes.NewReader(stdin), &stdout, &stderr)

	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	return path
}

func sampleInput() []byte {
	return bytes.Repeat([]byte("how much wood would a woodchuck chuck; "), 64)
}

func TestRun_CompressDecompress(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "input.txt", sampleInput())

	tests := []struct {
		name  string
		flags []string
	}{
		{name: "defaults"},
		{name: "fixed none", flags: []string{"-layout", "fixed", "-compression", "none"}},
		{name: "packed s2 random", flags: []string{"-compression", "s2", "-strategy", "random", "-workers", "3"}},
		{name: "lz4 local search checks", flags: []string{"-compression", "lz4", "-strategy", "local-search", "-checks"}},
		{name: "weighted", flags: []string{"-strategy", "weighted", "-workers", "2"}},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			container := filepath.Join(dir, "out"+string(rune('a'+i))+".rlslp")
			derived := filepath.Join(dir, "derived"+string(rune('a'+i))+".txt")

			args := append([]string{"compress", "-in", input, "-out", container, "-log-level", "disabled"}, tt.flags...)
			res := runCLI(t, nil, args...)
			require.Equal(t, 0, res.code, res.stderr)

			res = runCLI(t, nil, "decompress", "-in", container, "-out", derived, "-log-level", "disabled")
			require.Equal(t, 0, res.code, res.stderr)

			got, err := os.ReadFile(derived)
			require.NoError(t, err)
			require.Equal(t, sampleInput(), got)

			res = runCLI(t, nil, "verify", "-in", input, "-grammar", container, "-log-level", "disabled")
			require.Equal(t, 0, res.code, res.stderr)
			require.Equal(t, "OK\n", res.stdout)
		})
	}
}

func TestRun_Stdio(t *testing.T) {
	res := runCLI(t, sampleInput(), "compress", "-in", "-", "-out", "-", "-log-level", "disabled")
	require.Equal(t, 0, res.code, res.stderr)
	require.NotEmpty(t, res.stdout)

	res = runCLI(t, []byte(res.stdout), "decompress", "-in", "-", "-out", "-", "-log-level", "disabled")
	require.Equal(t, 0, res.code, res.stderr)
	require.Equal(t, string(sampleInput()), res.stdout)
}

func TestRun_VerifyMismatch(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "input.txt", sampleInput())
	other := writeFile(t, dir, "other.txt", []byte("not the same bytes"))
	container := filepath.Join(dir, "g.rlslp")

	res := runCLI(t, nil, "compress", "-in", input, "-out", container, "-log-level", "disabled")
	require.Equal(t, 0, res.code, res.stderr)

	res = runCLI(t, nil, "verify", "-in", other, "-grammar", container, "-log-level", "disabled")
	require.Equal(t, 1, res.code)
	require.Contains(t, res.stderr, "derived text does not match the input")
	require.Empty(t, res.stdout)
}

func TestRun_Stats(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "input.txt", sampleInput())
	container := filepath.Join(dir, "g.rlslp")

	res := runCLI(t, nil, "compress", "-in", input, "-out", container,
		"-layout", "fixed", "-compression", "none", "-log-level", "disabled")
	require.Equal(t, 0, res.code, res.stderr)

	res = runCLI(t, nil, "stats", "-in", container, "-log-level", "disabled")
	require.Equal(t, 0, res.code, res.stderr)
	require.Regexp(t, `layout:\s+Fixed\n`, res.stdout)
	require.Regexp(t, `compression:\s+None\n`, res.stdout)
	require.Regexp(t, `byte order:\s+little\n`, res.stdout)
	require.Contains(t, res.stdout, "terminals:")
	require.Regexp(t, `text length:\s+2496\n`, res.stdout)
}

func TestRun_ConfigAndLogging(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "input.txt", sampleInput())
	logPath := filepath.Join(dir, "recomp.log")
	cfgPath := writeFile(t, dir, "config.yaml", []byte(`
engine:
  workers: 2
  strategy: random
  seed: 7
container:
  compression: s2
  big_endian: true
logging:
  level: info
  format: json
  output: `+logPath+`
`))
	container := filepath.Join(dir, "g.rlslp")

	res := runCLI(t, nil, "compress", "-config", cfgPath, "-in", input, "-out", container)
	require.Equal(t, 0, res.code, res.stderr)

	res = runCLI(t, nil, "stats", "-in", container, "-log-level", "disabled")
	require.Equal(t, 0, res.code, res.stderr)
	require.Regexp(t, `compression:\s+S2\n`, res.stdout)
	require.Regexp(t, `byte order:\s+big\n`, res.stdout)

	raw, err := os.ReadFile(logPath)
	require.NoError(t, err)

	var messages []string
	runIDs := map[string]bool{}
	for _, line := range strings.Split(strings.TrimSpace(string(raw)), "\n") {
		var event map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &event), line)
		messages = append(messages, event["message"].(string))
		runIDs[event["run_id"].(string)] = true
	}
	require.Contains(t, messages, "recompression finished")
	require.Contains(t, messages, "container written")
	require.Len(t, runIDs, 1, "every event of a run carries the same run id")
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "input.txt", []byte("abc"))
	garbage := writeFile(t, dir, "garbage.rlslp", bytes.Repeat([]byte{0x42}, 64))

	tests := []struct {
		name   string
		args   []string
		code   int
		stderr string
	}{
		{name: "no command", args: nil, code: 2, stderr: "Commands:"},
		{name: "unknown command", args: []string{"explode"}, code: 2, stderr: `unknown command "explode"`},
		{name: "missing in", args: []string{"compress", "-out", "x"}, code: 2, stderr: "flag -in is required"},
		{name: "missing grammar", args: []string{"verify", "-in", input}, code: 2, stderr: "flag -grammar is required"},
		{name: "bad flag", args: []string{"stats", "-bogus"}, code: 2, stderr: "flag provided but not defined"},
		{name: "extra args", args: []string{"stats", "-in", input, "extra"}, code: 2, stderr: "unexpected arguments"},
		{
			name:   "unknown strategy",
			args:   []string{"compress", "-in", input, "-out", filepath.Join(dir, "o"), "-strategy", "magic"},
			code:   1,
			stderr: "invalid configuration",
		},
		{
			name:   "unknown layout",
			args:   []string{"compress", "-in", input, "-out", filepath.Join(dir, "o"), "-layout", "sparse"},
			code:   1,
			stderr: "container.layout",
		},
		{name: "missing input file", args: []string{"decompress", "-in", filepath.Join(dir, "nope"), "-out", "-"}, code: 1, stderr: "failed to read container"},
		{name: "garbage container", args: []string{"stats", "-in", garbage, "-log-level", "disabled"}, code: 1, stderr: "recomp stats:"},
		{name: "missing config", args: []string{"stats", "-in", garbage, "-config", filepath.Join(dir, "none.yaml")}, code: 1, stderr: "recomp stats:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCLI(t, nil, tt.args...)
			require.Equal(t, tt.code, res.code, res.stderr)
			require.Contains(t, res.stderr, tt.stderr)
		})
	}
}

func TestRun_DecompressSizeLimit(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "input.txt", sampleInput())
	container := filepath.Join(dir, "g.rlslp")

	res := runCLI(t, nil, "compress", "-in", input, "-out", container, "-log-level", "disabled")
	require.Equal(t, 0, res.code, res.stderr)

	res = runCLI(t, nil, "decompress", "-in", container, "-out", "-", "-max-size", "100", "-log-level", "disabled")
	require.Equal(t, 1, res.code)
	require.Contains(t, res.stderr, "derived text too large")
	require.Empty(t, res.stdout)

	res = runCLI(t, nil, "decompress", "-in", container, "-out", "-", "-max-size", "2496", "-log-level", "disabled")
	require.Equal(t, 0, res.code, res.stderr)
	require.Equal(t, string(sampleInput()), res.stdout)

	// two nested block rules deriving 2^62 bytes
	g := grammar.New(256)
	require.NoError(t, g.AppendBlockRules([]grammar.Rule{grammar.NewBlockRule(0, 1<<31, 1)}))
	require.NoError(t, g.AppendBlockRules([]grammar.Rule{grammar.NewBlockRule(256, 1<<31, 1<<31)}))
	require.NoError(t, g.SetRoot(257))
	huge, err := coder.Encode(g)
	require.NoError(t, err)
	hugePath := writeFile(t, dir, "huge.rlslp", huge)

	res = runCLI(t, nil, "decompress", "-in", hugePath, "-out", "-", "-log-level", "disabled")
	require.Equal(t, 1, res.code)
	require.Contains(t, res.stderr, "derived text too large")
}

func TestRun_VersionAndHelp(t *testing.T) {
	res := runCLI(t, nil, "version")
	require.Equal(t, 0, res.code)
	require.Equal(t, "recomp dev\n", res.stdout)

	res = runCLI(t, nil, "help")
	require.Equal(t, 0, res.code)
	require.Contains(t, res.stdout, "decompress")

	res = runCLI(t, nil, "compress", "-h")
	require.Equal(t, 0, res.code)
	require.Contains(t, res.stderr, "-strategy")
}
