package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsbuffalo/slper/internal/duckdb"
)

const (
	raggedInput = "#model=wf;N_e=1000\n" +
		"1\t10;5;0.2\t11;7;0.4\n" +
		"2\t10;5;0.3\t11;7;0.1\n" +
		"3\t10;5;0.5\t11;7;0.3\n"
	denseInput = "#model=wf;N_e=100\n" +
		"gen\t101\t102\t103\n" +
		"1\t0.1\t-1\t0.5\n" +
		"2\t0.2\t-1\t0.4\n" +
		"3\t0.4\t0.2\t0.3\n"
	statsInput = "#model=wf\ngen\tpi\n1\t0.1\n2\t0.3\n"
)

// cli runs the command line against a fresh configuration and returns the
// exit code and stdout.
func cli(t *testing.T, args ...string) (int, string) {
	t.Helper()
	viper.Reset()

	cfg := filepath.Join(t.TempDir(), "slper.yaml")
	require.NoError(t, os.WriteFile(cfg, nil, 0644))

	var out bytes.Buffer
	code := execute(append([]string{"--config", cfg, "--log-level", "error"}, args...), &out)
	return code, out.String()
}

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestFreq_DefaultOutputName(t *testing.T) {
	in := writeInput(t, "sim.txt", denseInput)

	code, _ := cli(t, "freq", in)
	require.Equal(t, ExitSuccess, code)

	got, err := os.ReadFile(strings.TrimSuffix(in, ".txt") + "-freq.tsv")
	require.NoError(t, err)
	assert.Equal(t, "generation\t101\t102\t103\n"+
		"1\t0.1\tNA\t0.5\n"+
		"2\t0.2\tNA\t0.4\n"+
		"3\t0.4\t0.2\t0.3\n", string(got))
}

func TestFreq_RaggedToStdout(t *testing.T) {
	in := writeInput(t, "muts.txt", raggedInput)

	code, out := cli(t, "freq", "--ragged", "-o", "-", in)
	require.Equal(t, ExitSuccess, code)
	assert.True(t, strings.HasPrefix(out, "generation\t5\t7\n1\t0.2\t0.4\n"), out)
}

func TestFreq_PruneFlag(t *testing.T) {
	in := writeInput(t, "sim.txt", denseInput)

	code, out := cli(t, "freq", "--min-prop-samples", "0.5", "-o", "-", in)
	require.Equal(t, ExitSuccess, code)
	assert.True(t, strings.HasPrefix(out, "generation\t101\t103\n"), out)
}

func TestFreq_Arrow(t *testing.T) {
	in := writeInput(t, "sim.txt", denseInput)

	code, _ := cli(t, "freq", "--format", "arrow", in)
	require.Equal(t, ExitSuccess, code)

	info, err := os.Stat(strings.TrimSuffix(in, ".txt") + "-freq.arrow")
	require.NoError(t, err)
	assert.NotZero(t, info.Size())
}

func TestCov(t *testing.T) {
	in := writeInput(t, "muts.txt", raggedInput)

	code, out := cli(t, "cov", "--ragged", "-o", "-", in)
	require.Equal(t, ExitSuccess, code)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "start_i\tend_i\tstart_j\tend_j\tcov", lines[0])
}

func TestParams(t *testing.T) {
	in := writeInput(t, "sim.txt", denseInput)

	code, out := cli(t, "params", "--compact", in)
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, `{"model":"wf","N_e":100}`+"\n", out)
}

func TestParams_NonFinite(t *testing.T) {
	in := writeInput(t, "sim.txt", "#model=wf;x1=nan;x2=inf\n")

	code, out := cli(t, "params", "--compact", in)
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, `{"model":"wf","x1":"NaN","x2":"+Inf"}`+"\n", out)
}

func TestStats(t *testing.T) {
	in := writeInput(t, "stats.txt", statsInput)

	code, out := cli(t, "stats", in)
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "pi")
	assert.Contains(t, out, "0.2")
}

func exportCount(t *testing.T, db, source string) int64 {
	t.Helper()
	s, err := duckdb.Open(db)
	require.NoError(t, err)
	defer s.Close()

	n, err := s.FrequencyCount(source)
	require.NoError(t, err)
	return n
}

func TestExport(t *testing.T) {
	in := writeInput(t, "muts.txt", raggedInput)
	db := filepath.Join(t.TempDir(), "out.duckdb")

	code, _ := cli(t, "export", "--ragged", "--db", db, in)
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, int64(6), exportCount(t, db, in))

	code, out := cli(t, "query", "--db", db, "trajectory", in, "10")
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, "generation\tfreq\n1\t0.2\n2\t0.3\n3\t0.5\n", out)

	code, out = cli(t, "query", "--db", db, "param", in, "N_e")
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, "1000\n", out)
}

func TestExport_SkipsUnchangedInput(t *testing.T) {
	in := writeInput(t, "muts.txt", raggedInput)
	db := filepath.Join(t.TempDir(), "out.duckdb")

	code, _ := cli(t, "export", "--ragged", "--db", db, in)
	require.Equal(t, ExitSuccess, code)

	// Read as a stats table this input would replace the frequency rows;
	// unchanged input is skipped, so they survive.
	code, _ = cli(t, "export", "--stats", "--db", db, in)
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, int64(6), exportCount(t, db, in))

	code, _ = cli(t, "export", "--stats", "--force", "--db", db, in)
	require.Equal(t, ExitSuccess, code)
	assert.Zero(t, exportCount(t, db, in))
}

func TestExport_BadInputKeepsRows(t *testing.T) {
	in := writeInput(t, "muts.txt", raggedInput)
	db := filepath.Join(t.TempDir(), "out.duckdb")

	code, _ := cli(t, "export", "--ragged", "--db", db, in)
	require.Equal(t, ExitSuccess, code)

	require.NoError(t, os.WriteFile(in, []byte(raggedInput+"4\t10;5;oops\n"), 0644))
	code, _ = cli(t, "export", "--ragged", "--db", db, in)
	assert.Equal(t, ExitError, code)
	assert.Equal(t, int64(6), exportCount(t, db, in))
}

func TestStats_Columns(t *testing.T) {
	in := writeInput(t, "stats.txt", statsInput)

	code, out := cli(t, "stats", "--columns", "pi", in)
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "pi")
	assert.NotContains(t, out, "gen")

	code, _ = cli(t, "stats", "--columns", "theta", in)
	assert.Equal(t, ExitUsage, code)
}

func TestErrorsAndUsage(t *testing.T) {
	bad := writeInput(t, "bad.txt", "#mu_1=abc\n1\t1;2;0.1\n")

	tests := []struct {
		name string
		args []string
		code int
	}{
		{"no args", []string{"freq"}, ExitUsage},
		{"unknown flag", []string{"freq", "--nope", "x"}, ExitUsage},
		{"unknown format", []string{"freq", "--format", "xml", bad}, ExitUsage},
		{"missing db", []string{"export", bad}, ExitUsage},
		{"query without db", []string{"query", "param", bad, "mu_1"}, ExitUsage},
		{"bad locus id", []string{"query", "--db", "x.duckdb", "trajectory", bad, "ten"}, ExitUsage},
		{"missing file", []string{"freq", "does-not-exist.txt"}, ExitError},
		{"malformed header", []string{"freq", "--ragged", "-o", "-", bad}, ExitError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _ := cli(t, tt.args...)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestConfigSetGet(t *testing.T) {
	viper.Reset()
	cfg := filepath.Join(t.TempDir(), "slper.yaml")
	require.NoError(t, os.WriteFile(cfg, nil, 0644))

	var out bytes.Buffer
	code := execute([]string{"--config", cfg, "config", "set", "min_prop_samples", "0.25"}, &out)
	require.Equal(t, ExitSuccess, code)

	content, err := os.ReadFile(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(content), "min_prop_samples")

	viper.Reset()
	out.Reset()
	code = execute([]string{"--config", cfg, "config", "get", "min_prop_samples"}, &out)
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, "0.25\n", out.String())
}

func TestConfigSet_Validation(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code int
	}{
		{"unknown key", []string{"config", "set", "colour", "red"}, ExitUsage},
		{"proportion out of range", []string{"config", "set", "min_prop_samples", "2"}, ExitUsage},
		{"bad missing", []string{"config", "set", "missing", "none"}, ExitUsage},
		{"bad level", []string{"config", "set", "log_level", "loud"}, ExitUsage},
		{"empty delimiter", []string{"config", "set", "delimiter", ""}, ExitUsage},
		{"unknown get", []string{"config", "get", "colour"}, ExitUsage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _ := cli(t, tt.args...)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestConfigSet_KeepsOtherKeys(t *testing.T) {
	viper.Reset()
	cfg := filepath.Join(t.TempDir(), "slper.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("missing: \"0\"\n"), 0644))

	var out bytes.Buffer
	code := execute([]string{"--config", cfg, "config", "set", "delimiter", `\t`}, &out)
	require.Equal(t, ExitSuccess, code)

	content, err := os.ReadFile(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(content), "missing:")
	assert.Contains(t, string(content), "delimiter:")
	assert.NotContains(t, string(content), "log_level", "only stored keys are written")

	viper.Reset()
	out.Reset()
	code = execute([]string{"--config", cfg, "config"}, &out)
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, out.String(), "# config file: "+cfg)
	assert.Contains(t, out.String(), "min_prop_samples: 0")
}

func TestParseMissing(t *testing.T) {
	v, err := parseMissing("0")
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)

	_, err = parseMissing("zero")
	assert.Error(t, err)
}
