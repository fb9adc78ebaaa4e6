package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronos-tachyon/huffcode/internal/config"
	"github.com/chronos-tachyon/huffcode/tokenizer"
)

func testConfig(format string) *config.Config {
	return &config.Config{
		Log:    config.LogConfig{Level: "info", Format: config.LogFormatJSON},
		Input:  config.InputConfig{Trim: true},
		Output: config.OutputConfig{Format: format},
		Server: config.ServerConfig{Addr: ":0", CacheSize: 1},
	}
}

func TestRunEncodeDigits(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runEncode(testConfig(config.FormatDigits), "  abracadabra\n", &out))

	encoded := strings.TrimSuffix(out.String(), "\n")
	assert.Len(t, encoded, 23)
	assert.Empty(t, strings.Trim(encoded, "01"))
}

func TestRunEncodeShowCodes(t *testing.T) {
	cfg := testConfig(config.FormatDigits)
	cfg.Output.ShowCodes = true

	var out bytes.Buffer
	require.NoError(t, runEncode(cfg, "aab", &out))

	assert.True(t, strings.HasPrefix(out.String(), "Dictionary{\n"))
	assert.Contains(t, out.String(), `Lookup("a")`)
	assert.Contains(t, out.String(), `Lookup("b")`)
}

func TestRunEncodeJSON(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runEncode(testConfig(config.FormatJSON), "abab", &out))

	var result struct {
		Codes   map[string]string `json:"codes"`
		Encoded string            `json:"encoded"`
		Bits    int               `json:"bits"`
		Tokens  int               `json:"tokens"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.Len(t, result.Codes, 2)
	assert.Equal(t, 4, result.Bits)
	assert.Equal(t, 4, result.Tokens)
	assert.Equal(t, result.Codes["a"]+result.Codes["b"]+result.Codes["a"]+result.Codes["b"], result.Encoded)
}

func TestRunEncodePacked(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runEncode(testConfig(config.FormatPacked), "abracadabra", &out))

	// 23 bits pad out to 3 bytes.
	assert.Len(t, out.Bytes(), 3)
}

func TestRunEncodeVocabulary(t *testing.T) {
	cfg := testConfig(config.FormatDigits)
	cfg.Input.Vocabulary = []string{"ab", "a", "b"}

	var out bytes.Buffer
	require.NoError(t, runEncode(cfg, "ababab", &out))

	// "a" and "b" never occur, so they merge first and "ab" gets the
	// single-bit code on the right.
	assert.Equal(t, "111\n", out.String())
}

func TestRunEncodeErrors(t *testing.T) {
	cfg := testConfig(config.FormatDigits)
	cfg.Input.Vocabulary = []string{"a"}

	err := runEncode(cfg, "ab", &bytes.Buffer{})
	assert.ErrorIs(t, err, tokenizer.ErrUnrecognizedInput)

	err = runEncode(testConfig(config.FormatDigits), "   ", &bytes.Buffer{})
	assert.Error(t, err)
}

func TestRunEncodeInvalidUTF8(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runEncode(testConfig(config.FormatDigits), "a\xffb\xff", &out))

	// a:1 \xff:2 b:1 codes to 2+1+2+1 bits.
	encoded := strings.TrimSuffix(out.String(), "\n")
	assert.Len(t, encoded, 6)
	assert.Empty(t, strings.Trim(encoded, "01"))
}

func TestResolveVocabularyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.txt")
	require.NoError(t, os.WriteFile(path, []byte("the\n \r\n\nfox\r\n"), 0o644))

	vocabulary, err := resolveVocabulary(config.InputConfig{VocabularyFile: path}, "ignored")
	require.NoError(t, err)
	assert.Equal(t, []string{"the", " ", "fox"}, vocabulary)

	_, err = resolveVocabulary(config.InputConfig{VocabularyFile: path + ".missing"}, "")
	assert.Error(t, err)

	vocabulary, err = resolveVocabulary(config.InputConfig{}, "aba")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, vocabulary)
}

func TestRun(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"--log-format=json", "--format=json"}, strings.NewReader("hello\n"), &stdout, &stderr)
	require.NoError(t, err)

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &result))
	assert.Equal(t, float64(5), result["tokens"])

	stdout.Reset()
	err = run([]string{"--text=aaab", "encode"}, strings.NewReader(""), &stdout, &stderr)
	require.NoError(t, err)
	assert.Equal(t, "1110\n", stdout.String())

	err = run([]string{"bogus"}, strings.NewReader(""), &stdout, &stderr)
	assert.Error(t, err)
}
