package cli

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func stubTerminal(t *testing.T, terminal bool, pw []byte, err error) {
	t.Helper()
	origTerm, origRead := isTerminal, readPassword
	isTerminal = func(int) bool { return terminal }
	readPassword = func(int) ([]byte, error) { return pw, err }
	t.Cleanup(func() {
		isTerminal = origTerm
		readPassword = origRead
	})
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("  hello world \n"), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
	assert.Equal(t, "Name?\n> ", out.String())
}

func TestGetSimpleText_EOF(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("lastline"), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "lastline", got)

	_, err = GetSimpleText(rdr(""), "Name?", &out)
	assert.ErrorIs(t, err, io.EOF)
}

func TestReadLine_CRLF(t *testing.T) {
	r := rdr("a\r\nb\n")
	first, err := readLine(r)
	require.NoError(t, err)
	second, err := readLine(r)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, []string{first, second})
}

func TestGetPassword_Terminal(t *testing.T) {
	stubTerminal(t, true, []byte("secret1"), nil)

	var out bytes.Buffer
	pw, err := GetPassword(rdr("ignored\n"), "Enter password", &out)
	require.NoError(t, err)
	assert.Equal(t, "secret1", string(pw))
	assert.Equal(t, "Enter password: \n", out.String())
}

func TestGetPassword_TerminalError(t *testing.T) {
	stubTerminal(t, true, nil, errors.New("boom"))

	var out bytes.Buffer
	_, err := GetPassword(rdr(""), "Enter password", &out)
	assert.Error(t, err)
}

func TestGetPassword_NotATerminal(t *testing.T) {
	stubTerminal(t, false, nil, errors.New("must not be called"))

	var out bytes.Buffer
	pw, err := GetPassword(rdr("piped-secret\n"), "Enter password", &out)
	require.NoError(t, err)
	assert.Equal(t, "piped-secret", string(pw))
}
