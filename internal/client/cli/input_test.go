package cli

import (
	"bufio"
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader("  hello world  \n"))

	got, err := GetSimpleText(reader, "Say something", &out)
	require.NoError(t, err)
	require.Equal(t, "hello world", got)
	require.Contains(t, out.String(), "Say something")
}

func TestGetSimpleText_EOFWithPartialLine(t *testing.T) {
	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader("no newline"))

	got, err := GetSimpleText(reader, "p", &out)
	require.NoError(t, err)
	require.Equal(t, "no newline", got)
}

func TestGetMultiline(t *testing.T) {
	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader("line one\nline two\n\n"))

	got, err := GetMultiline(reader, "Content", &out)
	require.NoError(t, err)
	require.Equal(t, "line one\nline two", got)
}

func TestGetDate(t *testing.T) {
	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader("2025-06-20\n"))

	got, err := GetDate(reader, "Event date", &out)
	require.NoError(t, err)
	require.Equal(t, time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC), got)
}

func TestGetDate_Invalid(t *testing.T) {
	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader("20/06/2025\n"))

	_, err := GetDate(reader, "Event date", &out)
	require.Error(t, err)
}

func TestGetImage(t *testing.T) {
	restore := readFile
	defer func() { readFile = restore }()

	t.Run("empty path skips the image", func(t *testing.T) {
		var out bytes.Buffer
		reader := bufio.NewReader(strings.NewReader("\n"))

		blob, err := GetImage(reader, &out)
		require.NoError(t, err)
		require.Nil(t, blob)
	})

	t.Run("loads file and infers content type", func(t *testing.T) {
		readFile = func(path string) ([]byte, error) {
			require.Equal(t, "/photos/cat.JPG", path)
			return []byte("img-bytes"), nil
		}

		var out bytes.Buffer
		reader := bufio.NewReader(strings.NewReader("/photos/cat.JPG\n"))

		blob, err := GetImage(reader, &out)
		require.NoError(t, err)
		require.Equal(t, "cat.JPG", blob.Filename)
		require.Equal(t, "image/jpeg", blob.ContentType)
		require.Equal(t, []byte("img-bytes"), blob.Data)
	})
}

func TestContentTypeForName(t *testing.T) {
	require.Equal(t, "image/png", contentTypeForName("a.PNG"))
	require.Equal(t, "image/webp", contentTypeForName("b.webp"))
	require.Equal(t, "application/octet-stream", contentTypeForName("c.gif"))
}
