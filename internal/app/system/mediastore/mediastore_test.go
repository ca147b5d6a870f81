package mediastore

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func newUploader(t *testing.T) (*Uploader, *Local) {
	t.Helper()
	local, err := NewLocal(t.TempDir())
	require.NoError(t, err)
	fixed := time.UnixMilli(1700000000000)
	return &Uploader{Store: local, Log: zap.NewNop(), Now: func() time.Time { return fixed }}, local
}

func TestUploader_StoresAndNamesFile(t *testing.T) {
	up, local := newUploader(t)

	got, err := up.Upload(context.Background(), "Event", "../My Photo!.png", bytes.NewReader(pngHeader))
	require.NoError(t, err)

	assert.Equal(t, "uploads/event/1700000000000_My_Photo_.png", got.Key)
	assert.Equal(t, "/files/uploads/event/1700000000000_My_Photo_.png", got.URL)
	assert.Equal(t, "image/png", got.ContentType)
	assert.Equal(t, int64(len(pngHeader)), got.Size)

	full, err := local.FullPath(got.Key)
	require.NoError(t, err)
	data, err := os.ReadFile(full)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, data)
}

func TestUploader_RejectsUnsupportedType(t *testing.T) {
	up, _ := newUploader(t)

	_, err := up.Upload(context.Background(), "sermon", "notes.txt", strings.NewReader("just some text"))
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = up.Upload(context.Background(), "sermon", "empty.mp3", strings.NewReader(""))
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestUploader_AcceptsPDF(t *testing.T) {
	up, _ := newUploader(t)
	got, err := up.Upload(context.Background(), "resource", "guide.pdf", strings.NewReader("%PDF-1.4\n%âãÏÓ\n1 0 obj\n"))
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", got.ContentType)
}

func TestUploader_TooLarge(t *testing.T) {
	up, local := newUploader(t)
	up.MaxBytes = 10

	got, err := up.Upload(context.Background(), "event", "big.png", bytes.NewReader(pngHeader))
	assert.ErrorIs(t, err, ErrTooLarge)
	assert.Empty(t, got.Key)

	full, _ := local.FullPath("uploads/event/1700000000000_big.png")
	_, statErr := os.Stat(full)
	assert.True(t, os.IsNotExist(statErr), "oversized upload should be removed")
}

func TestCleanKey(t *testing.T) {
	for _, bad := range []string{"", "../etc/passwd", "a/../../b", "a\\b", "."} {
		_, err := cleanKey(bad)
		assert.ErrorIs(t, err, ErrInvalidKey, bad)
	}
	k, err := cleanKey("/uploads/x.png")
	require.NoError(t, err)
	assert.Equal(t, "uploads/x.png", k)
}

func TestHandler_LocalServesFile(t *testing.T) {
	up, local := newUploader(t)
	got, err := up.Upload(context.Background(), "kid", "sheet.png", bytes.NewReader(pngHeader))
	require.NoError(t, err)

	h := Handler(local)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", got.URL, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, pngHeader, rec.Body.Bytes())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/files/uploads/kid/missing.png", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestS3_ServeRedirectsToPresignedURL(t *testing.T) {
	awsCfg := aws.Config{
		Region:      "us-east-1",
		Credentials: credentials.NewStaticCredentialsProvider("AKIDEXAMPLE", "secret", ""),
	}
	s := newS3FromConfig(awsCfg, S3Config{Bucket: "vessel-media", Prefix: "/media/"}, zap.NewNop())

	rec := httptest.NewRecorder()
	Handler(s).ServeHTTP(rec, httptest.NewRequest("GET", "/files/uploads/sermon/1_a.mp4", nil))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	loc := rec.Header().Get("Location")
	assert.Contains(t, loc, "vessel-media")
	assert.Contains(t, loc, "media/uploads/sermon/1_a.mp4")
	assert.Contains(t, loc, "X-Amz-Signature=")
}

func TestKeyFromURL(t *testing.T) {
	k, ok := KeyFromURL("/files/uploads/a.png")
	assert.True(t, ok)
	assert.Equal(t, "uploads/a.png", k)

	_, ok = KeyFromURL("https://youtube.com/watch?v=1")
	assert.False(t, ok)
}
