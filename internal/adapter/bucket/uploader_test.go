package bucket

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/couchcryptid/levee-files/internal/domain"
	"github.com/couchcryptid/levee-files/internal/output"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type putCall struct {
	bucket, object, contentType string
	body                        string
	size                        int64
}

type fakePutter struct {
	calls []putCall
	err   error
}

func (f *fakePutter) PutObject(_ context.Context, bucket, object string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	if f.err != nil {
		return minio.UploadInfo{}, f.err
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	f.calls = append(f.calls, putCall{bucket: bucket, object: object, contentType: opts.ContentType, body: string(body), size: size})
	return minio.UploadInfo{ETag: "etag"}, nil
}

func geoDoc(t *testing.T) *output.GeoJSON {
	t.Helper()
	doc := output.NewGeoJSON("levees.geojson")
	require.NoError(t, doc.Finalize())
	return doc
}

func TestUploader_Load(t *testing.T) {
	fp := &fakePutter{}
	u := &Uploader{client: fp, bucket: "site", prefix: "levees/2016", logger: slog.Default()}

	doc := geoDoc(t)
	require.NoError(t, u.Load(context.Background(), doc))

	require.Len(t, fp.calls, 1)
	call := fp.calls[0]
	assert.Equal(t, "site", call.bucket)
	assert.Equal(t, "levees/2016/levees.geojson", call.object)
	assert.Equal(t, "application/geo+json", call.contentType)
	assert.Equal(t, string(doc.Bytes()), call.body)
	assert.Equal(t, int64(len(doc.Bytes())), call.size)
}

func TestUploader_ObjectName(t *testing.T) {
	assert.Equal(t, "levees.ics", (&Uploader{}).ObjectName("levees.ics"))
	assert.Equal(t, "a/b/levees.ics", (&Uploader{prefix: "a/b/"}).ObjectName("levees.ics"))
}

func TestUploader_LoadError(t *testing.T) {
	u := &Uploader{client: &fakePutter{err: errors.New("access denied")}, bucket: "site", logger: slog.Default()}

	err := u.Load(context.Background(), geoDoc(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmitterWrite)
	assert.Contains(t, err.Error(), "put site/levees.geojson")
}

func TestNew(t *testing.T) {
	u, err := New(Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b", Bucket: "site"}, slog.Default())
	require.NoError(t, err)
	assert.Equal(t, "site", u.bucket)
}
