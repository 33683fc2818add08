package services

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

// fakeS3 answers the handful of path-style S3 calls the minio client makes
type fakeS3 struct {
	mu      sync.Mutex
	buckets map[string]bool
	objects map[string][]byte
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	bucket, object, _ := strings.Cut(strings.TrimPrefix(r.URL.Path, "/"), "/")
	switch {
	case r.Method == http.MethodGet && r.URL.Query().Has("location"):
		w.Header().Set("Content-Type", "application/xml")
		_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><LocationConstraint xmlns="http://s3.amazonaws.com/doc/2006-03-01/">us-east-1</LocationConstraint>`)
	case r.Method == http.MethodHead && object == "":
		if !f.buckets[bucket] {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodPut && object == "":
		f.buckets[bucket] = true
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[bucket+"/"+object] = body
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodDelete:
		delete(f.objects, bucket+"/"+object)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusNotImplemented)
	}
}

type MinioServiceTestSuite struct {
	suite.Suite
	fake    *fakeS3
	server  *httptest.Server
	service MinioService
	ctx     context.Context
}

func (suite *MinioServiceTestSuite) SetupTest() {
	suite.fake = &fakeS3{buckets: map[string]bool{}, objects: map[string][]byte{}}
	suite.server = httptest.NewServer(suite.fake)
	suite.ctx = context.Background()

	endpoint := strings.TrimPrefix(suite.server.URL, "http://")
	service, err := NewMinioService(endpoint, "minioadmin", "minioadmin", false, "plm-assets")
	suite.Require().NoError(err)
	suite.service = service
}

func (suite *MinioServiceTestSuite) TearDownTest() {
	suite.server.Close()
}

func TestMinioServiceTestSuite(t *testing.T) {
	suite.Run(t, new(MinioServiceTestSuite))
}

func (suite *MinioServiceTestSuite) TestEnsureBucketExists_CreatesMissingBucket() {
	suite.Require().NoError(suite.service.EnsureBucketExists(suite.ctx))
	suite.True(suite.fake.buckets["plm-assets"])

	// second call finds it
	suite.NoError(suite.service.EnsureBucketExists(suite.ctx))
	suite.NoError(suite.service.Ping(suite.ctx))
}

func (suite *MinioServiceTestSuite) TestUploadAndDeleteObject() {
	suite.fake.buckets["plm-assets"] = true
	payload := []byte("png-bytes")

	err := suite.service.UploadObject(suite.ctx, "products/1/image.bin", bytes.NewReader(payload), int64(len(payload)), "image/png")
	suite.Require().NoError(err)
	suite.Contains(string(suite.fake.objects["plm-assets/products/1/image.bin"]), "png-bytes")

	suite.Require().NoError(suite.service.DeleteObject(suite.ctx, "products/1/image.bin"))
	suite.NotContains(suite.fake.objects, "plm-assets/products/1/image.bin")
}

func (suite *MinioServiceTestSuite) TestGetPresignedURL() {
	suite.fake.buckets["plm-assets"] = true

	raw, err := suite.service.GetPresignedURL(suite.ctx, "products/1/image.bin", 10*time.Minute)

	suite.Require().NoError(err)
	u, err := url.Parse(raw)
	suite.Require().NoError(err)
	suite.Equal("/plm-assets/products/1/image.bin", u.Path)
	suite.Equal("600", u.Query().Get("X-Amz-Expires"))
	suite.NotEmpty(u.Query().Get("X-Amz-Signature"))
}
