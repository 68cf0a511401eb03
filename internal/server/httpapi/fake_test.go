package httpapi

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/avetrov/filedrop/internal/logging"
	"github.com/avetrov/filedrop/internal/server/auth"
	"github.com/avetrov/filedrop/internal/server/storage"
)

// ---- test logger ----

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (nopLogger) With(...any) logging.Logger            { return nopLogger{} }

// ---- fakes ----

// fakeStore is an in-memory BlobStore that counts calls so tests can assert
// that rejected requests never touch the store.
type fakeStore struct {
	mu      sync.Mutex
	objects []storage.ObjectInfo

	ensureCalls int
	putCalls    int
	listCalls   int
	existsCalls int
	deleteCalls int

	ensureErr error
	putErr    error
	listErr   error
	existsErr error
	deleteErr error
}

func fakeLocator(container, name string) string {
	return "http://store.test/" + container + "/" + name
}

func (f *fakeStore) EnsureContainer(ctx context.Context, container string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ensureCalls++
	return f.ensureErr
}

func (f *fakeStore) PutObject(ctx context.Context, container, name string, content io.Reader) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.putCalls++
	if f.putErr != nil {
		return "", f.putErr
	}
	if _, err := io.ReadAll(content); err != nil {
		return "", err
	}
	f.objects = append(f.objects, storage.ObjectInfo{Name: name, LastModified: time.Now()})
	return fakeLocator(container, name), nil
}

func (f *fakeStore) ListObjects(ctx context.Context, container string) storage.ObjectIterator {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	items := append([]storage.ObjectInfo(nil), f.objects...)
	return &fakeIterator{items: items, err: f.listErr}
}

func (f *fakeStore) Exists(ctx context.Context, container, name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.existsCalls++
	if f.existsErr != nil {
		return false, f.existsErr
	}
	for _, o := range f.objects {
		if o.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) GetLocator(container, name string) string {
	return fakeLocator(container, name)
}

func (f *fakeStore) DeleteObject(ctx context.Context, container, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i, o := range f.objects {
		if o.Name == name {
			f.objects = append(f.objects[:i], f.objects[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeStore) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ensureCalls + f.putCalls + f.listCalls + f.existsCalls + f.deleteCalls
}

type fakeIterator struct {
	items []storage.ObjectInfo
	err   error
}

func (it *fakeIterator) Next(ctx context.Context) (storage.ObjectInfo, bool, error) {
	if it.err != nil {
		return storage.ObjectInfo{}, false, it.err
	}
	if len(it.items) == 0 {
		return storage.ObjectInfo{}, false, nil
	}
	info := it.items[0]
	it.items = it.items[1:]
	return info, true, nil
}

// ---- helpers ----

const (
	testSecret   = "test-secret"
	testIssuer   = "filedrop"
	testAudience = "filedrop-api"
)

func newTestServer(store storage.BlobStore) (*Server, *gin.Engine) {
	s := &Server{
		address:         "127.0.0.1:0",
		container:       "file-uploads",
		store:           store,
		logger:          nopLogger{},
		jwtSecret:       []byte(testSecret),
		jwtIssuer:       testIssuer,
		jwtAudience:     testAudience,
		shutdownTimeout: time.Second,
	}
	return s, s.routes()
}

func validToken(t *testing.T) string {
	t.Helper()
	tok, err := auth.GenerateToken("tester", []byte(testSecret), testIssuer, testAudience, time.Hour)
	require.NoError(t, err)
	return tok
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func doRequest(router *gin.Engine, method, path, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}
