package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avetrov/filedrop/internal/server/storage"
)

type uploadResponse struct {
	FileName string `json:"file_name"`
	BlobURL  string `json:"blob_url"`
}

type listEntry struct {
	Name         string    `json:"name"`
	LastModified time.Time `json:"last_modified"`
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

// Upload stores a multipart file payload under a fresh collision-resistant
// name. Empty or missing payloads are rejected before any store call.
func (s *Server) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.String(http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	if header.Size == 0 {
		c.String(http.StatusBadRequest, "No file uploaded")
		return
	}

	ctx := c.Request.Context()

	if err := s.store.EnsureContainer(ctx, s.container); err != nil {
		s.internalError(c, "ensuring container", err)
		return
	}

	name := storage.NewObjectName(header.Filename)

	locator, err := s.store.PutObject(ctx, s.container, name, file)
	if err != nil {
		s.internalError(c, "uploading object", err)
		return
	}

	s.logger.Info(ctx, "Uploaded", "name", name)
	c.JSON(http.StatusOK, uploadResponse{FileName: header.Filename, BlobURL: locator})
}

// List streams the container's contents as a JSON array of
// {name, last_modified} entries, pulling pages from the store lazily instead
// of materializing the whole listing in memory.
func (s *Server) List(c *gin.Context) {
	ctx := c.Request.Context()
	it := s.store.ListObjects(ctx, s.container)

	// Fetch the first element before committing the status line so a store
	// failure can still surface as 500.
	info, ok, err := it.Next(ctx)
	if err != nil {
		s.internalError(c, "listing objects", err)
		return
	}

	c.Header("Content-Type", "application/json; charset=utf-8")
	c.Status(http.StatusOK)

	w := c.Writer
	enc := json.NewEncoder(w)

	w.WriteString("[")
	first := true
	for ok {
		if !first {
			w.WriteString(",")
		}
		first = false

		if err := enc.Encode(listEntry{Name: info.Name, LastModified: info.LastModified}); err != nil {
			return
		}

		info, ok, err = it.Next(ctx)
		if err != nil {
			// The status line is already out; the response is cut short
			// rather than rewritten.
			s.logger.Error(ctx, "listing objects", "error", err)
			return
		}
	}
	w.WriteString("]")
}

// Lookup returns the locator of a named object, not its content.
func (s *Server) Lookup(c *gin.Context) {
	name := c.Param("name")
	ctx := c.Request.Context()

	exists, err := s.store.Exists(ctx, s.container, name)
	if err != nil {
		s.internalError(c, "checking object", err)
		return
	}
	if !exists {
		c.String(http.StatusNotFound, "File not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"blob_url": s.store.GetLocator(s.container, name)})
}

// Delete removes a named object. Deleting the same name twice yields 404 the
// second time.
func (s *Server) Delete(c *gin.Context) {
	name := c.Param("name")
	ctx := c.Request.Context()

	exists, err := s.store.Exists(ctx, s.container, name)
	if err != nil {
		s.internalError(c, "checking object", err)
		return
	}
	if !exists {
		c.String(http.StatusNotFound, "File not found")
		return
	}

	if err := s.store.DeleteObject(ctx, s.container, name); err != nil {
		s.internalError(c, "deleting object", err)
		return
	}

	s.logger.Info(ctx, "Deleted", "name", name)
	c.String(http.StatusOK, "File deleted successfully")
}

func (s *Server) internalError(c *gin.Context, msg string, err error) {
	s.logger.Error(c.Request.Context(), msg, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
