package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/softysite/internal/db"
	"github.com/softysite/internal/session"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestAPI(t *testing.T) (*API, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:handler-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := db.Open(dsn, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		db.Close(gdb)
	})

	return NewAPI(gdb, session.NewManager(time.Hour), nil), gdb
}

func performJSON(t *testing.T, h gin.HandlerFunc, method, target, body string, params ...gin.Param) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = params

	h(c)
	return w
}

func decodeMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode body %q: %v", w.Body.String(), err)
	}
	return payload.Message
}

func idParam(id interface{}) gin.Param {
	return gin.Param{Key: "id", Value: fmt.Sprint(id)}
}
