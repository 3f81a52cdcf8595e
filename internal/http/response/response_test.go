package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lingualeap-backend/internal/platform/apierr"
)

func render(fn func(c *gin.Context)) (*httptest.ResponseRecorder, ErrorEnvelope) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	fn(c)
	var env ErrorEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

func TestRespondAPIError(t *testing.T) {
	rec, env := render(func(c *gin.Context) {
		RespondAPIError(c, apierr.New(http.StatusConflict, "has_dependents", errors.New("lesson is a prerequisite")))
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("status: want=%d got=%d", http.StatusConflict, rec.Code)
	}
	if env.Error.Code != "has_dependents" || env.Error.Message != "lesson is a prerequisite" {
		t.Fatalf("envelope: got=%+v", env)
	}
}

func TestRespondAPIErrorHidesUntypedErrors(t *testing.T) {
	rec, env := render(func(c *gin.Context) {
		RespondAPIError(c, errors.New("pq: password authentication failed"))
	})
	if rec.Code != http.StatusInternalServerError || env.Error.Message != "internal error" {
		t.Fatalf("untyped error: status=%d envelope=%+v", rec.Code, env)
	}
}
