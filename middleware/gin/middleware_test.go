package ginmw_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/reoring/polyjson"
	ginmw "github.com/reoring/polyjson/middleware/gin"
)

type Event interface{ topic() string }

type Created struct{ ID string }
type Deleted struct{ ID string }

func (*Created) topic() string { return "created" }
func (*Deleted) topic() string { return "deleted" }

func newEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	f := polyjson.NewFactory()
	if err := polyjson.RegisterAbstract[Event](f,
		polyjson.Variant[*Created](polyjson.Must(polyjson.PropertyHasValue("type", "created"))),
		polyjson.Variant[*Deleted](polyjson.Must(polyjson.PropertyHasValue("type", "deleted"))),
	); err != nil {
		t.Fatalf("register: %v", err)
	}
	s := polyjson.NewSerializer(f, polyjson.WithNamingPolicy(polyjson.CamelCase))

	r := gin.New()
	r.POST("/events", ginmw.DecodeJSON[Event](s), func(c *gin.Context) {
		ev, ok := ginmw.GetDecoded[Event](c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusAccepted, ev.topic())
	})
	return r
}

func TestDecodeJSON(t *testing.T) {
	r := newEngine(t)
	req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(`{"type":"created","id":"7"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusAccepted || rec.Body.String() != "created" {
		t.Fatalf("expected 202 created, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestDecodeJSON_Rejected(t *testing.T) {
	r := newEngine(t)
	req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(`[1,2]`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
