package echomw_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/reoring/polyjson"
	echomw "github.com/reoring/polyjson/middleware/echo"
)

type Event interface{ topic() string }

type Created struct{ ID string }
type Deleted struct{ ID string }

func (*Created) topic() string { return "created" }
func (*Deleted) topic() string { return "deleted" }

func newServer(t *testing.T) *echo.Echo {
	t.Helper()
	f := polyjson.NewFactory()
	if err := polyjson.RegisterAbstract[Event](f,
		polyjson.Variant[*Created](polyjson.Must(polyjson.PropertyHasValue("type", "created"))),
		polyjson.Variant[*Deleted](polyjson.Must(polyjson.PropertyHasValue("type", "deleted"))),
	); err != nil {
		t.Fatalf("register: %v", err)
	}
	s := polyjson.NewSerializer(f, polyjson.WithNamingPolicy(polyjson.CamelCase))

	e := echo.New()
	e.POST("/events", func(c echo.Context) error {
		ev, ok := echomw.GetDecoded[Event](c)
		if !ok {
			return c.NoContent(http.StatusInternalServerError)
		}
		return c.String(http.StatusAccepted, ev.topic())
	}, echomw.DecodeJSON[Event](s))
	return e
}

func TestDecodeJSON(t *testing.T) {
	e := newServer(t)
	req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(`{"type":"deleted","id":"42"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusAccepted || rec.Body.String() != "deleted" {
		t.Fatalf("expected 202 deleted, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestDecodeJSON_Rejected(t *testing.T) {
	e := newServer(t)
	req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(`{"type":"renamed"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), polyjson.CodeDiscriminatorUnknown) {
		t.Fatalf("expected issue code in body, got %s", rec.Body.String())
	}
}
