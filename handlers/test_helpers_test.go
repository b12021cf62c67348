package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotebuilder/models"
	"quotebuilder/services"
	"quotebuilder/testhelpers"
)

// newTestRequestEvent creates a RequestEvent suitable for handler tests.
func newTestRequestEvent(app *pocketbase.PocketBase, req *http.Request, rec *httptest.ResponseRecorder) *core.RequestEvent {
	e := &core.RequestEvent{}
	e.App = app
	e.Request = req
	e.Response = rec
	return e
}

// testEnv wires the services over a seeded record store, as main does.
type testEnv struct {
	app     *pocketbase.PocketBase
	catalog *services.Catalog
	clients *services.ClientService
	quotes  *services.QuoteService
	client  models.Client
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	app, st := testhelpers.NewTestStore(t)
	env := &testEnv{
		app:     app,
		catalog: services.NewCatalog(st),
		clients: services.NewClientService(st),
		quotes:  services.NewQuoteService(st),
		client:  testhelpers.CreateTestClient(t, st, "c1", "Ana"),
	}
	env.quotes.Now = func() time.Time { return time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC) }
	return env
}

// call runs handler with an optional JSON body and the given path values.
func (env *testEnv) call(t *testing.T, handler func(*core.RequestEvent) error, method, target string, body any, path map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range path {
		req.SetPathValue(k, v)
	}
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(env.app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

// createQuote stores a quote for the test client with one default window.
func (env *testEnv) createQuote(t *testing.T) models.Quote {
	t.Helper()
	rec := env.call(t, HandleQuoteCreate(env.quotes), http.MethodPost, "/api/quotes",
		map[string]any{"clienteId": env.client.ID}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create quote: status %d, body %s", rec.Code, rec.Body.String())
	}
	q := decodeBody[models.Quote](t, rec)

	rec = env.call(t, HandleLineAdd(env.quotes), http.MethodPost, "/api/quotes/"+q.ID+"/lines",
		map[string]any{"productoId": "ventana", "referencia": "V-01"}, map[string]string{"id": q.ID})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add line: status %d, body %s", rec.Code, rec.Body.String())
	}
	return decodeBody[models.Quote](t, rec)
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}
