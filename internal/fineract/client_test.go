package fineract

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "github.com/BenyThomas/mtm-sub002/pkg/domain-errors"
)

// fakeDoer records calls and answers from a canned path->payload map.
type fakeDoer struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]error
	body  map[string]string
}

func newFakeDoer() *fakeDoer {
	return &fakeDoer{fail: make(map[string]error), body: make(map[string]string)}
}

func (f *fakeDoer) Do(_ context.Context, method, path string, _, out any) error {
	f.mu.Lock()
	f.calls = append(f.calls, method+" "+path)
	failErr := f.fail[path]
	payload, ok := f.body[path]
	f.mu.Unlock()

	if failErr != nil {
		return failErr
	}
	if !ok {
		payload = `{}`
	}
	if out != nil {
		return json.Unmarshal([]byte(payload), out)
	}
	return nil
}

func (f *fakeDoer) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func TestClientPaths(t *testing.T) {
	doer := newFakeDoer()
	client := NewClient(doer)
	ctx := context.Background()

	_, err := client.List(ctx, ResourceOffices)
	require.NoError(t, err)
	_, err = client.Get(ctx, ResourceCharges, 7)
	require.NoError(t, err)
	_, err = client.Create(ctx, ResourceGLAccounts, map[string]any{"name": "Cash"})
	require.NoError(t, err)
	_, err = client.Update(ctx, ResourceLoanProducts, 3, map[string]any{"name": "Micro"})
	require.NoError(t, err)
	require.NoError(t, client.Delete(ctx, ResourceHooks, 9))
	_, err = client.Template(ctx, ResourceStaff)
	require.NoError(t, err)
	_, err = client.DatatableRows(ctx, "extra_client_details", 42)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"GET /offices",
		"GET /charges/7",
		"POST /glaccounts",
		"PUT /loanproducts/3",
		"DELETE /hooks/9",
		"GET /staff/template",
		"GET /datatables/extra_client_details/42",
	}, doer.recorded())
}

func TestClientListPayloadPassthrough(t *testing.T) {
	doer := newFakeDoer()
	doer.body["/offices"] = `[{"id":1,"name":"HQ"},{"id":2,"name":"Branch"}]`
	client := NewClient(doer)

	raw, err := client.List(context.Background(), ResourceOffices)
	require.NoError(t, err)
	assert.JSONEq(t, doer.body["/offices"], string(raw))
}

func TestClientRejectsUnknownResource(t *testing.T) {
	client := NewClient(newFakeDoer())

	_, err := client.List(context.Background(), "clients;drop")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))

	_, err = client.DatatableRows(context.Background(), "", 1)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestPreloadTemplatesFetchesAll(t *testing.T) {
	doer := newFakeDoer()
	doer.body["/offices/template"] = `{"allowedParents":[]}`
	doer.body["/charges/template"] = `{"chargeCalculationTypeOptions":[]}`
	doer.body["/loanproducts/template"] = `{"currencyOptions":[]}`
	client := NewClient(doer)

	templates, err := client.PreloadTemplates(context.Background(),
		ResourceOffices, ResourceCharges, ResourceLoanProducts)
	require.NoError(t, err)
	require.Len(t, templates, 3)
	assert.JSONEq(t, `{"allowedParents":[]}`, string(templates[ResourceOffices]))
	assert.JSONEq(t, `{"currencyOptions":[]}`, string(templates[ResourceLoanProducts]))
	assert.Len(t, doer.recorded(), 3)
}

func TestPreloadTemplatesPropagatesFailure(t *testing.T) {
	doer := newFakeDoer()
	doer.fail["/charges/template"] = errors.New("boom")
	client := NewClient(doer)

	_, err := client.PreloadTemplates(context.Background(), ResourceOffices, ResourceCharges)
	require.Error(t, err)
	assert.EqualError(t, err, "boom")
}

func TestPreloadTemplatesValidatesUpFront(t *testing.T) {
	doer := newFakeDoer()
	client := NewClient(doer)

	_, err := client.PreloadTemplates(context.Background(), ResourceOffices, "nonsense")
	require.Error(t, err)
	assert.Empty(t, doer.recorded(), "no fetches before validation passes")
}
