// Package fineract is a thin, typed passthrough over the platform's CRUD
// resources. Payloads are opaque to the client: screens render whatever the
// platform returns, and the platform validates whatever the screens submit.
// Only the generic success/error envelope is interpreted, and that happens in
// the gateway.
package fineract

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	dErrors "github.com/BenyThomas/mtm-sub002/pkg/domain-errors"
)

// Resource names every collection the console exposes.
const (
	ResourceOffices              = "offices"
	ResourceStaff                = "staff"
	ResourceGLAccounts           = "glaccounts"
	ResourceAccountingRules      = "accountingrules"
	ResourceCharges              = "charges"
	ResourceLoanProducts         = "loanproducts"
	ResourceHooks                = "hooks"
	ResourceTaxComponents        = "taxes/component"
	ResourceTaxGroups            = "taxes/group"
	ResourceStandingInstructions = "standinginstructions"
)

// Resources lists every known resource name, in display order.
var Resources = []string{
	ResourceOffices,
	ResourceStaff,
	ResourceGLAccounts,
	ResourceAccountingRules,
	ResourceCharges,
	ResourceLoanProducts,
	ResourceHooks,
	ResourceTaxComponents,
	ResourceTaxGroups,
	ResourceStandingInstructions,
}

// Doer is the request surface the client needs from the gateway.
type Doer interface {
	Do(ctx context.Context, method, path string, body, out any) error
}

// Client exposes generic CRUD plus template fetches over the gateway.
type Client struct {
	gw Doer
}

// NewClient builds a resource client over the given gateway.
func NewClient(gw Doer) *Client {
	return &Client{gw: gw}
}

// List fetches a whole collection as raw JSON.
func (c *Client) List(ctx context.Context, resource string) (json.RawMessage, error) {
	if err := validResource(resource); err != nil {
		return nil, err
	}
	var out json.RawMessage
	if err := c.gw.Do(ctx, http.MethodGet, "/"+resource, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches a single entity by ID.
func (c *Client) Get(ctx context.Context, resource string, id int64) (json.RawMessage, error) {
	if err := validResource(resource); err != nil {
		return nil, err
	}
	var out json.RawMessage
	if err := c.gw.Do(ctx, http.MethodGet, fmt.Sprintf("/%s/%d", resource, id), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create posts a new entity; body passes through untouched.
func (c *Client) Create(ctx context.Context, resource string, body any) (json.RawMessage, error) {
	if err := validResource(resource); err != nil {
		return nil, err
	}
	var out json.RawMessage
	if err := c.gw.Do(ctx, http.MethodPost, "/"+resource, body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update puts changed fields for an entity.
func (c *Client) Update(ctx context.Context, resource string, id int64, body any) (json.RawMessage, error) {
	if err := validResource(resource); err != nil {
		return nil, err
	}
	var out json.RawMessage
	if err := c.gw.Do(ctx, http.MethodPut, fmt.Sprintf("/%s/%d", resource, id), body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes an entity.
func (c *Client) Delete(ctx context.Context, resource string, id int64) error {
	if err := validResource(resource); err != nil {
		return err
	}
	return c.gw.Do(ctx, http.MethodDelete, fmt.Sprintf("/%s/%d", resource, id), nil, nil)
}

// Template fetches the option metadata the platform serves for create/edit
// forms of a resource.
func (c *Client) Template(ctx context.Context, resource string) (json.RawMessage, error) {
	if err := validResource(resource); err != nil {
		return nil, err
	}
	var out json.RawMessage
	if err := c.gw.Do(ctx, http.MethodGet, "/"+resource+"/template", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DatatableRows fetches the rows of a registered datatable for one entry of
// its application table.
func (c *Client) DatatableRows(ctx context.Context, datatable string, appTableID int64) (json.RawMessage, error) {
	if datatable == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "datatable name is required")
	}
	var out json.RawMessage
	path := fmt.Sprintf("/datatables/%s/%d", datatable, appTableID)
	if err := c.gw.Do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func validResource(resource string) error {
	for _, known := range Resources {
		if resource == known {
			return nil
		}
	}
	return dErrors.New(dErrors.CodeInvalidInput,
		fmt.Sprintf("unknown resource %q (known: %s)", resource, strings.Join(Resources, ", ")))
}
