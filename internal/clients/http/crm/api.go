package crm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/oapi-codegen/runtime"
)

// HttpRequestDoer performs HTTP requests.
type HttpRequestDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// RequestEditorFn is the function signature for the RequestEditor callback function
type RequestEditorFn func(ctx context.Context, req *http.Request) error

// api is the low-level CRM REST binding.
type api struct {
	server         string
	client         HttpRequestDoer
	requestEditors []RequestEditorFn
}

// ClientOption allows setting custom parameters during construction
type ClientOption func(*api) error

// WithHTTPClient allows overriding the default Doer.
func WithHTTPClient(doer HttpRequestDoer) ClientOption {
	return func(c *api) error {
		c.client = doer
		return nil
	}
}

// WithRequestEditorFn allows setting up a callback function, which will be
// called right before sending the request.
func WithRequestEditorFn(fn RequestEditorFn) ClientOption {
	return func(c *api) error {
		c.requestEditors = append(c.requestEditors, fn)
		return nil
	}
}

func newAPI(server string, opts ...ClientOption) (*api, error) {
	c := &api{server: server}
	for _, o := range opts {
		if err := o(c); err != nil {
			return nil, err
		}
	}
	if !strings.HasSuffix(c.server, "/") {
		c.server += "/"
	}
	if c.client == nil {
		c.client = &http.Client{}
	}
	return c, nil
}

func (c *api) getCustomerByEmail(ctx context.Context, email string) (*http.Response, error) {
	req, err := newGetCustomerByEmailRequest(c.server, email)
	if err != nil {
		return nil, err
	}
	req = req.WithContext(ctx)
	for _, edit := range c.requestEditors {
		if err := edit(ctx, req); err != nil {
			return nil, err
		}
	}
	return c.client.Do(req)
}

// newGetCustomerByEmailRequest builds GET /api/customers/byemail/{email}.
func newGetCustomerByEmailRequest(server string, email string) (*http.Request, error) {
	pathParam0, err := runtime.StyleParamWithLocation("simple", false, "email", runtime.ParamLocationPath, email)
	if err != nil {
		return nil, err
	}
	serverURL, err := url.Parse(server)
	if err != nil {
		return nil, err
	}
	operationPath := fmt.Sprintf("/api/customers/byemail/%s", pathParam0)
	if operationPath[0] == '/' {
		operationPath = "." + operationPath
	}
	queryURL, err := serverURL.Parse(operationPath)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequest(http.MethodGet, queryURL.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}
