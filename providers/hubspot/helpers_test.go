package hubspot

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
)

// fakeDoer routes requests by URL substring so one stub can serve the token
// endpoint and the three list endpoints in a single scenario.
type fakeDoer struct {
	responses map[string]stubResponse
	requests  []*http.Request
}

type stubResponse struct {
	status      int
	body        string
	contentType string
}

func newFakeDoer() *fakeDoer {
	return &fakeDoer{responses: map[string]stubResponse{}}
}

func (d *fakeDoer) stub(urlFragment string, status int, body string) {
	d.responses[urlFragment] = stubResponse{status: status, body: body, contentType: "application/json"}
}

func (d *fakeDoer) Do(req *http.Request) (*http.Response, error) {
	d.requests = append(d.requests, req)
	for fragment, stubbed := range d.responses {
		if strings.Contains(req.URL.String(), fragment) {
			return &http.Response{
				StatusCode: stubbed.status,
				Header:     http.Header{"Content-Type": []string{stubbed.contentType}},
				Body:       io.NopCloser(strings.NewReader(stubbed.body)),
			}, nil
		}
	}
	return nil, fmt.Errorf("no stub for %s", req.URL.String())
}

func (d *fakeDoer) requestsFor(urlFragment string) []*http.Request {
	matched := []*http.Request{}
	for _, req := range d.requests {
		if strings.Contains(req.URL.String(), urlFragment) {
			matched = append(matched, req)
		}
	}
	return matched
}

func readRequestBody(t *testing.T, req *http.Request) string {
	t.Helper()
	if req.Body == nil {
		return ""
	}
	body, err := io.ReadAll(req.Body)
	if err != nil {
		t.Fatalf("read request body: %v", err)
	}
	return string(body)
}

func newTestProvider(doer HTTPDoer) (*Provider, error) {
	return New(Config{
		ClientID:     "client-123",
		ClientSecret: "secret-456",
		RedirectURI:  "https://app.example/oauth/callback",
		Scopes: []string{
			"crm.objects.contacts.read",
			"crm.objects.companies.read",
			"crm.objects.deals.read",
		},
		PortalID:   "12345",
		HTTPClient: doer,
	})
}

const tokenResponseBody = `{
	"token_type": "bearer",
	"access_token": "access-abc",
	"refresh_token": "refresh-abc",
	"expires_in": 1800,
	"scope": "crm.objects.contacts.read"
}`

const contactsResponseBody = `{
	"results": [
		{
			"id": "101",
			"properties": {"firstname": "Ada", "lastname": "Lovelace", "email": "ada@example.com"},
			"createdAt": "2024-01-02T10:00:00Z",
			"updatedAt": "2024-02-03T11:30:00Z",
			"associations": {"companies": {"results": [{"id": "201", "type": "contact_to_company"}]}}
		},
		{
			"id": "102",
			"properties": {"email": "grace@example.com"},
			"createdAt": "2024-01-05T08:00:00Z",
			"updatedAt": "2024-01-05T08:00:00Z"
		}
	]
}`

const companiesResponseBody = `{
	"results": [
		{
			"id": "201",
			"properties": {"name": "Acme Inc", "domain": "acme.example"},
			"createdAt": "2023-12-01T00:00:00Z",
			"updatedAt": "2024-01-15T09:00:00Z"
		}
	]
}`

const dealsResponseBody = `{
	"results": [
		{
			"id": "301",
			"properties": {"dealname": "Website redesign"},
			"createdAt": "2024-02-01T00:00:00Z",
			"updatedAt": "2024-02-20T16:45:00Z",
			"associations": {"companies": {"results": [{"id": "201", "type": "deal_to_company"}]}}
		}
	]
}`
