package hubspot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/goliatone/go-crm-connect/core"
)

var listedItemTypes = []core.ItemType{
	core.ItemTypeContact,
	core.ItemTypeCompany,
	core.ItemTypeDeal,
}

type authRejectedError struct {
	status int
}

func (e *authRejectedError) Error() string {
	return fmt.Sprintf("hubspot: authentication rejected: status %d", e.status)
}

// ListItems fetches contacts, companies, and deals, bounded to limit per
// type, and returns them normalized in that order. A failing resource type
// is collected as a ResourceError without aborting the siblings; a 401/403
// is terminal because it would recur on every call with the same token.
func (p *Provider) ListItems(ctx context.Context, cred core.Credential, limit int) (core.FetchItemsResult, error) {
	if p == nil {
		return core.FetchItemsResult{}, fmt.Errorf("hubspot: provider is nil")
	}
	if err := cred.Validate(); err != nil {
		return core.FetchItemsResult{}, err
	}
	if limit <= 0 {
		limit = defaultItemLimit
	}

	result := core.FetchItemsResult{}
	fetched := map[core.ItemType][]Object{}
	for _, itemType := range listedItemTypes {
		objects, err := p.listObjects(ctx, cred.AccessToken, itemType, limit)
		if err != nil {
			var rejected *authRejectedError
			if errors.As(err, &rejected) {
				return core.FetchItemsResult{}, err
			}
			result.ResourceErrors = append(result.ResourceErrors, core.ResourceError{
				Resource: itemType,
				Err:      err,
			})
			continue
		}
		fetched[itemType] = objects
	}

	companyNames := map[string]string{}
	for _, company := range fetched[core.ItemTypeCompany] {
		id := strings.TrimSpace(company.ID)
		if id == "" {
			continue
		}
		companyNames[id] = displayName(company, core.ItemTypeCompany)
	}

	for _, itemType := range listedItemTypes {
		for _, record := range fetched[itemType] {
			parentID := ""
			parentName := ""
			if itemType == core.ItemTypeContact || itemType == core.ItemTypeDeal {
				parentID = record.associatedCompanyID()
				parentName = companyNames[parentID]
			}
			result.Items = append(result.Items, Normalize(record, itemType, parentID, parentName, p.cfg.PortalID))
		}
	}
	return result, nil
}

func (p *Provider) listObjects(ctx context.Context, accessToken string, itemType core.ItemType, limit int) ([]Object, error) {
	if p.httpClient == nil {
		return nil, fmt.Errorf("hubspot: http client is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	resource := resourceName(itemType)
	values := url.Values{}
	values.Set("limit", strconv.Itoa(limit))
	if itemType == core.ItemTypeContact || itemType == core.ItemTypeDeal {
		values.Set("associations", "companies")
	}
	endpoint := p.cfg.APIBaseURL + "/crm/v3/objects/" + resource + "?" + values.Encode()

	requestCtx, cancel := context.WithTimeout(ctx, p.cfg.RequestTimeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(requestCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+strings.TrimSpace(accessToken))
	httpReq.Header.Set("Accept", "application/json")

	response, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("hubspot: %s list failed: %w", resource, err)
	}
	defer response.Body.Close()

	body, readErr := io.ReadAll(io.LimitReader(response.Body, maxResponseBodyBytes+1))
	if readErr != nil {
		return nil, fmt.Errorf("hubspot: read %s response: %w", resource, readErr)
	}
	if int64(len(body)) > maxResponseBodyBytes {
		return nil, fmt.Errorf("hubspot: %s response exceeds %d bytes", resource, maxResponseBodyBytes)
	}

	if response.StatusCode == http.StatusUnauthorized || response.StatusCode == http.StatusForbidden {
		return nil, &authRejectedError{status: response.StatusCode}
	}
	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("hubspot: %s list failed: status %d", resource, response.StatusCode)
	}

	payload := objectListPayload{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("hubspot: decode %s response: %w", resource, err)
	}
	return payload.Results, nil
}

func resourceName(itemType core.ItemType) string {
	switch itemType {
	case core.ItemTypeContact:
		return "contacts"
	case core.ItemTypeCompany:
		return "companies"
	case core.ItemTypeDeal:
		return "deals"
	default:
		return string(itemType)
	}
}
