package hubspot

import "strings"

// Object is one record from a HubSpot CRM v3 list endpoint. Properties vary
// by object type; absent fields simply do not appear in the map.
type Object struct {
	ID           string                     `json:"id"`
	Properties   map[string]string          `json:"properties"`
	CreatedAt    string                     `json:"createdAt"`
	UpdatedAt    string                     `json:"updatedAt"`
	Associations map[string]AssociationList `json:"associations,omitempty"`
}

type AssociationList struct {
	Results []AssociationRef `json:"results"`
}

type AssociationRef struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

type objectListPayload struct {
	Results []Object `json:"results"`
}

func (o Object) property(name string) string {
	if len(o.Properties) == 0 {
		return ""
	}
	return strings.TrimSpace(o.Properties[name])
}

// associatedCompanyID returns the first associated company id, if the record
// was fetched with company associations expanded.
func (o Object) associatedCompanyID() string {
	if len(o.Associations) == 0 {
		return ""
	}
	list, ok := o.Associations["companies"]
	if !ok || len(list.Results) == 0 {
		return ""
	}
	return strings.TrimSpace(list.Results[0].ID)
}
