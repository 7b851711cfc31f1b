package hubspot

import (
	"strings"
	"time"

	"github.com/goliatone/go-crm-connect/core"
)

// Normalize maps one HubSpot record into the canonical item shape. It is a
// pure function: no network, no store, deterministic for a given input.
// Display name fallbacks per type. Contact: first+last name, then email,
// then id; company: name, then domain, then id; deal: dealname, then id.
func Normalize(record Object, itemType core.ItemType, parentID, parentName, portalID string) core.Item {
	id := strings.TrimSpace(record.ID)
	return core.Item{
		ID:         id,
		Name:       displayName(record, itemType),
		Type:       itemType,
		CreatedAt:  parseRecordTime(record.CreatedAt),
		UpdatedAt:  parseRecordTime(record.UpdatedAt),
		ParentID:   strings.TrimSpace(parentID),
		ParentName: strings.TrimSpace(parentName),
		URL:        recordURL(itemType, id, portalID),
	}
}

func displayName(record Object, itemType core.ItemType) string {
	switch itemType {
	case core.ItemTypeContact:
		first := record.property("firstname")
		last := record.property("lastname")
		full := strings.TrimSpace(first + " " + last)
		if full != "" {
			return full
		}
		if email := record.property("email"); email != "" {
			return email
		}
	case core.ItemTypeCompany:
		if name := record.property("name"); name != "" {
			return name
		}
		if domain := record.property("domain"); domain != "" {
			return domain
		}
	case core.ItemTypeDeal:
		if name := record.property("dealname"); name != "" {
			return name
		}
	}
	return strings.TrimSpace(record.ID)
}

func parseRecordTime(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return parsed.UTC()
}

// recordURL builds the deep link into the HubSpot UI. The pattern needs the
// portal id; without one there is no deterministic URL and the field stays
// empty.
func recordURL(itemType core.ItemType, id, portalID string) string {
	id = strings.TrimSpace(id)
	portalID = strings.TrimSpace(portalID)
	if id == "" || portalID == "" {
		return ""
	}
	var segment string
	switch itemType {
	case core.ItemTypeContact:
		segment = "contact"
	case core.ItemTypeCompany:
		segment = "company"
	case core.ItemTypeDeal:
		segment = "deal"
	default:
		return ""
	}
	return "https://app.hubspot.com/contacts/" + portalID + "/" + segment + "/" + id
}
