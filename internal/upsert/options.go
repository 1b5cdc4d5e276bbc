package upsert

import (
	"encoding/json"
	"strings"
)

// Options is the policy configuration attached to a job. It is serialized
// onto the job record so downstream processing does not depend on
// request-time state.
type Options struct {
	// SKUSource selects the sync key: "epin" prefers the ePID when present,
	// anything else uses the legacy item id. Products without marketplace
	// identifiers fall back to their first variant SKU.
	SKUSource string `json:"skuSource,omitempty"`

	// Title rewrite, applied before any remote call.
	RewriteTitles  bool   `json:"rewriteTitles,omitempty"`
	RewriteFind    string `json:"rewriteFind,omitempty"`
	RewriteReplace string `json:"rewriteReplace,omitempty"`
	RewriteIsRegex bool   `json:"rewriteIsRegex,omitempty"`

	// DefaultQuantity is set as the inventory level after the product
	// exists; zero leaves inventory alone.
	DefaultQuantity int `json:"defaultQuantity,omitempty"`

	Status          string `json:"status,omitempty"`
	InventoryPolicy string `json:"inventory_policy,omitempty"`
	DefaultVendor   string `json:"defaultVendor,omitempty"`

	// ProductTypeSource is "firstCategory" or "manual".
	ProductTypeSource string `json:"productTypeSource,omitempty"`
	ManualProductType string `json:"manualProductType,omitempty"`

	AppendTags TagList `json:"appendTags,omitempty"`

	// Marketplace fetch policy, used when a job is enqueued from eBay.
	SyncStrategy string `json:"syncStrategy,omitempty"`
	SortOrder    string `json:"sortOrder,omitempty"`

	// JobID ties a synchronous single-item call back to its job.
	JobID string `json:"jobId,omitempty"`
}

// TagList accepts either a JSON array of tags or a single comma-separated
// string, the two shapes clients actually send.
type TagList []string

func (t *TagList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*t = trimTags(list)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = trimTags(strings.Split(s, ","))
	return nil
}

func trimTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// ParseOptions decodes serialized job options. An empty payload yields
// zero-value options rather than an error.
func ParseOptions(raw string) (Options, error) {
	var opts Options
	if raw == "" {
		return opts, nil
	}
	err := json.Unmarshal([]byte(raw), &opts)
	return opts, err
}
