package tracking

import (
	"net/url"
	"strings"

	"leadtrack/internal/models"
)

// redirectParam pairs an outbound query key with the lead field feeding it.
type redirectParam struct {
	key   string
	value string
}

// BuildRedirectURL assembles the outbound affiliate URL for a matched lead:
// "{base}/{camp_id}" plus query parameters in the fixed order the affiliate
// network expects: external_id, af_sub1..af_sub4, af_sub5 (pixel),
// af_sub6 (token), then the requesting app_id, which is always appended
// last. Empty source fields are omitted entirely rather than sent as empty
// values. Returns models.ErrMissingCampaignID when the lead has no camp_id.
func BuildRedirectURL(lead *models.LeadRecord, requestAppID, base string) (string, error) {
	if lead.CampID == "" {
		return "", models.ErrMissingCampaignID
	}

	params := []redirectParam{
		{"external_id", lead.Fbclid},
		{"af_sub1", lead.Sub1},
		{"af_sub2", lead.Sub2},
		{"af_sub3", lead.Sub3},
		{"af_sub4", lead.Sub4},
		{"af_sub5", lead.Pixel},
		{"af_sub6", lead.Token},
	}

	var sb strings.Builder
	sb.WriteString(strings.TrimRight(base, "/"))
	sb.WriteByte('/')
	sb.WriteString(lead.CampID)

	sep := byte('?')
	for _, p := range params {
		if p.value == "" {
			continue
		}
		sb.WriteByte(sep)
		sep = '&'
		sb.WriteString(p.key)
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(p.value))
	}

	// app_id is appended unconditionally, last
	sb.WriteByte(sep)
	sb.WriteString("app_id=")
	sb.WriteString(url.QueryEscape(requestAppID))

	return sb.String(), nil
}
