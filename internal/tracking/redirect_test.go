package tracking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadtrack/internal/models"
)

const testBase = "https://app.appsflyer.com"

func fullLead() *models.LeadRecord {
	return &models.LeadRecord{
		AppID:  "100001",
		CampID: "camp42",
		Sub1:   "s1",
		Sub2:   "s2",
		Sub3:   "s3",
		Sub4:   "s4",
		Pixel:  "px1",
		Token:  "tok-abc",
		Fbclid: "fb.1.123",
	}
}

func TestBuildRedirectURL_AllFields(t *testing.T) {
	url, err := BuildRedirectURL(fullLead(), "100001", testBase)
	require.NoError(t, err)
	assert.Equal(t,
		"https://app.appsflyer.com/camp42?external_id=fb.1.123&af_sub1=s1&af_sub2=s2&af_sub3=s3&af_sub4=s4&af_sub5=px1&af_sub6=tok-abc&app_id=100001",
		url)
}

func TestBuildRedirectURL_EmptyFieldsOmitted(t *testing.T) {
	lead := &models.LeadRecord{CampID: "camp42", Sub2: "only"}
	url, err := BuildRedirectURL(lead, "100001", testBase)
	require.NoError(t, err)
	assert.Equal(t, "https://app.appsflyer.com/camp42?af_sub2=only&app_id=100001", url)
}

func TestBuildRedirectURL_AppIDAlwaysPresent(t *testing.T) {
	lead := &models.LeadRecord{CampID: "camp42"}
	url, err := BuildRedirectURL(lead, "", testBase)
	require.NoError(t, err)
	assert.Equal(t, "https://app.appsflyer.com/camp42?app_id=", url)
}

func TestBuildRedirectURL_MissingCampID(t *testing.T) {
	lead := &models.LeadRecord{AppID: "100001"}
	_, err := BuildRedirectURL(lead, "100001", testBase)
	assert.ErrorIs(t, err, models.ErrMissingCampaignID)
}

func TestBuildRedirectURL_ValuesEscaped(t *testing.T) {
	lead := &models.LeadRecord{CampID: "camp42", Sub1: "a b&c=d"}
	url, err := BuildRedirectURL(lead, "com.example app", testBase)
	require.NoError(t, err)
	assert.Equal(t, "https://app.appsflyer.com/camp42?af_sub1=a+b%26c%3Dd&app_id=com.example+app", url)
}

func TestBuildRedirectURL_TrailingSlashBase(t *testing.T) {
	lead := &models.LeadRecord{CampID: "camp42"}
	url, err := BuildRedirectURL(lead, "100001", testBase+"/")
	require.NoError(t, err)
	assert.Equal(t, "https://app.appsflyer.com/camp42?app_id=100001", url)
}

func TestBuildRedirectURL_Deterministic(t *testing.T) {
	first, err := BuildRedirectURL(fullLead(), "100001", testBase)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := BuildRedirectURL(fullLead(), "100001", testBase)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
