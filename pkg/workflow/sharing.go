package workflow

import (
	"fmt"
	"net/url"
)

// ReferralParam is the page query parameter carrying a referral code
const ReferralParam = "referralCode"

// parsePage splits a page URL into its base (no query, no fragment) and the
// inbound referral code
func parsePage(pageURL string) (string, string, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return "", "", fmt.Errorf("invalid page url: %w", err)
	}

	code := u.Query().Get(ReferralParam)

	u.RawQuery = ""
	u.ForceQuery = false
	u.Fragment = ""
	u.RawFragment = ""

	return u.String(), code, nil
}

// SharingLink builds the link a registrant hands out to referees
func SharingLink(baseURL, referralCode string) string {
	return baseURL + "?" + ReferralParam + "=" + url.QueryEscape(referralCode)
}
