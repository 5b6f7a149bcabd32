package converter

import "strings"

// licenseURLByCode maps license codes to their canonical URLs. Lookups
// run case-insensitively in both directions.
var licenseURLByCode = map[string]string{
	"cc-by":       "http://creativecommons.org/licenses/by/4.0/",
	"cc-by-sa":    "http://creativecommons.org/licenses/by-sa/4.0/",
	"cc-by-nd":    "http://creativecommons.org/licenses/by-nd/4.0/",
	"cc-by-nc":    "http://creativecommons.org/licenses/by-nc/4.0/",
	"cc-by-nc-sa": "http://creativecommons.org/licenses/by-nc-sa/4.0/",
	"cc-by-nc-nd": "http://creativecommons.org/licenses/by-nc-nd/4.0/",
	"cc0":         "http://creativecommons.org/publicdomain/zero/1.0/",
}

// LicenseURL returns the canonical URL for a license code.
func LicenseURL(code string) (string, bool) {
	url, ok := licenseURLByCode[strings.ToLower(code)]
	return url, ok
}

// LicenseCode returns the license code for a canonical URL.
func LicenseCode(url string) (string, bool) {
	needle := strings.ToLower(strings.TrimSuffix(url, "/"))
	for code, u := range licenseURLByCode {
		if strings.TrimSuffix(strings.ToLower(u), "/") == needle {
			return code, true
		}
	}
	return "", false
}
