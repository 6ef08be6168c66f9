package sources

import (
	"fmt"
	"net/url"
	"strings"
)

const googleNewsSearchURL = "https://news.google.com/rss/search"

// GoogleNewsURL builds the Google News RSS search URL for a topic. The ceid
// parameter pairs the country with the bare language code (US:en).
func GoogleNewsURL(topic, language, country string) string {
	lang := language
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		lang = lang[:i]
	}

	query := url.Values{}
	query.Set("q", strings.TrimSpace(topic))
	query.Set("hl", language)
	query.Set("gl", country)
	query.Set("ceid", fmt.Sprintf("%s:%s", country, lang))

	// url.Values encodes spaces as '+'; the feed expects %20.
	return googleNewsSearchURL + "?" + strings.ReplaceAll(query.Encode(), "+", "%20")
}
