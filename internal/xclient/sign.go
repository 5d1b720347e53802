package xclient

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// oauth1Sign signs a request with OAuth 1.0a HMAC-SHA1. queryParams must be
// the request's query parameters; JSON bodies are not part of the signature
// base string.
func (c *Client) oauth1Sign(req *http.Request, queryParams map[string]string) {
	oauth := map[string]string{
		"oauth_consumer_key":     c.creds.ConsumerKey,
		"oauth_nonce":            c.nonceFn(),
		"oauth_signature_method": "HMAC-SHA1",
		"oauth_timestamp":        strconv.FormatInt(c.nowFn().Unix(), 10),
		"oauth_token":            c.creds.AccessToken,
		"oauth_version":          "1.0",
	}
	all := map[string]string{}
	for k, v := range oauth {
		all[k] = v
	}
	for k, v := range queryParams {
		all[k] = v
	}
	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	paramParts := make([]string, 0, len(keys))
	for _, k := range keys {
		paramParts = append(paramParts, rfc3986(k)+"="+rfc3986(all[k]))
	}
	paramStr := strings.Join(paramParts, "&")
	baseURL := req.URL.Scheme + "://" + req.URL.Host + req.URL.Path
	base := req.Method + "&" + rfc3986(baseURL) + "&" + rfc3986(paramStr)
	signingKey := rfc3986(c.creds.ConsumerSecret) + "&" + rfc3986(c.creds.AccessSecret)
	mac := hmac.New(sha1.New, []byte(signingKey))
	_, _ = mac.Write([]byte(base))
	sig := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	oauth["oauth_signature"] = sig
	hdrKeys := make([]string, 0, len(oauth))
	for k := range oauth {
		hdrKeys = append(hdrKeys, k)
	}
	sort.Strings(hdrKeys)
	authParts := make([]string, 0, len(hdrKeys))
	for _, k := range hdrKeys {
		authParts = append(authParts, fmt.Sprintf("%s=\"%s\"", rfc3986(k), rfc3986(oauth[k])))
	}
	req.Header.Set("Authorization", "OAuth "+strings.Join(authParts, ", "))
	req.Header.Set("Accept", "application/json")
}

func encodeQuery(m map[string]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, url.QueryEscape(k)+"="+url.QueryEscape(m[k]))
	}
	return strings.Join(parts, "&")
}

// RFC 3986 percent-encoding for OAuth
func rfc3986(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(url.QueryEscape(s), "+", "%20"), "*", "%2A")
}
