package decode

import (
	"strings"
)

// tokenKeys are the key names a bearer token has been seen under.
var tokenKeys = []string{"token", "access_token", "accessToken", "jwt", "jwtToken", "jwt_token"}

var bearerToken = stringField(tokenKeys...)

// IsJWTShaped reports whether s has at least three non-empty dot-separated segments.
func IsJWTShaped(s string) bool {
	parts := strings.Split(s, ".")
	if len(parts) < 3 {
		return false
	}
	for _, p := range parts {
		if p == "" {
			return false
		}
	}
	return true
}

// Token extracts a bearer token from a token endpoint response body.
//
// Strategies, first match wins: a well-known key at the top level, the same
// keys under "data", the first JWT-shaped string anywhere in the tree, and
// for non-JSON bodies the trimmed text itself.
func Token(body []byte) (string, bool) {
	root, err := parse(body)
	if err != nil {
		return rawToken(string(body))
	}

	if obj, ok := root.(map[string]any); ok {
		if tok, ok := bearerToken.resolve(obj); ok {
			return tok, true
		}
		if data, ok := obj["data"].(map[string]any); ok {
			if tok, ok := bearerToken.resolve(data); ok {
				return tok, true
			}
		}
	}

	var found string
	walkStrings(root, func(s string) bool {
		s = strings.TrimSpace(s)
		if IsJWTShaped(s) {
			found = s
			return true
		}
		return false
	})
	return found, found != ""
}

func rawToken(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}
	for _, field := range strings.Fields(text) {
		field = strings.Trim(field, `"'`)
		if IsJWTShaped(field) {
			return field, true
		}
	}
	return text, true
}
