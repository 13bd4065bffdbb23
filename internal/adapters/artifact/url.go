// Package artifact implements the ArtifactStore port on Tencent COS and on a local directory.
package artifact

import "strings"

// PublicURL joins the public domain and an object key. A domain without a scheme is served over https.
func PublicURL(domain, key string) string {
	base := strings.TrimSuffix(domain, "/")
	if !strings.Contains(base, "://") {
		base = "https://" + base
	}
	return base + "/" + strings.TrimPrefix(key, "/")
}
