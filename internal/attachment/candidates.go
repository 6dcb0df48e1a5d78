package attachment

import (
	"net/url"
	"strings"
)

// Path templates, newest API first.
const (
	restV3ContentPath   = "/rest/api/3/attachment/content/"
	restV2ContentPath   = "/rest/api/2/attachment/content/"
	secureAttachPath    = "/secure/attachment/"
	servletAttachPath   = "/plugins/servlet/attachment/"
	thumbnailPath       = "/secure/thumbnail/"
	temporaryAttachPath = "/secure/temporaryattachment/"
	imagesPath          = "/images/"
)

// BuildCandidateURLs returns the ordered list of endpoints an attachment may
// be downloadable from, most authoritative first. It does no I/O.
//
// An empty result means the attachment cannot be located at all.
func BuildCandidateURLs(domain, attachmentID, filename, contentURL string) []string {
	host := normalizeDomain(domain)
	attachmentID = strings.TrimSpace(attachmentID)
	filename = strings.TrimSpace(filename)
	contentURL = strings.TrimSpace(contentURL)

	if host == "" {
		return nil
	}
	if attachmentID == "" && filename == "" && contentURL == "" {
		return nil
	}

	base := "https://" + host
	var urls []string
	if attachmentID != "" {
		urls = buildWithID(base, attachmentID, filename)
		if contentURL != "" {
			if urlReferencesID(contentURL, attachmentID) {
				urls = append([]string{contentURL}, urls...)
			} else {
				urls = append(urls, contentURL)
			}
		}
	} else {
		// Inline images without a numeric id. These guesses fail often.
		if contentURL != "" {
			urls = append(urls, contentURL)
		}
		if filename != "" {
			escaped := url.PathEscape(filename)
			urls = append(urls,
				base+thumbnailPath+escaped,
				base+temporaryAttachPath+escaped,
				base+imagesPath+escaped,
			)
		}
	}

	return dedupe(urls)
}

func buildWithID(base, id, filename string) []string {
	urls := []string{
		base + restV3ContentPath + id,
		base + restV2ContentPath + id,
	}
	if filename != "" {
		escaped := url.PathEscape(filename)
		urls = append(urls,
			base+secureAttachPath+id+"/"+escaped,
			base+servletAttachPath+id+"/"+escaped,
		)
	}
	urls = append(urls, base+secureAttachPath+id)
	return urls
}

func normalizeDomain(domain string) string {
	d := strings.TrimSpace(domain)
	d = strings.TrimPrefix(d, "https://")
	d = strings.TrimPrefix(d, "http://")
	return strings.TrimRight(d, "/")
}

// urlReferencesID reports whether one of the URL's path segments is the id.
func urlReferencesID(rawURL, id string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	for _, seg := range strings.Split(u.Path, "/") {
		if seg == id {
			return true
		}
	}
	return false
}

func dedupe(urls []string) []string {
	seen := make(map[string]bool, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
	}
	return out
}
