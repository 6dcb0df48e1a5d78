package attachment

import "errors"

var ErrNilFetcher = errors.New("attachment: fetcher is required")

// Soft failure reasons, also used as metric labels.
const (
	reasonTimeout   = "timeout"
	reasonNetwork   = "network"
	reasonHTTP4xx   = "http_4xx"
	reasonHTTP5xx   = "http_5xx"
	reasonHTMLPage  = "html_page"
	reasonErrorBody = "error_body"
	reasonEmptyBody = "empty_body"
	reasonTooLarge  = "too_large"
	reasonCanceled  = "canceled"
	reasonNoURLs    = "no_candidates"
)
