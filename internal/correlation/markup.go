package correlation

import (
	"regexp"
	"sort"
	"strings"
)

var (
	// !name|opt,opt!: the options may carry data-attachment-id=ID.
	// The name never starts with whitespace, so "Wow! a|b" is prose.
	embedWithOptsRe = regexp.MustCompile(`!([^!\s|][^!\n|]*)\|([^!\n]*)!`)
	// !name.ext!: bare inline reference, no spaces allowed.
	embedBareRe = regexp.MustCompile(`!([^!\s|]+\.[A-Za-z0-9]{1,8})!`)
	// Either form, for stripping.
	embedAnyRe = regexp.MustCompile(`!(?:[^!\s|][^!\n|]*\|[^!\n]*|[^!\s|]+\.[A-Za-z0-9]{1,8})!`)

	attachmentIDRe = regexp.MustCompile(`data-attachment-id=(\d+)`)
	blankLinesRe   = regexp.MustCompile(`\n{3,}`)
)

// Reference is an attachment mentioned inline in a comment body.
type Reference struct {
	AttachmentID string // empty for filename-only references
	Filename     string
	Offset       int // byte offset in the body, used for ordering
}

func (r Reference) key() string {
	if r.AttachmentID != "" {
		return "id:" + r.AttachmentID
	}
	return "name:" + normalizeFilename(r.Filename)
}

func (r Reference) label() string {
	if r.Filename != "" {
		return r.Filename
	}
	return "attachment " + r.AttachmentID
}

// ExtractReferences returns the inline attachment references of body in the
// order they appear.
func ExtractReferences(body string) []Reference {
	var refs []Reference
	var spans [][2]int

	for _, m := range embedWithOptsRe.FindAllStringSubmatchIndex(body, -1) {
		spans = append(spans, [2]int{m[0], m[1]})
		name := strings.TrimSpace(body[m[2]:m[3]])
		opts := body[m[4]:m[5]]
		ref := Reference{Filename: name, Offset: m[0]}
		if idm := attachmentIDRe.FindStringSubmatch(opts); idm != nil {
			ref.AttachmentID = idm[1]
		}
		if ref.Filename != "" || ref.AttachmentID != "" {
			refs = append(refs, ref)
		}
	}

	for _, m := range embedBareRe.FindAllStringSubmatchIndex(body, -1) {
		if overlaps(m[0], m[1], spans) {
			continue
		}
		refs = append(refs, Reference{Filename: body[m[2]:m[3]], Offset: m[0]})
	}

	sort.SliceStable(refs, func(i, j int) bool { return refs[i].Offset < refs[j].Offset })
	return refs
}

// StripMarkup removes inline attachment markup and tidies blank lines.
func StripMarkup(body string) string {
	s := embedAnyRe.ReplaceAllString(body, "")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = blankLinesRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

func overlaps(start, end int, spans [][2]int) bool {
	for _, sp := range spans {
		if start < sp[1] && end > sp[0] {
			return true
		}
	}
	return false
}

func normalizeFilename(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
