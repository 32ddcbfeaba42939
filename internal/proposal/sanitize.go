package proposal

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const strippedElements = "script, style, iframe, object, embed, link, meta, base, form, svg, math, animate, set"

// urlAttributes are the attributes a browser resolves as a URL.
var urlAttributes = map[string]struct{}{
	"href":       {},
	"src":        {},
	"action":     {},
	"formaction": {},
	"xlink:href": {},
	"data":       {},
	"poster":     {},
	"background": {},
	"cite":       {},
	"longdesc":   {},
	"usemap":     {},
}

var allowedSchemes = map[string]struct{}{
	"http":   {},
	"https":  {},
	"mailto": {},
}

// Sanitize strips active content from a rich-text note: script-like elements, event
// handler attributes and URLs outside http, https, mailto or relative references. The
// remaining markup is returned as is.
func Sanitize(note string) (string, error) {
	if strings.TrimSpace(note) == "" {
		return "", nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(note))
	if err != nil {
		return "", fmt.Errorf("failed to parse note: %w", err)
	}

	doc.Find(strippedElements).Remove()

	doc.Find("body *").Each(func(_ int, sel *goquery.Selection) {
		var unsafe []string
		for _, attr := range sel.Get(0).Attr {
			key := strings.ToLower(attr.Key)
			if attr.Namespace != "" {
				key = strings.ToLower(attr.Namespace) + ":" + key
			}

			if strings.HasPrefix(key, "on") {
				unsafe = append(unsafe, attr.Key)
				continue
			}
			if _, isURL := urlAttributes[key]; isURL && !allowedURL(attr.Val) {
				unsafe = append(unsafe, attr.Key)
			}
		}
		for _, key := range unsafe {
			sel.RemoveAttr(key)
		}
	})

	body, err := doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("failed to render note: %w", err)
	}

	return strings.TrimSpace(body), nil
}

// allowedURL reports whether a URL attribute value is relative or uses an allowed scheme.
// Browsers drop ASCII whitespace and control characters before reading the scheme, so
// they are dropped here too.
func allowedURL(raw string) bool {
	cleaned := strings.Map(func(r rune) rune {
		if r <= ' ' || r == 0x7f {
			return -1
		}
		return r
	}, raw)

	colon := strings.IndexByte(cleaned, ':')
	if colon < 0 {
		return true
	}
	if sep := strings.IndexAny(cleaned, "/?#"); sep >= 0 && sep < colon {
		return true
	}

	_, ok := allowedSchemes[strings.ToLower(cleaned[:colon])]
	return ok
}
