package feed

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

var lastBuildDateRe = regexp.MustCompile(`[ \t]*<lastBuildDate>[^<]*</lastBuildDate>\r?\n?`)
var lastBuildDateValueRe = regexp.MustCompile(`<lastBuildDate>([^<]*)</lastBuildDate>`)
var keysAvailableRe = regexp.MustCompile(`[0-9]+ keys Available:`)

// ExtractLastBuildDate locates the lastBuildDate element in a previously
// published feed and parses it. Returns false if the element is missing or
// does not parse; a broken prior artifact is not an error, just an anomaly
// worth logging.
func ExtractLastBuildDate(xmlText string) (time.Time, bool) {
	match := lastBuildDateValueRe.FindStringSubmatch(xmlText)
	if match == nil {
		log.Warn("No lastBuildDate element found in prior feed")
		return time.Time{}, false
	}
	t, err := ParseRFC822(match[1])
	if err != nil {
		log.WithFields(log.Fields{
			"value": match[1],
		}).Warn("Could not parse lastBuildDate in prior feed")
		return time.Time{}, false
	}
	return t, true
}

// Normalizer strips volatile content from feed text before comparison.
// The rule set is deliberately explicit: everything removed here changes on
// every run without representing a meaningful state change. New volatile
// fields can be added as patterns without touching the comparison logic.
type Normalizer struct {
	patterns []*regexp.Regexp
}

// NewNormalizer returns a Normalizer with the built-in volatility rules plus
// any extra patterns. Invalid extra patterns are rejected.
func NewNormalizer(extraPatterns []string) (*Normalizer, error) {
	patterns := []*regexp.Regexp{keysAvailableRe}
	for _, p := range extraPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compiling volatile pattern %q: %w", p, err)
		}
		patterns = append(patterns, re)
	}
	return &Normalizer{patterns: patterns}, nil
}

// Normalize produces the comparison key for feed text: the lastBuildDate
// element is deleted, each volatile pattern match collapses to a canonical
// placeholder, and CRLF line endings become LF.
func (n *Normalizer) Normalize(xmlText string) string {
	out := lastBuildDateRe.ReplaceAllString(xmlText, "")
	for _, re := range n.patterns {
		out = re.ReplaceAllString(out, "<volatile>")
	}
	return strings.ReplaceAll(out, "\r\n", "\n")
}

// ShouldPublish reports whether newXML differs from oldXML once volatile
// content is stripped. An empty oldXML means no prior artifact exists, which
// always publishes.
func (n *Normalizer) ShouldPublish(oldXML, newXML string) bool {
	if oldXML == "" {
		return true
	}
	return n.Normalize(oldXML) != n.Normalize(newXML)
}

// WriteIfChanged reads the previously published artifact at path, compares it
// against xmlText and writes only on a substantive difference. Returns true
// when the file was written. A missing prior artifact always publishes; when
// nothing changed the file is left untouched, so lastBuildDate keeps marking
// the last substantive change rather than the last run.
func (n *Normalizer) WriteIfChanged(path, xmlText string) (bool, error) {
	prior, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("reading prior feed %s: %w", path, err)
	}

	if err == nil && !n.ShouldPublish(string(prior), xmlText) {
		log.WithFields(log.Fields{
			"path": path,
		}).Info("Feed unchanged, skipping publication")
		return false, nil
	}

	if err := os.WriteFile(path, []byte(xmlText), 0644); err != nil {
		return false, fmt.Errorf("writing feed %s: %w", path, err)
	}
	return true, nil
}
