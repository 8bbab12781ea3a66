package language

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Code identifies one supported pipeline language as a BCP-47 tag.
type Code string

const (
	// ZhTW is the source language; content is authored in it.
	ZhTW Code = "zh-TW"
	EnUS Code = "en-US"
	JaJP Code = "ja-JP"
)

var all = []Code{ZhTW, EnUS, JaJP}

var supportedTags = []language.Tag{
	language.MustParse(string(ZhTW)),
	language.MustParse(string(EnUS)),
	language.MustParse(string(JaJP)),
}

var matcher = language.NewMatcher(supportedTags)

// Source returns the single language content is authored in.
func Source() Code { return ZhTW }

// Targets returns the translation target languages in stable order.
func Targets() []Code {
	targets := make([]Code, 0, len(all)-1)
	for _, code := range all {
		if code != Source() {
			targets = append(targets, code)
		}
	}
	return targets
}

// All returns every supported language, source first, in stable order.
func All() []Code {
	cp := make([]Code, len(all))
	copy(cp, all)
	return cp
}

// Parse resolves a user-supplied value to a supported language code. It
// accepts any tag that matches a supported language with high confidence
// (e.g. "en", "en-GB", "ja").
func Parse(value string) (Code, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", false
	}
	tag, err := language.Parse(trimmed)
	if err != nil {
		return "", false
	}
	_, idx, conf := matcher.Match(tag)
	if conf < language.High {
		return "", false
	}
	return all[idx], true
}

// IsSource reports whether the code is the authoring language.
func (c Code) IsSource() bool { return c == Source() }

// Display returns a human-readable English name for the language.
func (c Code) Display() string {
	tag, err := language.Parse(string(c))
	if err != nil {
		return string(c)
	}
	if name := display.English.Tags().Name(tag); name != "" {
		return name
	}
	return string(c)
}
