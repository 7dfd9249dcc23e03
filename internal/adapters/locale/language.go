package locale

import (
	"context"

	"github.com/SscSPs/currency_resolver/internal/core/domain"
	portssvc "github.com/SscSPs/currency_resolver/internal/core/ports/services"
	"golang.org/x/text/language"
)

// AcceptLanguageContext negotiates the UI language against the supported languages.
type AcceptLanguageContext struct {
	supported []language.Tag
	matcher   language.Matcher
}

// NewAcceptLanguageContext creates a negotiator. The first language is the fallback.
// Unparsable entries are skipped.
func NewAcceptLanguageContext(languages []string) *AcceptLanguageContext {
	var tags []language.Tag
	for _, l := range languages {
		if tag, err := language.Parse(l); err == nil {
			tags = append(tags, tag)
		}
	}
	if len(tags) == 0 {
		tags = []language.Tag{language.English}
	}
	return &AcceptLanguageContext{supported: tags, matcher: language.NewMatcher(tags)}
}

var _ portssvc.LanguageContext = (*AcceptLanguageContext)(nil)

// CurrentLanguage returns the base language code, e.g. "hr". A language already set on
// the request wins over Accept-Language.
func (l *AcceptLanguageContext) CurrentLanguage(_ context.Context, req *domain.RequestContext) string {
	if req != nil && req.Language != "" {
		return req.Language
	}

	var accept string
	if req != nil {
		accept = req.AcceptLanguage
	}
	tags, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(tags) == 0 {
		return baseOf(l.supported[0])
	}
	_, index, _ := l.matcher.Match(tags...)
	return baseOf(l.supported[index])
}

func baseOf(tag language.Tag) string {
	base, _ := tag.Base()
	return base.String()
}
