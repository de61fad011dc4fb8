package service

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/RSSNext/Folo-sub005/internal/model"
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

func htmlPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.UGCPolicy()
		policy.AddTargetBlankToFullyQualifiedLinks(true)
		policy.AllowAttrs("loading").OnElements("img")
	})
	return policy
}

func sanitizeHTML(value *string) *string {
	if value == nil {
		return nil
	}
	clean := htmlPolicy().Sanitize(*value)
	return &clean
}

// sanitizeEntry strips scripts and unsafe attributes from cached HTML.
func sanitizeEntry(e model.Entry) model.Entry {
	e.Content = sanitizeHTML(e.Content)
	e.ReadabilityContent = sanitizeHTML(e.ReadabilityContent)
	e.Description = sanitizeHTML(e.Description)
	return e
}

func sanitizeTranslation(t model.Translation) model.Translation {
	t.Content = sanitizeHTML(t.Content)
	t.ReadabilityContent = sanitizeHTML(t.ReadabilityContent)
	t.Description = sanitizeHTML(t.Description)
	return t
}
