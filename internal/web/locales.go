package web

import (
	"fmt"
	"net/http"
	"path/filepath"

	"tidemark/internal/back"

	"github.com/leonelquinteros/gotext"
)

type localizer interface {
	Get(str string, vars ...interface{}) string
}

// englishLocalizer is the fallback: validation messages are written in
// English, so "translating" is plain formatting.
type englishLocalizer struct{}

func (englishLocalizer) Get(str string, vars ...interface{}) string {
	return fmt.Sprintf(str, vars...)
}

// locale returns the localizer for the request's ?lang= parameter, loading
// the .po files from the resources directory on first use.
func (s *Server) locale(r *http.Request) localizer {
	lang := r.URL.Query().Get("lang")
	if lang == "" {
		return englishLocalizer{}
	}

	s.localesMu.Lock()
	defer s.localesMu.Unlock()

	if l, ok := s.locales[lang]; ok {
		return l
	}

	l := gotext.NewLocale(filepath.Join(s.resourcesDir, "locales"), lang)
	l.AddDomain("default")
	s.locales[lang] = l

	return l
}

type validationIssueView struct {
	PlayerID string `json:"playerId,omitempty"`
	Field    string `json:"field"`
	Message  string `json:"message"`
}

type validationView struct {
	IsValid  bool                  `json:"isValid"`
	Errors   []validationIssueView `json:"errors"`
	Warnings []validationIssueView `json:"warnings"`
}

func (s *Server) validationPayload(r *http.Request, res back.ValidationResult) validationView {
	l := s.locale(r)

	views := func(issues []back.ValidationIssue) []validationIssueView {
		ret := make([]validationIssueView, 0, len(issues))
		for _, issue := range issues {
			view := validationIssueView{
				Field:   issue.Field,
				Message: l.Get(issue.Message, issue.Args...),
			}
			if !issue.PlayerID.IsZero() {
				view.PlayerID = issue.PlayerID.String()
			}
			ret = append(ret, view)
		}
		return ret
	}

	return validationView{
		IsValid:  res.IsValid(),
		Errors:   views(res.Errors),
		Warnings: views(res.Warnings),
	}
}
