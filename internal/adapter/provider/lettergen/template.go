// Package lettergen produces dispute letter text, either from built-in
// templates or from an external letter-generation service.
package lettergen

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"github.com/heartmarshall/creditdispute-backend/internal/domain"
)

var templates = map[domain.LetterType]*template.Template{
	domain.LetterTypeInitialDispute: mustParse("initial", `To {{.Recipient}}:

I am writing to dispute the following information in my credit file. The item
{{.Creditor}} ({{.AccountType}}) is inaccurate. Please investigate and delete
or correct it within the period allowed by law.
`),
	domain.LetterTypeDebtValidation: mustParse("validation", `To {{.Recipient}}:

Regarding the account you report as {{.Creditor}}{{if .Balance}} with a balance
of {{.Balance}}{{end}}: I request validation of this debt. Until it is
validated, please cease collection and do not report it.
`),
	domain.LetterTypeMethodOfVerification: mustParse("mov", `To {{.Recipient}}:

You verified the account {{.Creditor}} after my dispute. Please describe the
method of verification used and provide the name of the person contacted.
`),
	domain.LetterTypeGoodwill: mustParse("goodwill", `To {{.Recipient}}:

I ask you to consider a goodwill adjustment removing the negative reporting on
{{.Creditor}} ({{.AccountType}}).
`),
	domain.LetterTypePayForDelete: mustParse("pfd", `To {{.Recipient}}:

I am prepared to settle the account {{.Creditor}}{{if .Balance}} ({{.Balance}}){{end}}
in exchange for its deletion from all three credit bureaus.
`),
	domain.LetterTypeIntentToSue: mustParse("its", `To {{.Recipient}}:

Despite prior correspondence about {{.Creditor}}, the reporting remains
unverified. Absent a resolution I intend to pursue my remedies in court.
`),
}

func mustParse(name, text string) *template.Template {
	return template.Must(template.New(name).Parse(text))
}

type letterData struct {
	Recipient   string
	Creditor    string
	AccountType string
	Balance     string
}

// Template renders letters from built-in templates without network access.
type Template struct{}

// NewTemplate creates a template-based generator.
func NewTemplate() *Template { return &Template{} }

// Generate renders the letter for item, letterType and target.
func (Template) Generate(_ context.Context, item *domain.NegativeItem, letterType domain.LetterType, target domain.Target) (string, error) {
	tmpl, ok := templates[letterType]
	if !ok {
		return "", fmt.Errorf("lettergen: no template for %s", letterType)
	}

	data := letterData{
		Recipient:   recipient(item, target),
		Creditor:    item.CreditorName,
		AccountType: string(item.AccountType),
	}
	if item.Balance != nil {
		data.Balance = "$" + item.Balance.StringFixed(2)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("lettergen: render %s: %w", letterType, err)
	}
	return buf.String(), nil
}

func recipient(item *domain.NegativeItem, target domain.Target) string {
	if target.IsBureau() {
		return string(target)
	}
	if item.OriginalCreditor != nil && *item.OriginalCreditor != "" && item.AccountType != domain.AccountTypeCollection {
		return *item.OriginalCreditor
	}
	return item.CreditorName
}
