// Package translate renders user-facing messages in the language
// preferred by the current user.
package translate

import (
	"github.com/jeandeaual/go-locale"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/message"
)

var printer *message.Printer

func init() {
	locales, err := locale.GetLocales()
	if err != nil {
		logrus.Warnf("locale: %v", err)
	}

	if len(locales) == 0 {
		locales = []string{"en-US"}
	}

	printer = message.NewPrinter(message.MatchLanguage(locales...))
}

// From formats an en-US Sprintf format string in the user's language.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}
