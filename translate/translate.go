// Package translate formats user-visible text in the caller's locale.
package translate

import (
	"log"
	"slices"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/message"
)

var printer *message.Printer
var languages []string

func init() {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("chip8: locale: %v", err)
	}

	if len(locales) == 0 {
		locales = []string{"en-US"}
	}

	languages = locales
	printer = message.NewPrinter(message.MatchLanguage(locales...))
}

// From formats an en-US Sprintf() style key in the current locale.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}

// Languages reports the locales the printer was matched against.
func Languages() (tags []string) {
	return slices.Clone(languages)
}
