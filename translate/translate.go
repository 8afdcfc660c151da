// Package translate renders user facing messages through a locale aware
// printer, so compiler diagnostics follow the host language settings.
package translate

import (
	"log"
	"sync"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	printer     *message.Printer
	printerOnce sync.Once
)

// Fallback is the language used when the host reports no locale.
const Fallback = "en-US"

func setup() {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("koala: locale: %v", err)
	}

	if len(locales) == 0 {
		locales = []string{Fallback}
	}

	printer = message.NewPrinter(message.MatchLanguage(locales...))
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	printerOnce.Do(setup)
	return printer.Sprintf(key, args...)
}

// Use forces the printer to a specific language tag, mostly for tests that
// compare rendered messages.
func Use(tag string) {
	printerOnce.Do(func() {})
	printer = message.NewPrinter(language.Make(tag))
}
