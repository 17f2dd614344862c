// Package translate formats user-visible messages for the detected locale.
//
// The locale printer groups digits for %d and %v, so addresses and
// machine values are pre-formatted with Hex, Word or Number and passed
// to From as %s.
package translate

import (
	"fmt"
	"log"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer *message.Printer

func init() {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("isa16: locale: %v", err)
	}

	tag := language.AmericanEnglish
	if len(locales) != 0 {
		tag = message.MatchLanguage(locales...)
	}

	printer = message.NewPrinter(tag)
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}

// Hex formats an address as bare lower case hex.
func Hex[T ~uint16 | ~uint32](addr T) string {
	return fmt.Sprintf("%x", addr)
}

// Word formats a machine word as four upper case hex digits.
func Word(value uint16) string {
	return fmt.Sprintf("%04X", value)
}

// Number formats an integer without digit grouping.
func Number[T ~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32](value T) string {
	return fmt.Sprint(value)
}
