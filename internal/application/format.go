package application

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DateStyle selects one of the two date/time verbosity presets.
type DateStyle int

const (
	// DateStyleShort renders a short date with a short time, e.g. "3/14/26, 9:05 AM".
	DateStyleShort DateStyle = iota
	// DateStyleLong renders a long date with a short time, e.g. "March 14, 2026 at 9:05 AM".
	DateStyleLong
)

type dateLayouts struct {
	long  string
	short string
}

// Locales with their own date presets. The first entry is the fallback for
// any locale the matcher cannot place.
var (
	dateLocales = []language.Tag{
		language.AmericanEnglish,
		language.BritishEnglish,
	}
	dateLocaleLayouts = []dateLayouts{
		{long: "January 2, 2006 at 3:04 PM", short: "1/2/06, 3:04 PM"},
		{long: "2 January 2006 at 15:04", short: "02/01/2006, 15:04"},
	}
	dateLocaleMatcher = language.NewMatcher(dateLocales)
)

// separators are the locale's digit grouping and decimal marks.
type separators struct {
	group   string
	decimal string
}

// Formatter renders amounts and dates for one locale and time zone.
type Formatter struct {
	tag     language.Tag
	printer *message.Printer
	seps    separators
	loc     *time.Location
	dates   dateLayouts
}

// NewFormatter creates a Formatter for tag. A nil loc means time.Local.
func NewFormatter(tag language.Tag, loc *time.Location) *Formatter {
	if loc == nil {
		loc = time.Local
	}

	_, idx, _ := dateLocaleMatcher.Match(tag)
	printer := message.NewPrinter(tag)

	return &Formatter{
		tag:     tag,
		printer: printer,
		seps:    localeSeparators(printer),
		loc:     loc,
		dates:   dateLocaleLayouts[idx],
	}
}

// localeSeparators reads the grouping and decimal marks off a sample number
// printed for the locale. A locale that prints no grouping mark gets none.
func localeSeparators(p *message.Printer) separators {
	sample := p.Sprint(number.Decimal(1234567.5, number.Scale(1)))

	var marks []string
	var run strings.Builder
	for _, r := range sample {
		if unicode.IsDigit(r) {
			if run.Len() > 0 {
				marks = append(marks, run.String())
				run.Reset()
			}
			continue
		}
		run.WriteRune(r)
	}

	switch len(marks) {
	case 0:
		return separators{decimal: "."}
	case 1:
		return separators{decimal: marks[0]}
	default:
		return separators{group: marks[0], decimal: marks[len(marks)-1]}
	}
}

// Language returns the locale the formatter was built for.
func (f *Formatter) Language() language.Tag {
	return f.tag
}

// Amount formats amount in the currency named by the ISO 4217 code, using the
// currency's symbol for the locale, the locale's separators and the
// currency's standard number of minor digits, e.g. "-$1,234.50".
// Codes that are not valid ISO currencies are rendered as "CODE 0.00".
func (f *Formatter) Amount(amount decimal.Decimal, code string) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return fmt.Sprintf("%s %s", strings.ToUpper(strings.TrimSpace(code)), amount.StringFixed(2))
	}

	scale, _ := currency.Standard.Rounding(unit)
	digits := amount.StringFixed(int32(scale))

	sign := ""
	if rest, ok := strings.CutPrefix(digits, "-"); ok {
		sign, digits = "-", rest
	}
	whole, frac, _ := strings.Cut(digits, ".")

	var b strings.Builder
	b.WriteString(sign)
	b.WriteString(f.printer.Sprint(currency.Symbol(unit)))
	b.WriteString(groupDigits(whole, f.seps.group))
	if frac != "" {
		b.WriteString(f.seps.decimal)
		b.WriteString(frac)
	}
	return b.String()
}

// groupDigits inserts sep between every three digits of whole, counting
// from the right.
func groupDigits(whole, sep string) string {
	if sep == "" || len(whole) <= 3 {
		return whole
	}

	var b strings.Builder
	lead := len(whole) % 3
	if lead > 0 {
		b.WriteString(whole[:lead])
	}
	for i := lead; i < len(whole); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(whole[i : i+3])
	}
	return b.String()
}

// Date formats t in the formatter's time zone using the given preset.
func (f *Formatter) Date(t time.Time, style DateStyle) string {
	layout := f.dates.short
	if style == DateStyleLong {
		layout = f.dates.long
	}
	return t.In(f.loc).Format(layout)
}
