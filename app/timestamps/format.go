package timestamps

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Directives recognised in a time format, each preceded by '%'.
const directiveLetters = "YymdHMS"

var (
	// ErrInvalidFormat is returned by Compile for formats that can never match a timestamp.
	ErrInvalidFormat = errors.New("invalid time format")
	// ErrWrongShape means the text does not have the shape the format describes.
	ErrWrongShape = errors.New("wrong time format")
	// ErrWrongDate means the text has the right shape but is not a real calendar time.
	ErrWrongDate = errors.New("wrong date")
)

// Layout is a compiled strftime-like time format limited to %Y %y %m %d %H %M %S.
//
// A Layout checks timestamps in two steps. The shape pattern turns every
// directive into a fixed-width digit group and every other character into a
// wildcard; the strict pattern additionally requires literal characters to
// match. Values are interpreted in the Layout's location.
type Layout struct {
	format string
	loc    *time.Location
	shape  *regexp.Regexp
	strict *regexp.Regexp
	fields []byte
}

type token struct {
	directive byte
	literal   rune
}

func tokenize(format string) []token {
	var tokens []token
	runes := []rune(format)
	for i := 0; i < len(runes); i++ {
		if runes[i] == '%' && i+1 < len(runes) && strings.ContainsRune(directiveLetters, runes[i+1]) {
			tokens = append(tokens, token{directive: byte(runes[i+1])})
			i++
			continue
		}
		tokens = append(tokens, token{literal: runes[i]})
	}
	return tokens
}

// ValidateFormat reports whether format can describe a timestamp: it must hold
// at least one directive, no directive twice, and not both %Y and %y.
func ValidateFormat(format string) error {
	seen := map[byte]bool{}
	for _, tk := range tokenize(format) {
		if tk.directive == 0 {
			continue
		}
		if seen[tk.directive] {
			return fmt.Errorf("%w: %q uses %%%c more than once", ErrInvalidFormat, format, tk.directive)
		}
		seen[tk.directive] = true
	}
	if len(seen) == 0 {
		return fmt.Errorf("%w: %q contains no directive", ErrInvalidFormat, format)
	}
	if seen['Y'] && seen['y'] {
		return fmt.Errorf("%w: %q uses both %%Y and %%y", ErrInvalidFormat, format)
	}
	return nil
}

// Compile validates format and builds its Layout. A nil loc means UTC.
func Compile(format string, loc *time.Location) (*Layout, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}
	if loc == nil {
		loc = time.UTC
	}

	var shape, strict strings.Builder
	shape.WriteString("^")
	strict.WriteString("^")
	var fields []byte
	for _, tk := range tokenize(format) {
		if tk.directive == 0 {
			shape.WriteString(".")
			strict.WriteString(regexp.QuoteMeta(string(tk.literal)))
			continue
		}
		group := "([0-9]{2})"
		if tk.directive == 'Y' {
			group = "([0-9]{4})"
		}
		shape.WriteString(group)
		strict.WriteString(group)
		fields = append(fields, tk.directive)
	}
	shape.WriteString("$")
	strict.WriteString("$")

	return &Layout{
		format: format,
		loc:    loc,
		shape:  regexp.MustCompile(shape.String()),
		strict: regexp.MustCompile(strict.String()),
		fields: fields,
	}, nil
}

// Format returns the format string the Layout was compiled from.
func (l *Layout) Format() string { return l.format }

// Location returns the zone timestamps are interpreted in.
func (l *Layout) Location() *time.Location { return l.loc }

// Matches reports whether s has the shape of the format.
func (l *Layout) Matches(s string) bool {
	return l.shape.MatchString(s)
}

// Parse converts s to Unix seconds. It returns ErrWrongShape when s does not
// have the format's shape and ErrWrongDate when the literals or the calendar
// values are wrong. Fields missing from the format default to 1900-01-01 00:00:00.
func (l *Layout) Parse(s string) (int64, error) {
	if !l.shape.MatchString(s) {
		return 0, fmt.Errorf("%w: %q does not match %q", ErrWrongShape, s, l.format)
	}
	m := l.strict.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%w: %q does not match %q", ErrWrongDate, s, l.format)
	}

	year, month, day := 1900, 1, 1
	hour, minute, second := 0, 0, 0
	for i, f := range l.fields {
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %v", ErrWrongDate, s, err)
		}
		switch f {
		case 'Y':
			year = n
		case 'y':
			if n < 69 {
				year = 2000 + n
			} else {
				year = 1900 + n
			}
		case 'm':
			month = n
		case 'd':
			day = n
		case 'H':
			hour = n
		case 'M':
			minute = n
		case 'S':
			second = n
		}
	}

	if month < 1 || month > 12 || day < 1 || hour > 23 || minute > 59 || second > 61 {
		return 0, fmt.Errorf("%w: %q", ErrWrongDate, s)
	}
	t := time.Date(year, time.Month(month), day, hour, minute, second, 0, l.loc)
	if t.Day() != day || int(t.Month()) != month {
		return 0, fmt.Errorf("%w: %q", ErrWrongDate, s)
	}
	return t.Unix(), nil
}

// Render formats Unix seconds with the Layout. Fields the format lacks are
// dropped, so Render followed by Parse truncates to the format's precision.
func (l *Layout) Render(unix int64) string {
	t := time.Unix(unix, 0).In(l.loc)
	var b strings.Builder
	for _, tk := range tokenize(l.format) {
		if tk.directive == 0 {
			b.WriteRune(tk.literal)
			continue
		}
		switch tk.directive {
		case 'Y':
			fmt.Fprintf(&b, "%04d", t.Year())
		case 'y':
			fmt.Fprintf(&b, "%02d", t.Year()%100)
		case 'm':
			fmt.Fprintf(&b, "%02d", int(t.Month()))
		case 'd':
			fmt.Fprintf(&b, "%02d", t.Day())
		case 'H':
			fmt.Fprintf(&b, "%02d", t.Hour())
		case 'M':
			fmt.Fprintf(&b, "%02d", t.Minute())
		case 'S':
			fmt.Fprintf(&b, "%02d", t.Second())
		}
	}
	return b.String()
}
