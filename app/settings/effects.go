package settings

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"circlesgraph/app/columns"
	"circlesgraph/app/diagnostics"
)

var gnuplotParamPattern = regexp.MustCompile(`^(set|unset)..*[^;]$`)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{diagnostics.ErrInvalidSetting}, args...)...)
}

// ApplyEffectParams applies "key=value" effect parameters. Parameters may be
// given separately or joined with ':'. Recognised keys are delay, columns,
// color (comma separated), method and steps. Bad parameters are skipped and
// returned as warnings.
func ApplyEffectParams(s Settings) (Settings, []error) {
	var warnings []error
	for _, param := range strings.Split(strings.Join(s.EffectParams, ":"), ":") {
		param = strings.TrimSpace(param)
		if param == "" {
			continue
		}
		key, value, ok := strings.Cut(param, "=")
		if !ok || strings.Contains(value, "=") {
			warnings = append(warnings, invalid("wrong effect parameter %q", param))
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.ToLower(strings.TrimSpace(value))

		switch key {
		case "delay", "columns", "steps":
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 || (key != "delay" && n == 0) {
				warnings = append(warnings, invalid("effect parameter %s has to be a positive integer, got %q", key, value))
				continue
			}
			switch key {
			case "delay":
				s.Delay = n
			case "columns":
				s.Columns = n
			case "steps":
				s.Steps = n
			}
		case "method":
			if _, err := columns.ParseMethod(value); err != nil {
				warnings = append(warnings, invalid("effect parameter method: %v", err))
				continue
			}
			s.Method = value
		case "color":
			for _, c := range strings.Split(value, ",") {
				if c = strings.TrimSpace(c); c != "" {
					s.Colors = append(s.Colors, c)
				}
			}
		default:
			warnings = append(warnings, invalid("unknown effect parameter %q", param))
		}
	}
	s.EffectParams = nil
	return s, warnings
}

// FilterGnuplotParams keeps only "set ..." and "unset ..." commands without a
// trailing semicolon.
func FilterGnuplotParams(params []string) ([]string, []error) {
	var kept []string
	var warnings []error
	for _, p := range params {
		p = strings.TrimSpace(p)
		if !gnuplotParamPattern.MatchString(p) {
			warnings = append(warnings, invalid("wrong gnuplot parameter %q, only set and unset are allowed", p))
			continue
		}
		kept = append(kept, p)
	}
	return kept, warnings
}
