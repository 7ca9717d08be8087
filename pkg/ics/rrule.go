package ics

import (
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/teambition/rrule-go"
	"github.com/teamcal/teamcal/pkg/event"
)

var cadenceByFreq = map[rrule.Frequency]event.Cadence{
	rrule.DAILY:   event.Daily,
	rrule.WEEKLY:  event.Weekly,
	rrule.MONTHLY: event.Monthly,
	rrule.YEARLY:  event.Yearly,
}

// CadenceFromRRule maps a plain FREQ rule to a named cadence. Rules with an
// interval, a count, an end or any BY* part are kept verbatim so they pass
// through expansion unexpanded.
func CadenceFromRRule(value string) event.Cadence {
	value = strings.TrimPrefix(strings.TrimSpace(value), "RRULE:")
	if value == "" {
		return ""
	}
	option, err := rrule.StrToROption(value)
	if err != nil {
		log.Warnf("keeping unparsable recurrence rule %q: %v", value, err)
		return event.Cadence(value)
	}
	if !isPlain(option) {
		return event.Cadence(value)
	}
	if cadence, ok := cadenceByFreq[option.Freq]; ok {
		return cadence
	}
	return event.Cadence(value)
}

func isPlain(o *rrule.ROption) bool {
	return o.Interval <= 1 && o.Count == 0 && o.Until.IsZero() &&
		len(o.Bysetpos) == 0 && len(o.Bymonth) == 0 && len(o.Bymonthday) == 0 &&
		len(o.Byyearday) == 0 && len(o.Byweekno) == 0 && len(o.Byweekday) == 0 &&
		len(o.Byhour) == 0 && len(o.Byminute) == 0 && len(o.Bysecond) == 0 &&
		len(o.Byeaster) == 0
}

// RRuleFromCadence renders the RRULE value for a cadence. Verbatim rules are
// returned unchanged when they still parse; anything else yields "".
func RRuleFromCadence(cadence event.Cadence) string {
	if cadence == "" {
		return ""
	}
	for freq, c := range cadenceByFreq {
		if c == cadence {
			option := rrule.ROption{Freq: freq}
			return option.RRuleString()
		}
	}
	if _, err := rrule.StrToROption(string(cadence)); err != nil {
		log.Debugf("dropping recurrence rule %q from export: %v", cadence, err)
		return ""
	}
	return string(cadence)
}
