package calendar

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"

	"github.com/theirongolddev/msj/internal/growth"
)

const icsProdID = "-//msj//Savings Calendar//EN"

// ICSOptions controls calendar export.
type ICSOptions struct {
	Name string
	// Format renders an amount for event summaries.
	Format func(float64) string
	// Milestone, when positive, exports only the first day reaching it.
	Milestone float64
	Now       time.Time
}

// WriteICS writes one all-day event per projected day, or only the
// milestone day when opts.Milestone is set.
func WriteICS(w io.Writer, entries []growth.Entry, opts ICSOptions) error {
	if opts.Format == nil {
		opts.Format = func(v float64) string { return fmt.Sprintf("%.2f", v) }
	}
	if opts.Name == "" {
		opts.Name = "Savings projection"
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	cal := ical.NewCalendar()
	cal.Props.SetText("VERSION", "2.0")
	cal.Props.SetText("PRODID", icsProdID)
	cal.Props.SetText("X-WR-CALNAME", opts.Name)
	cal.Props.SetText("CALSCALE", "GREGORIAN")

	selected := entries
	if opts.Milestone > 0 {
		match := growth.LocateProgress(entries, opts.Milestone)
		selected = nil
		if match.DayIndex > 0 && !match.Exceeded {
			selected = entries[match.DayIndex-1 : match.DayIndex]
		}
	}

	var prev *growth.Entry
	for i := range selected {
		e := selected[i]
		event := ical.NewEvent()
		event.Props.SetText("UID", fmt.Sprintf("msj-day-%d-%s@msj", e.DayIndex, e.Date.Format("20060102")))

		stamp := ical.NewProp("DTSTAMP")
		stamp.SetDateTime(opts.Now.UTC())
		event.Props.Set(stamp)

		start := ical.NewProp("DTSTART")
		start.SetDate(e.Date)
		event.Props.Set(start)

		summary := fmt.Sprintf("Day %d: %s", e.DayIndex, opts.Format(e.Amount))
		if opts.Milestone > 0 {
			summary = fmt.Sprintf("Target %s reached (day %d)", opts.Format(opts.Milestone), e.DayIndex)
		}
		event.Props.SetText("SUMMARY", summary)
		if prev != nil {
			event.Props.SetText("DESCRIPTION", "Change: "+opts.Format(e.Amount-prev.Amount))
		}
		prev = &selected[i]

		cal.Children = append(cal.Children, event.Component)
	}

	if len(cal.Children) == 0 {
		_, err := io.WriteString(w, "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:"+icsProdID+"\r\nEND:VCALENDAR\r\n")
		return err
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return fmt.Errorf("encoding calendar: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}
