package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/randomtoy/tarot-studio/internal/domain"
)

type printer struct {
	w        io.Writer
	title    *color.Color
	label    *color.Color
	upright  *color.Color
	reversed *color.Color
	faint    *color.Color
}

func newPrinter(w io.Writer) *printer {
	return &printer{
		w:        w,
		title:    color.New(color.Bold, color.FgMagenta),
		label:    color.New(color.Bold),
		upright:  color.New(color.FgGreen),
		reversed: color.New(color.FgRed),
		faint:    color.New(color.Faint),
	}
}

func (p *printer) json(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (p *printer) card(i int, c domain.DrawnCard, position string) {
	orientation := p.upright.Sprint("upright")
	if c.IsReversed {
		orientation = p.reversed.Sprint("reversed")
	}
	if position != "" {
		fmt.Fprintf(p.w, "%2d. %s  %s (%s) %s\n", i+1, p.label.Sprint(position), c.NameEn, c.Name, orientation)
	} else {
		fmt.Fprintf(p.w, "%2d. %s (%s) %s\n", i+1, c.NameEn, c.Name, orientation)
	}
	fmt.Fprintf(p.w, "    %s\n", p.faint.Sprint(strings.Join(c.Keywords, ", ")))
}

func (p *printer) spread(sp domain.Spread) {
	p.title.Fprintf(p.w, "%s", sp.Name)
	fmt.Fprintf(p.w, " [%s] %d cards\n", sp.ID, sp.PositionCount())
	fmt.Fprintf(p.w, "  %s\n", sp.Description)
}

func (p *printer) reading(r domain.Reading) {
	p.title.Fprintf(p.w, "%s reading", r.Spread.Name)
	fmt.Fprintf(p.w, "  %s  %s\n", p.faint.Sprint(r.ID), p.faint.Sprint(r.Timestamp.Format("2006-01-02 15:04")))
	if r.Question != "" {
		fmt.Fprintf(p.w, "%s %s\n", p.label.Sprint("Question:"), r.Question)
	}
	fmt.Fprintln(p.w)

	for i, in := range r.Interpretations {
		p.card(i, in.Card, in.Position.Name)
		fmt.Fprintf(p.w, "    %s %s\n", p.label.Sprint("energy:"), in.Energy)
		for _, line := range strings.Split(in.Interpretation, "\n") {
			if line != "" {
				fmt.Fprintf(p.w, "    %s\n", line)
			}
		}
		for _, m := range in.KeyMessages {
			fmt.Fprintf(p.w, "    - %s\n", m)
		}
		fmt.Fprintln(p.w)
	}

	p.title.Fprintln(p.w, "Overall")
	fmt.Fprintln(p.w, r.OverallAnalysis)
	fmt.Fprintln(p.w)
	p.title.Fprintln(p.w, "Advice")
	fmt.Fprintln(p.w, r.Advice)
}

func (p *printer) historyLine(r domain.Reading) {
	q := r.Question
	if q == "" {
		q = p.faint.Sprint("(no question)")
	}
	fmt.Fprintf(p.w, "%s  %s  %-14s %s\n", r.ID, r.Timestamp.Format("2006-01-02 15:04"), r.Spread.ID, q)
}

func (p *printer) settings(s domain.Settings) {
	rows := []struct {
		k string
		v any
	}{
		{"theme", s.Theme},
		{"language", s.Language},
		{"reversedCardProbability", s.ReversedCardProbability},
		{"autoSave", s.AutoSave},
		{"soundEnabled", s.SoundEnabled},
		{"cardSize", s.CardSize},
		{"animationsEnabled", s.AnimationsEnabled},
		{"autoReveal", s.AutoReveal},
	}
	for _, r := range rows {
		fmt.Fprintf(p.w, "%-24s %v\n", p.label.Sprint(r.k), r.v)
	}
}

func (p *printer) ok(format string, args ...any) {
	p.upright.Fprintf(p.w, format+"\n", args...)
}

func (p *printer) warn(format string, args ...any) {
	p.reversed.Fprintf(p.w, format+"\n", args...)
}
