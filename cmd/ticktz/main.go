// Package main implements the ticktz CLI for timezone offset and epoch
// conversion lookups.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/codeGROOVE-dev/tickTZ/pkg/epoch"
	"github.com/codeGROOVE-dev/tickTZ/pkg/packed"
	"github.com/codeGROOVE-dev/tickTZ/pkg/tz"
	"github.com/codeGROOVE-dev/tickTZ/pkg/tzsource"
)

var (
	at       = flag.String("at", "", "Instant to resolve: RFC3339 or epoch seconds (default now)")
	local    = flag.String("local", "", "Local reading to resolve: \"YYYY-MM-DD HH:MM[:SS]\"")
	year     = flag.Int("year", 0, "List the zone's transitions for a year")
	zoneDir  = flag.String("zoneinfo", "", "Extra zoneinfo directory to search first (or set ZONEINFO)")
	mirror   = flag.String("mirror", "", "HTTPS zoneinfo mirror used when no local data is found")
	custom   = flag.String("custom", "", "YAML file with custom zone definitions")
	verbose  = flag.Bool("verbose", false, "Enable verbose logging")
	version  = flag.Bool("version", false, "Show version")
	showPack = flag.Bool("packed", false, "Show packed and decimal date/time encodings")
)

func main() {
	flag.Parse()

	if *version {
		fmt.Println("ticktz v1.0.0")
		return
	}

	args := flag.Args()
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <zone>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}
	zoneID := args[0]

	level := slog.LevelError
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	opts := []tzsource.Option{tzsource.WithLogger(logger)}
	if *zoneDir != "" {
		opts = append(opts, tzsource.WithDir(*zoneDir))
	}
	if *mirror != "" {
		opts = append(opts, tzsource.WithMirror(*mirror))
	}
	source := tzsource.New(opts...)
	if *custom != "" {
		if err := source.LoadCustomZones(*custom); err != nil {
			logger.Error("loading custom zones failed", "error", err)
			os.Exit(1)
		}
	}

	registry := tz.NewRegistry(source, logger)
	zone, err := registry.Zone(zoneID)
	if err != nil {
		logger.Error("zone lookup failed", "zone", zoneID, "error", err)
		os.Exit(1)
	}

	switch {
	case *local != "":
		err = resolveLocal(zone, *local)
	case *year != 0:
		err = listTransitions(zone, *year)
	default:
		err = resolveInstant(zone, *at)
	}
	if err != nil {
		logger.Error("resolution failed", "error", err)
		os.Exit(1)
	}
}

// resolveInstant prints the zone's offset at an instant and the local
// civil reading it implies.
func resolveInstant(zone *tz.Zone, spec string) error {
	instant := time.Now().Unix()
	if spec != "" {
		var err error
		instant, err = parseInstant(spec)
		if err != nil {
			return err
		}
	}

	offset := zone.OffsetForInstant(instant)
	std := zone.StandardOffsetForInstant(instant)

	utcDate, utcTime, err := epoch.Checked.DateTimeFromSeconds(instant)
	if err != nil {
		return err
	}
	localDate, localTime, err := epoch.Checked.DateTimeFromSeconds(instant + int64(offset))
	if err != nil {
		return err
	}

	bold := color.New(color.Bold)
	fmt.Printf("Zone:     %s\n", bold.Sprint(zone.ID()))
	fmt.Printf("UTC:      %s %s\n", formatDate(utcDate), formatTime(utcTime))
	fmt.Printf("Local:    %s %s\n", formatDate(localDate), formatTime(localTime))
	fmt.Printf("Offset:   %s\n", formatOffset(offset))
	if std != offset {
		saving := color.New(color.FgYellow)
		fmt.Printf("Standard: %s %s\n", formatOffset(std), saving.Sprint("(daylight saving in effect)"))
	}
	if *showPack {
		printPacked(localDate, localTime)
	}
	return nil
}

// resolveLocal classifies a local civil reading against the zone.
func resolveLocal(zone *tz.Zone, spec string) error {
	date, tod, err := parseLocal(spec)
	if err != nil {
		return err
	}

	res, err := zone.OffsetForLocal(epoch.Checked, date, tod)
	if err != nil {
		return err
	}

	bold := color.New(color.Bold)
	fmt.Printf("Zone:  %s\n", bold.Sprint(zone.ID()))
	fmt.Printf("Local: %s %s\n", formatDate(date), formatTime(tod))

	switch res.Kind {
	case tz.KindUnambiguous:
		ok := color.New(color.FgGreen)
		fmt.Printf("Kind:  %s\n", ok.Sprint("unambiguous"))
		fmt.Printf("Offset: %s\n", formatOffset(res.Offset()))
	case tz.KindGap:
		warn := color.New(color.FgRed)
		fmt.Printf("Kind:  %s (clocks skipped this reading)\n", warn.Sprint("gap"))
		fmt.Printf("Offset before: %s\n", formatOffset(res.OffsetBefore))
		fmt.Printf("Offset after:  %s\n", formatOffset(res.OffsetAfter))
	case tz.KindOverlap:
		warn := color.New(color.FgYellow)
		fmt.Printf("Kind:  %s (this reading occurred twice)\n", warn.Sprint("overlap"))
		fmt.Printf("Offset earlier: %s\n", formatOffset(res.OffsetBefore))
		fmt.Printf("Offset later:   %s\n", formatOffset(res.OffsetAfter))
	case tz.KindInvalid:
		return errors.New("reading is outside the valid range")
	}

	localSec, err := epoch.Checked.Seconds(date, tod)
	if err != nil {
		return err
	}
	fmt.Printf("Epoch seconds (UTC): %d\n", localSec-int64(res.Offset()))
	if *showPack {
		printPacked(date, tod)
	}
	return nil
}

// listTransitions prints the zone's offset changes during a year:
// tabulated history where it covers the year, rule-derived transitions
// beyond it.
func listTransitions(zone *tz.Zone, year int) error {
	start, err := epoch.Checked.SecondsFromDate(epoch.CivilDate{Year: year, Month: 1, Day: 1})
	if err != nil {
		return err
	}
	end, err := epoch.Checked.SecondsFromDate(epoch.CivilDate{Year: year + 1, Month: 1, Day: 1})
	if err != nil {
		return err
	}

	lastTabulated := int64(math.MinInt64)
	var trans []tz.Transition
	for _, tr := range zone.TabulatedTransitions() {
		if tr.When > lastTabulated {
			lastTabulated = tr.When
		}
		if tr.When >= start && tr.When < end {
			trans = append(trans, tr)
		}
	}
	for _, tr := range zone.TransitionsForYear(year) {
		if tr.When >= start && tr.When < end && tr.When > lastTabulated {
			trans = append(trans, tr)
		}
	}
	if len(trans) == 0 {
		fmt.Printf("%s has no transitions in %d\n", zone.ID(), year)
		return nil
	}
	for _, tr := range trans {
		date, tod, err := epoch.Checked.DateTimeFromSeconds(tr.When)
		if err != nil {
			return err
		}
		kind := "gap"
		c := color.New(color.FgRed)
		if tr.IsOverlap() {
			kind = "overlap"
			c = color.New(color.FgYellow)
		}
		fmt.Printf("%s %s UTC  %s -> %s  %s (%ds)\n",
			formatDate(date), formatTime(tod),
			formatOffset(tr.OffsetBefore), formatOffset(tr.OffsetAfter),
			c.Sprint(kind), tr.Duration())
	}
	return nil
}

func printPacked(date epoch.CivilDate, tod epoch.CivilTime) {
	pd := packed.FromCivil(date)
	pt := packed.FromCivilTime(tod)
	fmt.Printf("Packed:  date=%#x time=%#x\n", int32(pd), int32(pt))
	fmt.Printf("Decimal: date=%d time=%d\n",
		packed.PackDecimalDate(date.Year, date.Month, date.Day),
		packed.PackDecimalTime(tod.Hour, tod.Minute, tod.Second, tod.Nano/epoch.NanosPerMilli))
}

// parseInstant accepts raw epoch seconds or an RFC3339 timestamp.
func parseInstant(s string) (int64, error) {
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return 0, fmt.Errorf("instant must be epoch seconds or RFC3339: %w", err)
	}
	return t.Unix(), nil
}

// parseLocal accepts "YYYY-MM-DD HH:MM" with optional seconds.
func parseLocal(s string) (epoch.CivilDate, epoch.CivilTime, error) {
	var date epoch.CivilDate
	var tod epoch.CivilTime
	parts := strings.Fields(s)
	if len(parts) != 2 {
		return date, tod, fmt.Errorf("local reading must look like %q", "2024-03-10 02:30")
	}
	if _, err := fmt.Sscanf(parts[0], "%d-%d-%d", &date.Year, &date.Month, &date.Day); err != nil {
		return date, tod, fmt.Errorf("bad date %q: %w", parts[0], err)
	}
	hms := strings.Split(parts[1], ":")
	if len(hms) < 2 || len(hms) > 3 {
		return date, tod, fmt.Errorf("bad time %q", parts[1])
	}
	fields := []*int{&tod.Hour, &tod.Minute, &tod.Second}
	for i, part := range hms {
		v, err := strconv.Atoi(part)
		if err != nil {
			return date, tod, fmt.Errorf("bad time %q: %w", parts[1], err)
		}
		*fields[i] = v
	}
	return date, tod, nil
}

func formatOffset(offset int32) string {
	sign := "+"
	v := offset
	if v < 0 {
		sign = "-"
		v = -v
	}
	h, m, s := v/3600, v/60%60, v%60
	if s != 0 {
		return fmt.Sprintf("%s%02d:%02d:%02d", sign, h, m, s)
	}
	return fmt.Sprintf("%s%02d:%02d", sign, h, m)
}

func formatDate(d epoch.CivilDate) string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func formatTime(t epoch.CivilTime) string {
	if t.Nano != 0 {
		return fmt.Sprintf("%02d:%02d:%02d.%03d", t.Hour, t.Minute, t.Second, t.Nano/epoch.NanosPerMilli)
	}
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}
