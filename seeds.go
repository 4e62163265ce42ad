package metawards

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// SeedEvent is one scheduled scripted seeding, a row of an additional-
// seeds file: "day_or_date, count, ward_id_or_name, [demographic]" (spec
// section 6). Day has already been resolved to a 1-based simulation day
// by the time it reaches this struct; Ward has already been resolved to
// a node id.
type SeedEvent struct {
	Day         int
	Count       int
	Ward        int
	Demographic string // "" means "every demographic" / no demographics in play
}

// Seeder holds a parsed additional-seeds schedule plus the cursor needed
// to apply it day by day, grounded on the teacher's line-oriented loader
// style (utils.go's LoadSequences/LoadFitnessMatrix: bufio.Scanner,
// comment skipping, strconv parsing) generalized from FASTA/matrix rows
// to seed-event rows.
type Seeder struct {
	Events []SeedEvent
	loaded bool

	path      string
	wards     *Wards
	startDate time.Time
}

// NewSeeder returns a Seeder that will lazily load path on its first use
// from advance_additional, matching spec section 4.5's "loaded once at
// first call" rule. wards resolves name-keyed ward fields; startDate
// resolves ISO-date-keyed day fields. Either may be left zero-valued if
// the seeds file only uses integer ids/offsets.
func NewSeeder(path string, wards *Wards, startDate time.Time) *Seeder {
	return &Seeder{path: path, wards: wards, startDate: startDate}
}

// LoadAdditionalSeeds parses an additional-seeds file: one event per
// line, fields separated by commas or whitespace, in order
// `day_or_date, count, ward_id_or_name, [demographic]` (spec section 6).
// A day field that parses as a plain integer is the simulation day itself; an
// ISO 8601 date (YYYY-MM-DD) is resolved against startDate. A ward field
// that parses as an integer is used directly as a node id; otherwise it
// is looked up by name against wards.
func LoadAdditionalSeeds(path string, wards *Wards, startDate time.Time) ([]SeedEvent, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errorf(ErrMalformedFile, path, err.Error())
	}
	defer f.Close()

	var events []SeedEvent
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := splitSeedFields(line)
		if len(fields) < 3 {
			return nil, errorf(ErrMalformedFile, path, "line "+strconv.Itoa(lineNum)+" has fewer than 3 fields")
		}

		day, err := parseSeedDay(fields[0], startDate)
		if err != nil {
			return nil, errorf(ErrMalformedFile, path, err.Error())
		}
		count, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, errorf(ErrMalformedFile, path, "line "+strconv.Itoa(lineNum)+": bad count "+fields[1])
		}
		ward, err := resolveSeedWard(fields[2], wards)
		if err != nil {
			return nil, err
		}
		demo := ""
		if len(fields) > 3 {
			demo = fields[3]
		}
		events = append(events, SeedEvent{Day: day, Count: count, Ward: ward, Demographic: demo})
	}
	if err := scanner.Err(); err != nil {
		return nil, errorf(ErrMalformedFile, path, err.Error())
	}
	return events, nil
}

func splitSeedFields(line string) []string {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == '\t' || r == ' '
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

func parseSeedDay(s string, startDate time.Time) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return 0, errorf(InvalidStringParameterError, "seed day", s, "must be an integer offset or an ISO 8601 date")
	}
	if startDate.IsZero() {
		return 0, errorf(InvalidStringParameterError, "seed day", s, "date form requires a run start date")
	}
	days := int(t.Sub(startDate).Hours() / 24)
	return days + 1, nil
}

func resolveSeedWard(s string, wards *Wards) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	if wards != nil {
		if id, ok := wards.indexByInfo(WardInfo{Name: s}); ok {
			return id, nil
		}
	}
	return 0, errorf(ErrWardDestinationMissing, s)
}

// advanceAdditional applies every SeedEvent scheduled for args.Day: it
// decrements play_suscept[ward] and increments play_infections[0][ward]
// by n, clamped to the available susceptibles with a logged warning on
// shortfall (spec section 4.5, section 7's non-fatal shortfall policy).
// The schedule is loaded on first use (args.Seeder.path) and cached for
// the rest of the run.
func advanceAdditional(args *StageArgs) error {
	seeder := args.Seeder
	if seeder == nil {
		return nil
	}
	if !seeder.loaded {
		if seeder.path != "" {
			events, err := LoadAdditionalSeeds(seeder.path, seeder.wards, seeder.startDate)
			if err != nil {
				return err
			}
			seeder.Events = events
			logLoadedSeeds(seeder.path, events)
		}
		seeder.loaded = true
	}

	for _, ev := range seeder.Events {
		if ev.Day != args.Day {
			continue
		}
		targets := networkTargets(args)
		for _, t := range targets {
			if ev.Demographic != "" && t.net.Info.Name != ev.Demographic {
				continue
			}
			seedOneWard(t, ev)
		}
	}
	return nil
}

// logLoadedSeeds prints the one-time additional-seeds load report:
// a (day, demographic, ward, count) row per scheduled event, at Info
// level, so a run's seeding schedule is visible in the log even when
// nothing has fired yet.
func logLoadedSeeds(path string, events []SeedEvent) {
	var table strings.Builder
	table.WriteString("day\tdemographic\tward\tcount\n")
	for _, ev := range events {
		demo := ev.Demographic
		if demo == "" {
			demo = "*"
		}
		fmt.Fprintf(&table, "%d\t%s\t%d\t%d\n", ev.Day, demo, ev.Ward, ev.Count)
	}
	log.Info().Str("file", path).Int("events", len(events)).Msg("loaded additional seeds:\n" + table.String())
}

func seedOneWard(t target, ev SeedEvent) {
	node := &t.net.Nodes[ev.Ward]
	available := int(node.PlaySuscept)
	n := ev.Count
	if n > available {
		log.Warn().Int("ward", ev.Ward).Int("requested", n).Int("available", available).
			Msg("additional seed shortfall, capping to available susceptibles")
		n = available
	}
	if n <= 0 {
		return
	}
	node.PlaySuscept -= float64(n)
	t.inf.Play[0][ev.Ward] += n
}
