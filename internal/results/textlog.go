// Package results loads matchup tables from battle logs and optimiser rosters.
package results

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/pable/go-matchup-chart/internal/model"
)

var (
	// ErrMalformedLine is wrapped by every line-level parse failure.
	ErrMalformedLine = errors.New("malformed line")
	// ErrNoHeaders is returned when a data line precedes any species header.
	ErrNoHeaders = errors.New("data before species headers")
)

// levelTiers maps the level assigned by the simulator back to its tier.
var levelTiers = map[int]string{
	76: "Uber",
	80: "OU",
	82: "UUBL",
	84: "UU",
	86: "NUBL",
	88: "NU",
	90: "NFE",
}

// TierForLevel returns the tier implied by a simulator level, or "".
func TierForLevel(level int) string {
	return levelTiers[level]
}

// LoadLog opens and parses a battle log file. Files ending in .gz are
// decompressed on the fly.
func LoadLog(path string) (*model.Dataset, error) {
	rc, err := openLog(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return ParseLog(rc)
}

type gzipFile struct {
	*gzip.Reader
	f *os.File
}

func (g gzipFile) Close() error {
	g.Reader.Close()
	return g.f.Close()
}

func openLog(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	if !strings.HasSuffix(strings.ToLower(path), ".gz") {
		return f, nil
	}
	zr, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open log: %w", err)
	}
	return gzipFile{Reader: zr, f: f}, nil
}

// ParseLog reads species headers and "a b win loss tie" lines.
//
// Header lines look like "25 Pikachu lvl88 Thunderbolt,Surf NU". The matrix
// is sized from the ids of all headers read before the first data line.
func ParseLog(r io.Reader) (*model.Dataset, error) {
	headers := make(map[int]model.Entity)
	minID, maxID := 0, -1
	var ds *model.Dataset

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)

		if levelIndex(fields) >= 0 {
			e, err := parseHeader(fields)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			if ds != nil {
				// Late headers only refresh metadata of known ids.
				if k, ok := ds.Index(e.ID); ok {
					ds.Entities[k] = e
				}
				continue
			}
			headers[e.ID] = e
			if maxID < minID {
				minID, maxID = e.ID, e.ID
			} else {
				minID = min(minID, e.ID)
				maxID = max(maxID, e.ID)
			}
			continue
		}
		if hasToken(fields, "vs") {
			continue
		}

		if ds == nil {
			if len(headers) == 0 {
				return nil, fmt.Errorf("line %d: %w", lineNo, ErrNoHeaders)
			}
			ds = newDataset(headers, minID, maxID)
		}
		if err := applyDataLine(ds, fields); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	if ds == nil {
		ds = newDataset(headers, minID, maxID)
	}
	return ds, nil
}

// Tiers reads only the headers of a log and returns tier labels by id.
func Tiers(path string) (map[int]string, error) {
	rc, err := openLog(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	out := make(map[int]string)
	sc := bufio.NewScanner(rc)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		fields := strings.Fields(sc.Text())
		if levelIndex(fields) < 0 {
			continue
		}
		e, err := parseHeader(fields)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if e.Tier != "" {
			out[e.ID] = e.Tier
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	return out, nil
}

func newDataset(headers map[int]model.Entity, minID, maxID int) *model.Dataset {
	n := maxID - minID + 1
	if n < 0 {
		n = 0
	}
	ds := &model.Dataset{
		Start:    minID,
		Entities: make([]model.Entity, n),
		Matrix:   model.NewMatrix(n),
	}
	for k := range ds.Entities {
		id := minID + k
		if e, ok := headers[id]; ok {
			ds.Entities[k] = e
		} else {
			ds.Entities[k] = model.Entity{ID: id, Name: strconv.Itoa(id)}
		}
	}
	return ds
}

func applyDataLine(ds *model.Dataset, fields []string) error {
	nums, err := parseDataFields(fields)
	if err != nil {
		return err
	}
	a, okA := ds.Index(nums[0])
	b, okB := ds.Index(nums[1])
	if !okA || !okB {
		return fmt.Errorf("%w: id pair %d/%d outside %d..%d",
			ErrMalformedLine, nums[0], nums[1], ds.Start, ds.Start+ds.Len()-1)
	}
	if err := ds.Matrix.RecordResult(a, b, nums[2], nums[3], nums[4]); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedLine, err)
	}
	return nil
}

func parseHeader(fields []string) (model.Entity, error) {
	li := levelIndex(fields)
	if li < 2 {
		return model.Entity{}, fmt.Errorf("%w: header needs id and name before level", ErrMalformedLine)
	}
	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return model.Entity{}, fmt.Errorf("%w: header id %q", ErrMalformedLine, fields[0])
	}
	level, err := strconv.Atoi(strings.TrimPrefix(fields[li], "lvl"))
	if err != nil {
		return model.Entity{}, fmt.Errorf("%w: level %q", ErrMalformedLine, fields[li])
	}
	e := model.Entity{
		ID:    id,
		Name:  strings.Join(fields[1:li], " "),
		Level: level,
	}
	rest := fields[li+1:]
	if n := len(rest); n > 0 && isTierLabel(rest[n-1]) {
		e.Tier = rest[n-1]
		rest = rest[:n-1]
	} else {
		e.Tier = TierForLevel(level)
	}
	e.Moves = splitMoves(strings.Join(rest, " "))
	return e, nil
}

// tierLabels holds the tier names a header may end with, upper-cased.
var tierLabels = map[string]bool{
	"LC": true, "PU": true, "RU": true, "RUBL": true, "BL": true,
}

func init() {
	for _, t := range levelTiers {
		tierLabels[strings.ToUpper(t)] = true
	}
}

func isTierLabel(tok string) bool {
	return tierLabels[strings.ToUpper(tok)]
}

// levelIndex returns the position of the "lvlNN" token, or -1.
func levelIndex(fields []string) int {
	for i, f := range fields {
		if len(f) > 3 && strings.HasPrefix(f, "lvl") {
			if _, err := strconv.Atoi(f[3:]); err == nil {
				return i
			}
		}
	}
	return -1
}

func hasToken(fields []string, tok string) bool {
	for _, f := range fields {
		if f == tok {
			return true
		}
	}
	return false
}

func splitMoves(s string) []string {
	var out []string
	for _, m := range strings.Split(s, ",") {
		if m = strings.TrimSpace(m); m != "" {
			out = append(out, m)
		}
	}
	return out
}

// ScanPairings calls fn with the raw ids and counts of every data line,
// skipping headers and "vs" echoes.
func ScanPairings(r io.Reader, fn func(a, b, win, loss, tie int) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || levelIndex(fields) >= 0 || hasToken(fields, "vs") {
			continue
		}
		nums, err := parseDataFields(fields)
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		if nums[2]+nums[3]+nums[4] <= 0 {
			return fmt.Errorf("line %d: %w: %v", lineNo, ErrMalformedLine, model.ErrEmptyResult)
		}
		if err := fn(nums[0], nums[1], nums[2], nums[3], nums[4]); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read log: %w", err)
	}
	return nil
}

func parseDataFields(fields []string) ([5]int, error) {
	var nums [5]int
	if len(fields) != 5 {
		return nums, fmt.Errorf("%w: want 5 fields, got %d", ErrMalformedLine, len(fields))
	}
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nums, fmt.Errorf("%w: field %d %q is not an integer", ErrMalformedLine, i+1, f)
		}
		nums[i] = v
	}
	return nums, nil
}
