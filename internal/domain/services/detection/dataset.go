package detection

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"honeypot-lab/pkg/logger"
)

// Match sources
const (
	MatchSourceExact = "dataset_exact_match"
	MatchSourceFuzzy = "dataset_fuzzy_match"
)

// fuzzy matching constants
const (
	fuzzyOverlapThreshold = 0.8
	fuzzyPenalty          = 0.9
)

// Pattern is one known scam pattern, keyed in the table by the hash of
// its fingerprint.
type Pattern struct {
	Fingerprint string  `json:"fingerprint"`
	Category    string  `json:"category"`
	Confidence  float64 `json:"confidence"`
}

// DatasetMatch is a successful lookup against the pattern table
type DatasetMatch struct {
	Confidence float64
	Category   string
	Source     string
}

// PatternDB is the second detection tier: exact-hash and fuzzy-overlap
// lookup against a preloaded pattern table. Read-only after load, safe
// for unsynchronized concurrent reads.
//
// Fuzzy matching is linear in table size, which is fine for the
// low-thousands of patterns we load. Beyond that this wants an indexed
// search structure.
type PatternDB struct {
	patterns map[string]Pattern
	logger   *logger.Logger
}

// NewPatternDB creates an empty pattern table
func NewPatternDB(log *logger.Logger) *PatternDB {
	return &PatternDB{
		patterns: make(map[string]Pattern),
		logger:   log.WithComponent("pattern-db"),
	}
}

// patternFile is the on-disk dataset format: raw scam texts that are
// fingerprinted at load time
type patternFile struct {
	Patterns []struct {
		Text       string  `json:"text"`
		Category   string  `json:"category"`
		Confidence float64 `json:"confidence"`
	} `json:"patterns"`
}

// LoadFile loads raw scam texts from a JSON file, fingerprinting each
// one into the lookup table
func (db *PatternDB) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read pattern file: %w", err)
	}
	var file patternFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse pattern file: %w", err)
	}
	for _, p := range file.Patterns {
		db.Add(Pattern{
			Fingerprint: Fingerprint(p.Text),
			Category:    p.Category,
			Confidence:  p.Confidence,
		})
	}
	db.logger.Info().Int("patterns", len(file.Patterns)).Str("path", path).Msg("loaded scam patterns")
	return nil
}

// Add inserts one pattern keyed by its fingerprint hash
func (db *PatternDB) Add(p Pattern) {
	db.patterns[FingerprintHash(p.Fingerprint)] = p
}

// Len returns the number of loaded patterns
func (db *PatternDB) Len() int {
	return len(db.patterns)
}

// Match looks the message up in the pattern table. Exact hash match
// wins; otherwise the best fuzzy candidate with token overlap above the
// threshold is returned with a confidence penalty. Returns nil when
// nothing matches.
func (db *PatternDB) Match(message string) *DatasetMatch {
	fingerprint := Fingerprint(message)
	hash := FingerprintHash(fingerprint)

	if p, ok := db.patterns[hash]; ok {
		return &DatasetMatch{
			Confidence: p.Confidence,
			Category:   p.Category,
			Source:     MatchSourceExact,
		}
	}

	msgTokens := tokenSet(fingerprint)
	var best *Pattern
	maxOverlap := 0.0

	for _, p := range db.patterns {
		patternTokens := tokenSet(p.Fingerprint)
		if len(patternTokens) == 0 {
			continue
		}

		intersection := 0
		for tok := range msgTokens {
			if _, ok := patternTokens[tok]; ok {
				intersection++
			}
		}
		overlap := float64(intersection) / float64(len(patternTokens))

		if overlap > fuzzyOverlapThreshold && overlap > maxOverlap {
			maxOverlap = overlap
			match := p
			best = &match
		}
	}

	if best == nil {
		return nil
	}
	return &DatasetMatch{
		Confidence: math.Floor(best.Confidence * fuzzyPenalty),
		Category:   best.Category,
		Source:     MatchSourceFuzzy,
	}
}
