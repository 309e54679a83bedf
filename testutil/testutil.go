package testutil

import (
	"bytes"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/hupe1980/caret/codec"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Uint64 returns a pseudo-random uint64.
func (r *RNG) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint64()
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Zipf returns a Zipfian-distributed value in [0, n): P(k) ∝ 1/k^s.
// Used to make a few records very popular duplicates, as in scraped corpora.
func (r *RNG) Zipf(n int, s float64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.zipfLocked(n, s)
}

func (r *RNG) zipfLocked(n int, s float64) int {
	if n <= 1 {
		return 0
	}

	var hns float64
	for i := 1; i <= n; i++ {
		hns += 1.0 / math.Pow(float64(i), s)
	}

	u := r.rand.Float64() * hns
	var cumulative float64
	for k := 1; k <= n; k++ {
		cumulative += 1.0 / math.Pow(float64(k), s)
		if u <= cumulative {
			return k - 1
		}
	}
	return n - 1
}

var vocabulary = strings.Fields(`
	the of and to in is was for on that with as by at from his her an were are
	which this be or has had not but first one their its new after who they
	have two been other when there all during into school time may years more
	most only over city some world would where later up such used many can
	state about national out known university united then made team under
	river album season series system music film game league number water
	station village north south east west government people history record`)

// Sentence returns n random vocabulary words joined by single spaces.
func (r *RNG) Sentence(n int) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sentenceLocked(n)
}

func (r *RNG) sentenceLocked(n int) string {
	var sb strings.Builder
	for i := range n {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(vocabulary[r.rand.Intn(len(vocabulary))])
	}
	return sb.String()
}

// CorpusConfig shapes a generated corpus.
type CorpusConfig struct {
	Lines int // total records
	// DuplicateRate is the probability that a record (after the first) repeats
	// the text of an earlier unique record.
	DuplicateRate float64
	// WordsPerRecord is the length of each unique text. Default 24.
	WordsPerRecord int
	// Skew is the Zipf exponent used to pick which earlier record is repeated.
	// Zero picks uniformly.
	Skew float64
}

// Corpus is a generated JSONL dataset together with its ground truth.
type Corpus struct {
	// Texts holds the extracted content of every record.
	Texts []string
	// DupOf maps each exact-duplicate record to the first record with the same text.
	DupOf map[int]int
	// Data is the JSONL encoding, one {"text":"..."} object per line.
	Data []byte
}

// Unique returns the number of records that are not exact duplicates.
func (c *Corpus) Unique() int {
	return len(c.Texts) - len(c.DupOf)
}

// Corpus generates a JSONL corpus with known exact duplicates.
func (r *RNG) Corpus(cfg CorpusConfig) *Corpus {
	if cfg.WordsPerRecord <= 0 {
		cfg.WordsPerRecord = 24
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	c := &Corpus{
		Texts: make([]string, 0, cfg.Lines),
		DupOf: make(map[int]int),
	}
	var firsts []int
	seen := make(map[string]int)

	var buf bytes.Buffer
	for i := range cfg.Lines {
		var text string
		if len(firsts) > 0 && r.rand.Float64() < cfg.DuplicateRate {
			var pick int
			if cfg.Skew > 0 {
				pick = r.zipfLocked(len(firsts), cfg.Skew)
			} else {
				pick = r.rand.Intn(len(firsts))
			}
			text = c.Texts[firsts[pick]]
		} else {
			text = r.sentenceLocked(cfg.WordsPerRecord)
		}

		if first, ok := seen[text]; ok {
			c.DupOf[i] = first
		} else {
			seen[text] = i
			firsts = append(firsts, i)
		}
		c.Texts = append(c.Texts, text)

		line, err := codec.AppendObject(nil, codec.Default, []string{"text"}, []string{text})
		if err != nil {
			panic(err)
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}
	c.Data = buf.Bytes()
	return c
}

// WriteFile writes data to name inside a fresh temporary directory and
// returns the path.
func WriteFile(tb testing.TB, name string, data []byte) string {
	tb.Helper()
	path := filepath.Join(tb.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		tb.Fatalf("write %s: %v", path, err)
	}
	return path
}

// JSONL joins records with '\n' and appends a trailing terminator.
func JSONL(records ...string) []byte {
	if len(records) == 0 {
		return nil
	}
	return []byte(strings.Join(records, "\n") + "\n")
}
