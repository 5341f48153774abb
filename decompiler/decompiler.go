// Package decompiler turns bits back into MWOT source.
//
// Every strategy produces text whose MWOT bits are exactly the input bits.
// They differ only in how that text looks: plain vocabulary words, a
// writing guide that lists each row of bits beside its words, or random
// gibberish.
package decompiler

import (
	"errors"
	"fmt"
	"iter"
	"strings"
	"unicode/utf8"

	"github.com/mitchellh/go-wordwrap"

	"github.com/chazu/mwot/compiler"
	"github.com/chazu/mwot/pkg/bits"
)

// Strategy names a decompiler.
type Strategy string

const (
	StrategyBasic Strategy = "basic"
	StrategyGuide Strategy = "guide"
	StrategyRand  Strategy = "rand"
)

// Strategies lists every known strategy.
var Strategies = []Strategy{StrategyBasic, StrategyGuide, StrategyRand}

// ErrUnknownStrategy is returned for a strategy name that is not one of
// Strategies.
var ErrUnknownStrategy = errors.New("unknown decompiler")

// ParseStrategy resolves a strategy name, ignoring case.
func ParseStrategy(name string) (Strategy, error) {
	s := Strategy(strings.ToLower(name))
	for _, known := range Strategies {
		if s == known {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownStrategy, name)
}

// Options carries the settings of every strategy. Only the part for the
// selected strategy is used.
type Options struct {
	Basic BasicOptions
	Guide GuideOptions
	Rand  RandOptions
}

// DefaultOptions returns the default settings of every strategy.
func DefaultOptions() Options {
	return Options{
		Basic: DefaultBasicOptions(),
		Guide: DefaultGuideOptions(),
		Rand:  DefaultRandOptions(),
	}
}

// ErrInvalidOptions is returned by Humanize for settings whose output would
// not decode to the input bits.
var ErrInvalidOptions = errors.New("invalid decompiler options")

// Validate checks the settings that strategy uses.
func (o Options) Validate(strategy Strategy) error {
	switch strategy {
	case StrategyBasic:
		return o.Basic.Vocab.Validate()
	case StrategyGuide:
		if err := o.Guide.Vocab.Validate(); err != nil {
			return err
		}
		return validateFiller(o.Guide.Filler)
	}
	return nil
}

// Humanize decompiles seq with the named strategy. Options that could
// change the decoded bits are rejected before anything is read.
func Humanize(strategy Strategy, seq iter.Seq[bits.Bit], opts Options) (string, error) {
	if err := opts.Validate(strategy); err != nil {
		return "", err
	}
	switch strategy {
	case StrategyBasic:
		return Basic(seq, opts.Basic), nil
	case StrategyGuide:
		return Guide(seq, opts.Guide), nil
	case StrategyRand:
		return Rand(seq, opts.Rand), nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownStrategy, string(strategy))
	}
}

// ---------------------------------------------------------------------------
// Vocabulary
// ---------------------------------------------------------------------------

// Vocab holds the word written for a 0 bit and the word written for a 1
// bit.
type Vocab [2]string

// DefaultVocab is used when no vocabulary is configured.
var DefaultVocab = Vocab{"zz", "x"}

// ParseVocab reads a vocabulary from two whitespace-separated words. The
// first must encode a 0 and the second a 1.
func ParseVocab(text string) (Vocab, error) {
	words := strings.FieldsFunc(text, compiler.IsSpace)
	if len(words) != 2 {
		return Vocab{}, fmt.Errorf("vocab %q: want 2 words, got %d", text, len(words))
	}
	if got := bits.String(compiler.BitsFromString(text)); got != "01" {
		return Vocab{}, fmt.Errorf("vocab %q: words encode %q, want \"01\"", text, got)
	}
	return Vocab{words[0], words[1]}, nil
}

// Validate checks that v holds two single words encoding 0 and 1. The
// zero Vocab stands for DefaultVocab and is valid.
func (v Vocab) Validate() error {
	if v == (Vocab{}) {
		return nil
	}
	parsed, err := ParseVocab(v[0] + " " + v[1])
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	if parsed != v {
		return fmt.Errorf("%w: vocab %q: each entry must be one word", ErrInvalidOptions, v[:])
	}
	return nil
}

// Word returns the vocabulary word for b.
func (v Vocab) Word(b bits.Bit) string {
	return v[b&1]
}

func (v Vocab) orDefault() Vocab {
	if v == (Vocab{}) {
		return DefaultVocab
	}
	return v
}

// wrap fills text into lines of at most width columns without splitting
// words. A word longer than width gets a line of its own. Each line ends
// in a newline. A width of 0 or less returns text unchanged.
func wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	if text == "" {
		return ""
	}

	// go-wordwrap never breaks before a word of width or more columns, so
	// such lines are refilled here.
	var sb strings.Builder
	for line := range strings.SplitSeq(wordwrap.WrapString(text, uint(width)), "\n") {
		if utf8.RuneCountInString(line) <= width {
			sb.WriteString(line)
			sb.WriteByte('\n')
			continue
		}
		n := 0
		for _, word := range strings.Fields(line) {
			wn := utf8.RuneCountInString(word)
			if n > 0 && n+1+wn > width {
				sb.WriteByte('\n')
				n = 0
			}
			if n > 0 {
				sb.WriteByte(' ')
				n++
			}
			sb.WriteString(word)
			n += wn
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
