// Package displayid mints opaque, human-transcribable identifiers for values
// that must never be printed, such as secrets resolved during a plan.
//
// An ID has the form "<namespace>:<kind>:<base58>", e.g. "opal:s:3J98t56A7sB".
// The Base58 part is the first 8 bytes of a keyed BLAKE2s-128 digest over the
// value's context and a BLAKE2b-256 hash of the value.
package displayid

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/blake2s"

	"github.com/opal-lang/b58/base58"
	"github.com/opal-lang/b58/invariant"
)

const (
	// DefaultNamespace prefixes IDs unless WithNamespace overrides it.
	DefaultNamespace = "opal"

	// KeySize is the required PRF key length in bytes.
	KeySize = 32

	// digestPrefix is how many digest bytes are rendered (64 bits).
	digestPrefix = 8

	separator = ":"
)

// ErrMalformed is returned by Parse for strings that are not display IDs.
var ErrMalformed = errors.New("malformed display id")

// Mode determines how the PRF key is obtained.
type Mode int

const (
	// ModePlan uses a key derived from the plan seed: IDs are reproducible
	// for the same plan, context and value.
	ModePlan Mode = iota
	// ModeRun uses a fresh random key: IDs differ between runs.
	ModeRun
)

func (m Mode) String() string {
	switch m {
	case ModePlan:
		return "plan"
	case ModeRun:
		return "run"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Context binds an ID to where the value appears.
type Context struct {
	PlanHash  []byte // Canonical plan digest
	StepPath  string // e.g., "deploy.step[0]"
	Decorator string // e.g., "@aws.secret"
	KeyName   string // e.g., "DB_PASS"
	Kind      string // "s" (secret), "v" (value), "st" (step), "pl" (plan)
}

// Factory mints display IDs.
type Factory interface {
	Make(ctx Context, value []byte) string
}

// Option configures a Factory.
type Option func(*keyedFactory)

// WithNamespace replaces DefaultNamespace. ns must be non-empty and must not
// contain ':'.
func WithNamespace(ns string) Option {
	invariant.Precondition(ns != "" && !strings.Contains(ns, separator),
		"namespace must be non-empty and contain no %q, got %q", separator, ns)
	return func(f *keyedFactory) {
		f.namespace = ns
	}
}

// WithLogger sets the logger used for debug events. Values are never logged.
func WithLogger(logger *slog.Logger) Option {
	invariant.NotNil(logger, "logger")
	return func(f *keyedFactory) {
		f.logger = logger
	}
}

// prfInput is the canonical PRF message. Integer keys keep the encoding
// compact and independent of Go field names.
type prfInput struct {
	PlanHash  []byte `cbor:"1,keyasint"`
	StepPath  string `cbor:"2,keyasint"`
	Decorator string `cbor:"3,keyasint"`
	KeyName   string `cbor:"4,keyasint"`
	Kind      string `cbor:"5,keyasint"`
	ValueHash []byte `cbor:"6,keyasint"`
}

var canonicalEncoding = func() cbor.EncMode {
	opts := cbor.CanonicalEncOptions()
	opts.NilContainers = cbor.NilContainerAsEmpty
	em, err := opts.EncMode()
	invariant.Invariant(err == nil, "canonical CBOR options rejected: %v", err)
	return em
}()

type keyedFactory struct {
	mode      Mode
	key       []byte
	namespace string
	logger    *slog.Logger
}

// New returns a Factory keyed with key, which must be KeySize bytes.
// The key is copied.
//
// For ModePlan the key should be derived from the plan seed; for ModeRun it
// should be a fresh random nonce (see NewRun).
func New(mode Mode, key []byte, opts ...Option) Factory {
	invariant.Precondition(len(key) == KeySize, "key must be %d bytes, got %d", KeySize, len(key))

	f := &keyedFactory{
		mode:      mode,
		key:       append([]byte(nil), key...),
		namespace: DefaultNamespace,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NewRun returns a ModeRun Factory with a random key.
func NewRun(opts ...Option) (Factory, error) {
	var key [KeySize]byte
	if _, err := rand.Read(key[:]); err != nil {
		return nil, fmt.Errorf("generate run key: %w", err)
	}
	return New(ModeRun, key[:], opts...), nil
}

// Make returns the display ID for value in ctx.
//
// PRF: BLAKE2s-128(key, cbor{planhash, step, decorator, keyname, kind, BLAKE2b-256(value)})
//
// Hashing the value first keeps the ID length and content independent of
// the value's length.
func (f *keyedFactory) Make(ctx Context, value []byte) string {
	invariant.Precondition(ctx.Kind != "" && !strings.Contains(ctx.Kind, separator),
		"kind must be non-empty and contain no %q, got %q", separator, ctx.Kind)

	valueHash := blake2b.Sum256(value)
	msg, err := canonicalEncoding.Marshal(prfInput{
		PlanHash:  ctx.PlanHash,
		StepPath:  ctx.StepPath,
		Decorator: ctx.Decorator,
		KeyName:   ctx.KeyName,
		Kind:      ctx.Kind,
		ValueHash: valueHash[:],
	})
	invariant.ExpectNoError(err, "PRF input encoding")

	h, err := blake2s.New128(f.key)
	invariant.ExpectNoError(err, "BLAKE2s-128 keyed hasher")
	h.Write(msg)
	digest := h.Sum(nil)

	id := make([]byte, 0, len(f.namespace)+len(ctx.Kind)+2+base58.MaxEncodedLen(digestPrefix))
	id = append(id, f.namespace...)
	id = append(id, separator...)
	id = append(id, ctx.Kind...)
	id = append(id, separator...)
	id = base58.AppendEncode(id, digest[:digestPrefix])

	f.logger.Debug("display id minted",
		"mode", f.mode,
		"kind", ctx.Kind,
		"step", ctx.StepPath)

	return string(id)
}

// Parse splits a display ID into namespace, kind and Base58 part.
// It validates the shape only; the digest cannot be recovered.
func Parse(id string) (namespace, kind, encoded string, err error) {
	parts := strings.Split(id, separator)
	if len(parts) != 3 {
		return "", "", "", fmt.Errorf("%w: %q has %d fields, want 3", ErrMalformed, id, len(parts))
	}
	for i, name := range []string{"namespace", "kind", "encoded part"} {
		if parts[i] == "" {
			return "", "", "", fmt.Errorf("%w: %q has empty %s", ErrMalformed, id, name)
		}
	}

	encoded = parts[2]
	if limit := base58.MaxEncodedLen(digestPrefix); len(encoded) > limit {
		return "", "", "", fmt.Errorf("%w: encoded part of %q longer than %d", ErrMalformed, id, limit)
	}
	for i := 0; i < len(encoded); i++ {
		if strings.IndexByte(base58.Alphabet, encoded[i]) < 0 {
			return "", "", "", fmt.Errorf("%w: invalid base58 character %q at offset %d", ErrMalformed, encoded[i], i)
		}
	}

	return parts[0], parts[1], encoded, nil
}
