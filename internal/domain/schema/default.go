package schema

// DefaultKind tags a Default variant.
type DefaultKind int

// Default variants. DefaultNone leaves the value absent.
const (
	DefaultNone DefaultKind = iota
	DefaultStatic
	DefaultGenerator
	DefaultSentinel
)

// Sentinel names a default resolved at construction time.
type Sentinel string

// Sentinels.
const (
	SentinelNull   Sentinel = "NULL"
	SentinelNow    Sentinel = "NOW"
	SentinelUUIDv1 Sentinel = "UUID_V1"
	SentinelUUIDv4 Sentinel = "UUID_V4"
)

// Default is the defaulting rule of a field.
type Default struct {
	kind     DefaultKind
	value    any
	gen      func() any
	sentinel Sentinel
}

// Predefined sentinel defaults.
var (
	Null   = Default{kind: DefaultSentinel, sentinel: SentinelNull}
	Now    = Default{kind: DefaultSentinel, sentinel: SentinelNow}
	UUIDv1 = Default{kind: DefaultSentinel, sentinel: SentinelUUIDv1}
	UUIDv4 = Default{kind: DefaultSentinel, sentinel: SentinelUUIDv4}
)

// Static defaults to a fixed value.
func Static(v any) Default { return Default{kind: DefaultStatic, value: v} }

// Generator defaults to the result of fn, called once per construction.
func Generator(fn func() any) Default { return Default{kind: DefaultGenerator, gen: fn} }

// Kind returns the variant tag.
func (d Default) Kind() DefaultKind { return d.kind }

// Value returns the static value.
func (d Default) Value() any { return d.value }

// Generate calls the generator. It returns nil for other variants.
func (d Default) Generate() any {
	if d.kind != DefaultGenerator || d.gen == nil {
		return nil
	}
	return d.gen()
}

// Sentinel returns the sentinel name.
func (d Default) Sentinel() Sentinel { return d.sentinel }

// allowedOn reports whether the default can be declared on a field of type t.
func (d Default) allowedOn(t Type) bool {
	if d.kind != DefaultSentinel {
		return true
	}
	switch d.sentinel {
	case SentinelNull:
		return true
	case SentinelNow:
		return t == Date
	case SentinelUUIDv1, SentinelUUIDv4:
		return t == String
	}
	return false
}
