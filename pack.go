package dmodel

// Format selects the wire representation for Pack/Unpack.
type Format string

const (
	FormatDict Format = "dict"
	FormatBin  Format = "bin"
)

// PackOption configures a Pack call.
type PackOption func(*packConfig)

type packConfig struct {
	onlyChanged bool
	clearChanged bool
	fieldFilter FieldFilter
	fields      []string
}

func WithOnlyChanged() PackOption { return func(c *packConfig) { c.onlyChanged = true } }

func WithClearChanged() PackOption { return func(c *packConfig) { c.clearChanged = true } }

func WithFieldFilter(f FieldFilter) PackOption {
	return func(c *packConfig) { c.fieldFilter = c.fieldFilter.Combine(f) }
}

// WithFields restricts a "dict" Pack to the given top-level field names.
func WithFields(names ...string) PackOption { return func(c *packConfig) { c.fields = names } }

// Pack serializes r per format ("dict" or "bin"), applying the given
// options (spec §6 "Public operations"). For "dict" it returns a
// map[string]any; for "bin" a []byte.
func Pack(r Record, format Format, opts ...PackOption) (result any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if e, ok := rec.(*Error); ok {
				err = e
				return
			}
			panic(rec)
		}
	}()

	var cfg packConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	switch format {
	case FormatDict:
		filter := cfg.fieldFilter.Combine(fieldsSubset(cfg.fields))
		m, _ := encodeRecordDict(r, dictEncodeOpts{onlyChanged: cfg.onlyChanged, fieldFilter: filter})
		if cfg.clearChanged {
			r.inst().ClearChanged(false)
		}
		return m, nil
	case FormatBin:
		w := &wireWriter{}
		if encErr := encodeRecordBin(w, r, binEncodeOpts{onlyChanged: cfg.onlyChanged, fieldFilter: cfg.fieldFilter}); encErr != nil {
			return nil, encErr
		}
		if cfg.clearChanged {
			r.inst().ClearChanged(false)
		}
		return w.Buf, nil
	default:
		return nil, packErrf("unknown pack format %q", format)
	}
}

// UnpackOption configures an Unpack call.
type UnpackOption func(*DecodeContext)

func WithMode(mode DecodeMode) UnpackOption { return func(c *DecodeContext) { c.Mode = mode } }

func WithMarkChange() UnpackOption { return func(c *DecodeContext) { c.MarkChange = true } }

func WithResolveRef(fn func(oid any) (Record, bool)) UnpackOption {
	return func(c *DecodeContext) { c.ResolveRef = fn }
}

// Unpack decodes src (a map[string]any for "dict", a []byte for "bin")
// into r, returning the set of oids left unresolved by reference fields
// (never an error, per spec §7). It resolves references against r's own
// subtree only; to resolve refs spanning several separately-decoded
// records (spec §8 scenario 6), share one DecodeContext across several
// DecodeInto calls instead and call Resolve once at the end.
func Unpack(r Record, format Format, src any, opts ...UnpackOption) (unsolved map[any]bool, err error) {
	ctx := NewDecodeContext(ModeOverride, false, nil)
	for _, opt := range opts {
		opt(ctx)
	}
	if err := DecodeInto(ctx, r, format, src); err != nil {
		return nil, err
	}
	return ctx.Resolve(), nil
}

// DecodeInto decodes src into r using the caller-supplied ctx without
// resolving references, so several records can share one context (and
// one Resolve pass) across multiple calls.
func DecodeInto(ctx *DecodeContext, r Record, format Format, src any) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if e, ok := rec.(*Error); ok {
				err = e
				return
			}
			panic(rec)
		}
	}()

	switch format {
	case FormatDict:
		m, ok := src.(map[string]any)
		if !ok {
			return packErrf("dict unpack expects a map[string]any, got %T", src)
		}
		decodeRecordDict(ctx, r, m)
		return nil
	case FormatBin:
		b, ok := src.([]byte)
		if !ok {
			return packErrf("bin unpack expects a []byte, got %T", src)
		}
		return decodeRecordBin(ctx, newWireReader(b), r)
	default:
		return packErrf("unknown unpack format %q", format)
	}
}
