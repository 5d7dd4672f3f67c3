package loader

import "maps"

// Options is an SDK configuration record. Values are opaque to the loader.
type Options map[string]any

// EndpointKey is the option every default configuration must carry.
const EndpointKey = "dsn"

// Merge returns a new Options holding base overlaid with opts.
// Keys in opts win. Neither input is modified, and the result never
// aliases either input, so callers may keep using both.
func Merge(base, opts Options) Options {
	out := make(Options, len(base)+len(opts))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range opts {
		out[k] = v
	}
	return out
}

// clone returns a copy of o that shares no map with it. A nil o clones to
// an empty, non-nil Options.
func (o Options) clone() Options {
	out := make(Options, len(o))
	maps.Copy(out, o)
	return out
}

// asOptions converts an argument recorded for Init into Options.
// Anything that is not an option map is treated as "no options".
func asOptions(v any) Options {
	switch o := v.(type) {
	case Options:
		return o
	case map[string]any:
		return Options(o)
	default:
		return nil
	}
}
