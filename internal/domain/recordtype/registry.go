package recordtype

import (
	"errors"
	"strconv"
	"strings"
)

// Kind is the closed set of record kinds that can go through review.
type Kind string

const (
	BarangayYields Kind = "barangay_yields"
	CropPrices     Kind = "crop_prices"
)

// IDKind tells how a caller-facing record id maps onto the table's primary key.
type IDKind int

const (
	IDNumeric IDKind = iota
	IDText
)

var ErrInvalidID = errors.New("invalid record id")

// Config binds a record kind to its storage. Table and IDColumn are the only
// identifiers that ever reach a query string.
type Config struct {
	Key           Kind
	Table         string
	IDColumn      string
	IDKind        IDKind
	CanonicalType string
}

var configs = map[Kind]Config{
	BarangayYields: {
		Key:           BarangayYields,
		Table:         "barangay_yields",
		IDColumn:      "id",
		IDKind:        IDNumeric,
		CanonicalType: "barangay_yields",
	},
	CropPrices: {
		Key:           CropPrices,
		Table:         "crop_prices",
		IDColumn:      "price_id",
		IDKind:        IDNumeric,
		CanonicalType: "crop_prices",
	},
}

// aliases are stored already normalized.
var aliases = map[string]Kind{
	"yield":          BarangayYields,
	"yields":         BarangayYields,
	"crop_yields":    BarangayYields,
	"barangay_yield": BarangayYields,
	"yield_records":  BarangayYields,

	"price":           CropPrices,
	"prices":          CropPrices,
	"crop_price":      CropPrices,
	"barangay_prices": CropPrices,
	"price_records":   CropPrices,
}

// normalize lowercases and folds runs of whitespace, '-' and '_' into a single '_'.
func normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	sep := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch r {
		case ' ', '\t', '\n', '\r', '-', '_':
			sep = true
			continue
		}
		if sep && b.Len() > 0 {
			b.WriteByte('_')
		}
		sep = false
		b.WriteRune(r)
	}
	return b.String()
}

// Resolve looks input up against canonical keys first, then aliases.
func Resolve(input string) (Config, bool) {
	key := normalize(input)
	if key == "" {
		return Config{}, false
	}
	if cfg, ok := configs[Kind(key)]; ok {
		return cfg, true
	}
	if k, ok := aliases[key]; ok {
		return configs[k], true
	}
	return Config{}, false
}

// Canonicalize returns the label written into the approval log, or input
// unchanged when it does not resolve.
func Canonicalize(input string) string {
	if cfg, ok := Resolve(input); ok {
		return cfg.CanonicalType
	}
	return input
}

// Keys returns the canonical keys in a stable order.
func Keys() []Kind { return []Kind{BarangayYields, CropPrices} }

// CanonicalTypes returns every distinct canonical label.
func CanonicalTypes() []string {
	seen := make(map[string]struct{}, len(configs))
	out := make([]string, 0, len(configs))
	for _, k := range Keys() {
		ct := configs[k].CanonicalType
		if _, ok := seen[ct]; ok {
			continue
		}
		seen[ct] = struct{}{}
		out = append(out, ct)
	}
	return out
}

// ParseID converts raw into the native key type of the table.
func (c Config) ParseID(raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrInvalidID
	}
	if c.IDKind == IDText {
		return raw, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return nil, ErrInvalidID
	}
	return n, nil
}
