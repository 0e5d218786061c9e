package float

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
)

var (
	// ErrNoFloat indicates the item has no wear float to report. This is a
	// normal outcome for non-weapon items, not a failure.
	ErrNoFloat = errors.New("float: no float available")

	// ErrNoInspectLink indicates a lookup was attempted without an inspect link.
	ErrNoInspectLink = errors.New("float: no inspect link")
)

// Info is the useful subset of wear metadata extracted from a float provider
// response.
type Info struct {
	FloatValue float64   `json:"floatvalue"`
	Paintseed  int       `json:"paintseed"`
	Paintindex int       `json:"paintindex"`
	Low        float64   `json:"min"`
	High       float64   `json:"max"`
	Stickers   []Sticker `json:"stickers,omitempty"`
	FetchedAt  time.Time `json:"fetched_at"`
}

// Sticker is a single sticker applied to the item.
type Sticker struct {
	Slot int    `json:"slot"`
	Name string `json:"name"`
}

// Client looks up wear float metadata for an item by its inspect link.
type Client interface {
	// GetFloatInfo classifies the provider response into valid float data,
	// ErrNoFloat, or an error. A response lacking the float field is an
	// error, not "no float". The price hint, when non-nil, is forwarded to
	// the provider for its own analytics.
	GetFloatInfo(ctx context.Context, inspectLink string, priceHint *float64) (*Info, error)
}

// AssetIDFromInspectLink derives the asset id embedded in an inspect link.
func AssetIDFromInspectLink(inspectLink string) (string, error) {
	_, after, found := strings.Cut(inspectLink, "A")
	if !found {
		return "", errors.New("float: inspect link has no asset id")
	}

	assetID, _, found := strings.Cut(after, "D")
	if !found || assetID == "" {
		return "", errors.New("float: inspect link has no asset id")
	}

	return assetID, nil
}
