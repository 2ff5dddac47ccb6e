// Package normalize wraps the external AI background and attire
// normalization service. The core image pipeline treats it as a black box:
// an encoded photo payload goes in, a same-content photo with a replaced
// background comes out, or the call fails with a classified error.
package normalize

import "context"

// Attire is an enumerated clothing replacement descriptor. An empty value
// leaves the subject's clothing untouched.
type Attire string

// Supported attire descriptors.
const (
	AttireNone   Attire = ""
	AttireSuit   Attire = "suit"
	AttireBlazer Attire = "blazer"
	AttireShirt  Attire = "shirt"
	AttireBlouse Attire = "blouse"
)

// Valid reports whether the descriptor is one of the supported values.
func (a Attire) Valid() bool {
	switch a {
	case AttireNone, AttireSuit, AttireBlazer, AttireShirt, AttireBlouse:
		return true
	}
	return false
}

// Request describes one normalization call.
type Request struct {
	// BackgroundColor is the target background as a hex color (e.g.
	// "#FFFFFF").
	BackgroundColor string

	// Attire optionally replaces the subject's clothing.
	Attire Attire

	// ContentType of the photo payload ("image/jpeg" or "image/png").
	ContentType string
}

// Normalizer replaces the background (and optionally attire) of a portrait
// photo. Implementations retry transient failures internally; the returned
// error, if any, is terminal for this request.
type Normalizer interface {
	ReplaceBackground(ctx context.Context, photo []byte, req Request) ([]byte, error)
}
