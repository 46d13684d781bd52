package proxy

import (
	"casagateway-proxy/internal/normalizer"
	"casagateway-proxy/internal/signer"
)

// Built-in profile names
const (
	ProfileProperties  = "properties"
	ProfileDebug       = "debug"
	ProfilePageBuilder = "pagebuilder"
)

// Profile fixes the accepted parameters and the response shape of one
// endpoint. Attribute prefix and text key differ between profiles and are
// never mixed within one.
type Profile struct {
	Name string

	// Params are the signable keys read from the inbound query
	Params []string
	// DefaultProvider is used when provider is a signable key and absent
	DefaultProvider string

	AttributePrefix string
	TextKey         string
	ListingElement  string
	ArrayElements   []string
	// KeepDeclaration emits the XML declaration as a "?xml" entry
	KeepDeclaration bool

	// RawOnly profiles never transform the upstream body
	RawOnly bool
	// ImageReshaping enables simplifyImages and flattenImages
	ImageReshaping bool
}

// PropertiesProfile is the general purpose JSON endpoint
func PropertiesProfile() Profile {
	return Profile{
		Name: ProfileProperties,
		Params: []string{
			signer.KeyFormat, signer.KeyCompany, signer.KeyLimit,
			signer.KeyOffset, signer.KeyAvailability, signer.KeyType,
		},
		AttributePrefix: "@_",
		TextKey:         "#text",
		ListingElement:  "property",
		ArrayElements:   []string{"property"},
		KeepDeclaration: true,
	}
}

// DebugProfile passes the upstream XML through untouched
func DebugProfile() Profile {
	return Profile{
		Name:            ProfileDebug,
		Params:          []string{signer.KeyFormat, signer.KeyCompany},
		AttributePrefix: "@_",
		TextKey:         "#text",
		ListingElement:  "property",
		ArrayElements:   []string{"property"},
		KeepDeclaration: true,
		RawOnly:         true,
	}
}

// PageBuilderProfile serves the page builder with unprefixed attributes and
// reshaped images. An empty fallbackProvider means provider is only sent
// when the caller sets it.
func PageBuilderProfile(fallbackProvider string) Profile {
	return Profile{
		Name: ProfilePageBuilder,
		Params: []string{
			signer.KeyFormat, signer.KeyProvider, signer.KeyCompany, signer.KeyLimit,
			signer.KeyOffset, signer.KeyAvailability, signer.KeyType,
		},
		DefaultProvider: fallbackProvider,
		TextKey:         "value",
		ListingElement:  "property",
		ArrayElements:   []string{"property", "localization", "attachment", "image"},
		ImageReshaping:  true,
	}
}

// Normalizer builds the XML normalizer matching this profile
func (p Profile) Normalizer() *normalizer.Normalizer {
	return &normalizer.Normalizer{
		Parser: normalizer.Parser{
			AttributePrefix: p.AttributePrefix,
			TextKey:         p.TextKey,
			ArrayElements:   p.ArrayElements,
			Declaration:     p.KeepDeclaration,
		},
		ListingElement: p.ListingElement,
	}
}

func (p Profile) accepts(key string) bool {
	for _, k := range p.Params {
		if k == key {
			return true
		}
	}
	return false
}
