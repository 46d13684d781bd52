package normalizer

// SwissRETS element names along the listing → image path
const (
	localizationsKey = "localizations"
	localizationKey  = "localization"
	attachmentsKey   = "attachments"
	imageKey         = "image"
	urlKey           = "url"

	// ImagesField is added to every listing by FlattenImages
	ImagesField = "images"
)

// Listings returns every element named listingElement in doc. Siblings keep
// document order; listings are not searched for nested listings.
func Listings(doc map[string]any, listingElement string) []map[string]any {
	var out []map[string]any
	var walk func(v any)
	walk = func(v any) {
		switch t := v.(type) {
		case map[string]any:
			for key, child := range t {
				if key == listingElement {
					out = append(out, maps(child)...)
					continue
				}
				walk(child)
			}
		case []any:
			for _, child := range t {
				walk(child)
			}
		}
	}
	walk(doc)
	return out
}

// FlattenImages attaches a flat, ordered list of every image URL found under
// a listing's localizations. The nested structure is left in place.
func FlattenImages(doc map[string]any, listingElement, textKey string) {
	for _, listing := range Listings(doc, listingElement) {
		images := make([]any, 0)
		for _, loc := range localizations(listing) {
			for _, att := range maps(loc[attachmentsKey]) {
				for _, img := range asSlice(att[imageKey]) {
					if u := imageURL(img, textKey); u != "" {
						images = append(images, u)
					}
				}
			}
		}
		listing[ImagesField] = images
	}
}

// SimplifyImages collapses each localization's images to its first image.
// With several attachments blocks the first one holding images keeps it and
// the image entries of the others are removed.
func SimplifyImages(doc map[string]any, listingElement string) {
	for _, listing := range Listings(doc, listingElement) {
		for _, loc := range localizations(listing) {
			kept := false
			for _, att := range maps(loc[attachmentsKey]) {
				images := asSlice(att[imageKey])
				switch {
				case len(images) == 0:
				case kept:
					delete(att, imageKey)
				default:
					att[imageKey] = images[0]
					kept = true
				}
			}
		}
	}
}

func localizations(listing map[string]any) []map[string]any {
	var out []map[string]any
	for _, group := range maps(listing[localizationsKey]) {
		out = append(out, maps(group[localizationKey])...)
	}
	return out
}

func imageURL(img any, textKey string) string {
	switch t := img.(type) {
	case string:
		return t
	case map[string]any:
		switch u := t[urlKey].(type) {
		case string:
			return u
		case map[string]any:
			if s, ok := u[textKey].(string); ok {
				return s
			}
		case []any:
			if len(u) > 0 {
				return imageURL(map[string]any{urlKey: u[0]}, textKey)
			}
		}
	}
	return ""
}

// asSlice resolves XML's singleton-vs-list ambiguity for reading
func asSlice(v any) []any {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		return t
	default:
		return []any{t}
	}
}

func maps(v any) []map[string]any {
	var out []map[string]any
	for _, item := range asSlice(v) {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}
