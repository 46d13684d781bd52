package normalizer

// Options selects the optional image reshaping steps
type Options struct {
	FlattenImages  bool
	SimplifyImages bool
}

// Normalizer parses upstream XML and applies image reshaping
type Normalizer struct {
	Parser         Parser
	ListingElement string
}

// Normalize parses raw and applies the requested reshaping. Flattening runs
// first because simplifying discards the images it reads.
func (n *Normalizer) Normalize(raw []byte, opts Options) (map[string]any, error) {
	doc, err := n.Parser.Parse(raw)
	if err != nil {
		return nil, err
	}
	if opts.FlattenImages {
		FlattenImages(doc, n.ListingElement, n.Parser.TextKey)
	}
	if opts.SimplifyImages {
		SimplifyImages(doc, n.ListingElement)
	}
	return doc, nil
}
