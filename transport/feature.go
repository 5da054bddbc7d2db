package transport

// Feature is a negotiable HELLO feature code (§6).
type Feature uint16

const (
	FeatureDatatype           = Feature(0x01)
	FeatureMutationSeqno      = Feature(0x04) // MUTATION_EXTRAS
	FeatureXattr              = Feature(0x06)
	FeatureXerror             = Feature(0x07)
	FeatureSelectBucket       = Feature(0x08)
	FeatureSnappy             = Feature(0x0a)
	FeatureJSON               = Feature(0x0b)
	FeatureDuplex             = Feature(0x0c)
	FeatureClustermapChangeNotification = Feature(0x0d) // CCCP
	FeatureUnorderedExecution = Feature(0x0e)
	FeatureTracing            = Feature(0x0f)
	FeatureCollections        = Feature(0x12)
)

// FeatureSet is the set of features negotiated on a connection.
type FeatureSet map[Feature]bool

// NewFeatureSet builds a FeatureSet from a HELLO request's feature list,
// keeping only the ones this server knows how to support.
func NewFeatureSet(requested []Feature) FeatureSet {
	fs := make(FeatureSet, len(requested))
	for _, f := range requested {
		if supportedFeatures[f] {
			fs[f] = true
		}
	}
	return fs
}

var supportedFeatures = map[Feature]bool{
	FeatureDatatype: true, FeatureMutationSeqno: true, FeatureXattr: true,
	FeatureXerror: true, FeatureSelectBucket: true, FeatureSnappy: true,
	FeatureJSON: true, FeatureDuplex: true, FeatureClustermapChangeNotification: true,
	FeatureUnorderedExecution: true, FeatureTracing: true, FeatureCollections: true,
}

func (fs FeatureSet) Has(f Feature) bool { return fs[f] }

// Enabled returns the negotiated set as a slice, in request order isn't
// preserved (Agreed order doesn't matter to the wire format: HELLO replies
// list whatever subset was accepted).
func (fs FeatureSet) Enabled() []Feature {
	out := make([]Feature, 0, len(fs))
	for f := range fs {
		out = append(out, f)
	}
	return out
}
