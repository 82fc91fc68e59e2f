package dataset

// Kind is the coarse statistical kind an attribute is treated as.
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindCategorical Kind = "categorical"
	KindOther       Kind = "other"
)

// Classify maps a raw attribute type label to a Kind. Unknown labels are Other.
func Classify(rawType string) Kind {
	switch rawType {
	case "", "categorical", "checkbox", "nominal":
		return KindCategorical
	case "numeric", "date", "qualitative":
		// qualitative displays numeric data as bars
		return KindNumeric
	case "boundary", "color":
		return KindOther
	default:
		return KindOther
	}
}
