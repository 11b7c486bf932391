package qmood

// Quality holds the six QMOOD quality attributes of a class.
type Quality struct {
	Reusability       float64 `json:"reusability"`
	Flexibility       float64 `json:"flexibility"`
	Understandability float64 `json:"understandability"`
	Functionality     float64 `json:"functionality"`
	Extendibility     float64 `json:"extendibility"`
	Effectiveness     float64 `json:"effectiveness"`
}

// ComputeQuality combines class metrics with the hierarchy-wide DSC.
//
// The Functionality weights include NOP twice, as published.
func ComputeQuality(m Metrics, dsc int) Quality {
	d := float64(dsc)
	dcc := float64(m.DCC)
	moa := float64(m.MOA)
	nop := float64(m.NOP)
	cis := float64(m.CIS)
	nom := float64(m.NOM)

	return Quality{
		Reusability:       -0.25*dcc + 0.25*m.CAM + 0.5*cis + 0.5*d,
		Flexibility:       0.25*m.DAM - 0.25*dcc + 0.5*moa + 0.5*nop,
		Understandability: -0.33*m.ANA + 0.33*m.DAM - 0.33*dcc + 0.33*m.CAM - 0.33*nop - 0.33*nom - 0.33*d,
		Functionality:     0.12*m.CAM + 0.22*nop + 0.22*cis + 0.22*d + 0.22*nop,
		Extendibility:     0.5*m.ANA - 0.5*dcc + 0.5*m.MFA + 0.5*nop,
		Effectiveness:     0.2*m.ANA + 0.2*m.DAM + 0.2*moa + 0.2*m.MFA + 0.2*nop,
	}
}

// Attribute names a quality attribute.
type Attribute string

const (
	Reusability       Attribute = "reusability"
	Flexibility       Attribute = "flexibility"
	Understandability Attribute = "understandability"
	Functionality     Attribute = "functionality"
	Extendibility     Attribute = "extendibility"
	Effectiveness     Attribute = "effectiveness"
)

func (a Attribute) String() string { return string(a) }

// Attributes lists the quality attributes in report order.
func Attributes() []Attribute {
	return []Attribute{Reusability, Flexibility, Understandability, Functionality, Extendibility, Effectiveness}
}

// ParseAttribute returns the attribute with the given name.
func ParseAttribute(s string) (Attribute, bool) {
	for _, a := range Attributes() {
		if string(a) == s {
			return a, true
		}
	}
	return "", false
}

// Of returns the value of attribute a in q.
func (q Quality) Of(a Attribute) float64 {
	switch a {
	case Reusability:
		return q.Reusability
	case Flexibility:
		return q.Flexibility
	case Understandability:
		return q.Understandability
	case Functionality:
		return q.Functionality
	case Extendibility:
		return q.Extendibility
	case Effectiveness:
		return q.Effectiveness
	default:
		return 0
	}
}
