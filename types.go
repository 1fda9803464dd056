package shapeval

// Kind is the primitive kind a field rule accepts.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindBool
)

// String returns the lowercase kind name as used in schema documents.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	}
	return "unknown"
}

// Mode controls presence and unknown-key handling of an object rule.
type Mode int

const (
	ModeStrict             Mode = iota // Required; undeclared keys are dropped.
	ModeOptionalWhole                  // May be omitted entirely; undeclared keys are dropped.
	ModeExpandable                     // Required; undeclared keys pass through unchanged.
	ModeOptionalExpandable             // May be omitted entirely; undeclared keys pass through unchanged.
)

// Optional reports whether an absent object is valid.
func (m Mode) Optional() bool { return m == ModeOptionalWhole || m == ModeOptionalExpandable }

// Expandable reports whether undeclared keys are kept in the output.
func (m Mode) Expandable() bool { return m == ModeExpandable || m == ModeOptionalExpandable }

func (m Mode) String() string {
	switch m {
	case ModeStrict:
		return "strict"
	case ModeOptionalWhole:
		return "optional"
	case ModeExpandable:
		return "expandable"
	case ModeOptionalExpandable:
		return "optionalExpandable"
	}
	return "unknown"
}
