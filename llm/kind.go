package llm

import (
	"fmt"
	"strings"
)

// QueryKind is the derived category of a request. It is computed
// deterministically from the request text by the selector's keyword
// cascade and drives provider preference lookup.
type QueryKind int

const (
	// KindImageGen is an image generation request.
	KindImageGen QueryKind = iota
	// KindCodeGen is a code generation request.
	KindCodeGen
	// KindVision is an image analysis request.
	KindVision
	// KindComplexReasoning is a multi-step explanation or analysis request.
	KindComplexReasoning
	// KindFastSimple is a short request answerable by a fast model.
	KindFastSimple
	// KindChat is the default conversational kind.
	KindChat
)

// String returns the string representation of the query kind.
func (k QueryKind) String() string {
	switch k {
	case KindImageGen:
		return "image_gen"
	case KindCodeGen:
		return "code_gen"
	case KindVision:
		return "vision"
	case KindComplexReasoning:
		return "complex_reasoning"
	case KindFastSimple:
		return "fast_simple"
	case KindChat:
		return "chat"
	default:
		return "unknown"
	}
}

// ParseQueryKind parses a query kind from string (case-insensitive).
func ParseQueryKind(s string) (QueryKind, error) {
	switch strings.ToLower(s) {
	case "image_gen":
		return KindImageGen, nil
	case "code_gen":
		return KindCodeGen, nil
	case "vision":
		return KindVision, nil
	case "complex_reasoning":
		return KindComplexReasoning, nil
	case "fast_simple":
		return KindFastSimple, nil
	case "chat":
		return KindChat, nil
	default:
		return 0, fmt.Errorf("unknown query kind: %q", s)
	}
}

// AllQueryKinds returns every query kind in declaration order.
func AllQueryKinds() []QueryKind {
	return []QueryKind{
		KindImageGen, KindCodeGen, KindVision,
		KindComplexReasoning, KindFastSimple, KindChat,
	}
}
