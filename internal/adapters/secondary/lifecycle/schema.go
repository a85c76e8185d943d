package lifecycle

import (
	"fmt"
	"strconv"

	"plm-registry-service/internal/core/domain"
	"plm-registry-service/internal/core/ports/output"
)

func newSchema(kind string) (ports.VersionSchema, error) {
	switch kind {
	case "alphabetic":
		return alphabeticSchema{}, nil
	case "numeric":
		return numericSchema{}, nil
	default:
		return nil, fmt.Errorf("unknown version schema kind %q", kind)
	}
}

// alphabeticSchema advances uppercase letter labels the way drawing
// revisions do: A..Z, then AA, AB, and so on.
type alphabeticSchema struct{}

func (alphabeticSchema) NextVersionLabel(current string) (string, error) {
	if current == "" {
		return "", fmt.Errorf("%w: empty label", domain.ErrUnknownVersion)
	}
	label := []byte(current)
	for _, c := range label {
		if c < 'A' || c > 'Z' {
			return "", fmt.Errorf("%w: %q", domain.ErrUnknownVersion, current)
		}
	}
	for i := len(label) - 1; i >= 0; i-- {
		if label[i] < 'Z' {
			label[i]++
			return string(label), nil
		}
		label[i] = 'A'
	}
	return "A" + string(label), nil
}

// numericSchema advances decimal labels: "1" -> "2".
type numericSchema struct{}

func (numericSchema) NextVersionLabel(current string) (string, error) {
	n, err := strconv.Atoi(current)
	if err != nil || n < 0 {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownVersion, current)
	}
	return strconv.Itoa(n + 1), nil
}
