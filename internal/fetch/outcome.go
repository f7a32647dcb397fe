package fetch

import (
	"encoding/json"
	"fmt"
)

// Kind tags how a call settled.
type Kind int

const (
	// KindOK is a 2xx response without a JSON body, 204 included.
	KindOK Kind = iota
	// KindData is a 2xx response carrying a JSON body.
	KindData
	// KindCancelled means the call was superseded or aborted. It is not an error.
	KindCancelled
	// KindFailed accompanies a non-nil error from Execute.
	KindFailed
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindData:
		return "data"
	case KindCancelled:
		return "cancelled"
	case KindFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type Outcome struct {
	Kind   Kind
	Status int
	Body   []byte
}

func (o Outcome) Cancelled() bool {
	return o.Kind == KindCancelled
}

// Decode unmarshals a KindData body into v.
func (o Outcome) Decode(v any) error {
	if o.Kind != KindData {
		return ErrNoBody
	}
	if err := json.Unmarshal(o.Body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Decode is the generic form of Outcome.Decode.
func Decode[T any](o Outcome) (T, error) {
	var v T
	err := o.Decode(&v)
	return v, err
}

// Result folds the return of Execute into a decoded value. A cancelled
// outcome becomes ErrCancelled so callers can drop it with errors.Is.
func Result[T any](out Outcome, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	if out.Cancelled() {
		return zero, ErrCancelled
	}
	return Decode[T](out)
}

// Done is Result for calls whose body does not matter.
func Done(out Outcome, err error) error {
	if err != nil {
		return err
	}
	if out.Cancelled() {
		return ErrCancelled
	}
	return nil
}
