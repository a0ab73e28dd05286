package model

import "encoding/json"

// Optional distinguishes a JSON field that was omitted from one that was
// explicitly provided, including provided-as-null and provided-as-false.
// A field absent from the payload leaves Set false; any present value,
// null included, marks it Set. Partial updates depend on this: omitting
// a field must not overwrite it, while `"isCompleted": false` or
// `"dueDate": null` must still be applied.
type Optional[T any] struct {
	Set   bool
	Value T
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	return json.Unmarshal(data, &o.Value)
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.Value)
}
