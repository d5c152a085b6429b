package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dshills/ccw/internal/review"
)

// JSONWriter collects results and writes them as one JSON document on Close.
type JSONWriter struct {
	w       io.Writer
	results []review.Result
}

type jsonDocument struct {
	Results []review.Result `json:"results"`
}

func (j *JSONWriter) Start(Header) error { return nil }

func (j *JSONWriter) Result(res review.Result) error {
	j.results = append(j.results, res)
	return nil
}

func (j *JSONWriter) Close() error {
	results := j.results
	if results == nil {
		results = []review.Result{}
	}
	data, err := json.MarshalIndent(jsonDocument{Results: results}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	if _, err := j.w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing JSON: %w", err)
	}
	return nil
}
