package fluxer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Response is the decoded JSON body of a query.
//
// Scalar cell values are preserved generically: numbers arrive as
// json.Number, the rest as string or bool.
type Response struct {
	Results []Result `json:"results"`
	Err     string   `json:"error,omitempty"`
}

// Error folds server-reported failures into a Go error.
//
// The server can return HTTP 200 and still report an error, either for
// the whole response or per statement; callers that only care whether
// the query worked check this once instead of walking Results.
func (r *Response) Error() error {
	if r.Err != "" {
		return errors.New(r.Err)
	}
	for _, result := range r.Results {
		if result.Err != "" {
			return errors.New(result.Err)
		}
	}
	return nil
}

// Result is the outcome of one statement within a query.
type Result struct {
	StatementID int      `json:"statement_id"`
	Series      []Series `json:"series,omitempty"`
	Err         string   `json:"error,omitempty"`
}

// Series is one group of rows sharing a measurement name and tag set.
type Series struct {
	Name    string            `json:"name,omitempty"`
	Tags    map[string]string `json:"tags,omitempty"`
	Columns []string          `json:"columns,omitempty"`
	Values  [][]any           `json:"values,omitempty"`
}

// decodeResponse parses a query body.
//
// UseNumber keeps numeric cells as json.Number instead of collapsing
// everything to float64, so integer timestamps survive intact.
func decodeResponse(r io.Reader) (*Response, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var resp Response
	if err := dec.Decode(&resp); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeFailed, err)
	}
	return &resp, nil
}
