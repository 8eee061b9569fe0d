package verification

import (
	"fmt"
	"strings"

	"digisign/portal-backend/internal/common"
)

// Query selects how a verification is resolved. It is either Referenced or
// Inline.
type Query interface {
	isQuery()
}

// Referenced resolves by looking the document up in the store.
type Referenced struct {
	ID string
}

// Inline resolves from the JSON payload carried in the link.
type Inline struct {
	Raw string
}

func (Referenced) isQuery() {}
func (Inline) isQuery()     {}

// ParseQuery builds a query from the id and data link parameters. An id
// takes precedence over data.
func ParseQuery(id, data string) (Query, error) {
	if id = strings.TrimSpace(id); id != "" {
		return Referenced{ID: id}, nil
	}
	if strings.TrimSpace(data) != "" {
		return Inline{Raw: data}, nil
	}
	return nil, fmt.Errorf("%w: no verification data found", common.ErrInvalidPayload)
}
