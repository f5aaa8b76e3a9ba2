package schema

import "strings"

// ListQuery carries the paging, sorting and search parameters of a list view.
// Zero values mean "use the default".
type ListQuery struct {
	Page   int    `query:"page"   validate:"gte=0,max=100000"`
	Limit  int    `query:"limit"  validate:"gte=0"`
	Sort   string `query:"sort"   validate:"omitempty,max=40"`
	Order  string `query:"order"  validate:"omitempty,oneof=asc desc"`
	Search string `query:"search" validate:"omitempty,max=100"`
}

func (q *ListQuery) normalize() {
	q.Sort = strings.TrimSpace(q.Sort)
	q.Order = strings.ToLower(strings.TrimSpace(q.Order))
	q.Search = collapse(q.Search)
}

// trimLines trims every line of a multi-line text and drops leading and
// trailing blank lines.
func trimLines(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
