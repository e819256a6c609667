package odata

// PageInfo describes how to continue from a returned page. A nil cursor
// means there is nothing further in that direction.
type PageInfo struct {
	NextCursor *string `json:"next_cursor,omitempty"`
	PrevCursor *string `json:"prev_cursor,omitempty"`
	Limit      uint64  `json:"limit"`
}

// Page is one window of results plus continuation state.
type Page[T any] struct {
	Items    []T      `json:"items"`
	PageInfo PageInfo `json:"page_info"`
}

func EmptyPage[T any](limit uint64) Page[T] {
	return Page[T]{
		Items:    []T{},
		PageInfo: PageInfo{Limit: limit},
	}
}
