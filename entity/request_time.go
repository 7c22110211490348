package entity

import "fmt"

type RequestKind uint8

const (
	RequestLatest RequestKind = iota
	RequestFirstAfter
)

// RequestTime selects a record in a series: the latest one, or the earliest
// one published at or after Timestamp.
type RequestTime struct {
	Kind      RequestKind
	Timestamp int64
}

func Latest() RequestTime {
	return RequestTime{Kind: RequestLatest}
}

func FirstAfter(ts int64) RequestTime {
	return RequestTime{Kind: RequestFirstAfter, Timestamp: ts}
}

func (r RequestTime) String() string {
	if r.Kind == RequestFirstAfter {
		return fmt.Sprintf("first_after(%d)", r.Timestamp)
	}
	return "latest"
}
