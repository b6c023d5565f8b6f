package domain

// TicketCount is the length of the display cycle. Raw ticket numbers keep
// climbing forever; only the label wraps.
const TicketCount = 50

// DisplayLabel maps a raw ticket number onto the repeating 1..TicketCount
// cycle shown to customers. Purely presentational: uniqueness and ordering
// always work on the raw number.
func DisplayLabel(n int64) int64 {
	return (n-1)%TicketCount + 1
}
