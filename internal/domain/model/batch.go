package model

// Batch is a contiguous slice of identifiers fetched in one bulk request.
type Batch struct {
	Index int
	IDs   []int
}

// Partition splits ids into contiguous batches of at most size entries.
// A non-positive size yields a single batch holding every id.
func Partition(ids []int, size int) []Batch {
	if len(ids) == 0 {
		return nil
	}
	if size <= 0 {
		size = len(ids)
	}
	batches := make([]Batch, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		batches = append(batches, Batch{Index: len(batches), IDs: ids[start:end:end]})
	}
	return batches
}
