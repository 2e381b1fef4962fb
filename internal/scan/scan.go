// Package scan implements offline, read-only parsing of a dumped log
// buffer: it never runs against the live backing buffer and is never on
// the write path. It walks record-aligned offsets looking for the magic
// commit prefix and yields whatever records it can recognize, silently
// skipping anything that does not look like a record rather than
// reporting an error — the dumped bytes may contain in-progress or
// never-touched regions that are not malformed, just not yet records.
package scan

// Alignment is the byte boundary every record (prefix included) starts
// on, and the stride the scanner walks the input at.
const Alignment = 16

// PrefixSize is the width of the magic commit prefix.
const PrefixSize = 16

// Prefix is the fixed magic sequence that marks the start of a
// committed record.
var Prefix = [PrefixSize]byte{
	'\n', 'i', 'P', 'a', 'o', '2', 'i', 'j', 'S', 'a', 'h', 'b', 'e', '0', 'F', ' ',
}

// Record is one recognized record: Offset is the byte offset of its
// magic prefix within the dump, Payload is a view into the dump's own
// bytes (the scanner never copies) running from just after the prefix
// up to wherever the record was judged to end. No length is stored
// anywhere in the format; when a payload's true length is not a
// multiple of Alignment, Payload includes whatever alignment-padding
// bytes happened to occupy the rest of its final 16-byte slot. A caller
// whose payloads are not already self-delimiting (newline-terminated,
// fixed-width, length-prefixed by convention) must account for this.
type Record struct {
	Offset  int
	Payload []byte
}

// Scan walks dump at record-aligned offsets looking for the magic
// prefix, starting from the beginning. chunkSize must match the
// chunk_size the dump was produced with; it is used to find chunk
// boundaries, since a record never spans one. If chunkSize is not a
// positive multiple of Alignment, Scan returns no records.
//
// Scan never returns an error: inconsistent or partially-written regions
// are skipped rather than reported, matching the read side's policy of
// never raising on data it cannot make sense of.
func Scan(dump []byte, chunkSize int) []Record {
	var records []Record
	if chunkSize <= 0 || chunkSize%Alignment != 0 {
		return records
	}

	for off := 0; off+PrefixSize <= len(dump); off += Alignment {
		if !isPrefix(dump, off) {
			continue
		}
		chunkEnd := chunkBoundary(off, chunkSize)
		payloadStart := off + PrefixSize
		payloadEnd := findRecordEnd(dump, payloadStart, chunkEnd)
		records = append(records, Record{
			Offset:  off,
			Payload: dump[payloadStart:payloadEnd:payloadEnd],
		})
	}
	return records
}

// findRecordEnd returns the offset a record starting at payloadStart
// ends at: the next aligned offset, not past limit, that is either
// another magic prefix or sixteen zero bytes, or limit itself if none
// is found first.
func findRecordEnd(dump []byte, payloadStart, limit int) int {
	for off := payloadStart; off+Alignment <= limit; off += Alignment {
		if isPrefix(dump, off) || isZero(dump, off) {
			return off
		}
	}
	return limit
}

func isPrefix(dump []byte, off int) bool {
	if off+PrefixSize > len(dump) {
		return false
	}
	for i := 0; i < PrefixSize; i++ {
		if dump[off+i] != Prefix[i] {
			return false
		}
	}
	return true
}

func isZero(dump []byte, off int) bool {
	if off+Alignment > len(dump) {
		return false
	}
	for i := 0; i < Alignment; i++ {
		if dump[off+i] != 0 {
			return false
		}
	}
	return true
}

// chunkBoundary returns the offset of the start of the chunk after the
// one off falls in.
func chunkBoundary(off, chunkSize int) int {
	return (off/chunkSize + 1) * chunkSize
}
