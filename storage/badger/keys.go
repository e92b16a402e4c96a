package badger

// Key prefixes for different data types
const (
	recordPrefix = "txrec"
)

// makeRecordKey generates a key for a transaction record by id.
// Format: prefix:transaction_id
func makeRecordKey(id string) []byte {
	prefix := recordPrefix + ":"
	buf := make([]byte, len(prefix)+len(id))
	offset := copy(buf, prefix)
	copy(buf[offset:], id)
	return buf
}

// recordKeyPrefix is the iteration prefix shared by every record key.
func recordKeyPrefix() []byte {
	return []byte(recordPrefix + ":")
}
